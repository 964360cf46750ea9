package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repomuse/analysis"
	"repomuse/storage"
)

func chatServer(t *testing.T, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
		}
		payload := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
}

func testClient(url string) *Client {
	return NewClient(storage.Settings{
		APIURL: url + "/v1/chat/completions",
		Model:  "test-model",
	})
}

func smallAnalysis() *analysis.Analysis {
	return &analysis.Analysis{
		Files: []analysis.FileRecord{
			{Path: "/p/main.go", Content: "package main\n", Language: "Go", Size: 13},
		},
		Structure:    map[string][]string{"/p": {"go.mod", "main.go"}},
		Technologies: []string{"Go"},
		Metrics:      analysis.Metrics{TotalFiles: 2, TotalLines: 10, AnalyzedFiles: 1},
	}
}

// TestGenerateIdeas tests the full request/response cycle against a stub endpoint
func TestGenerateIdeas(t *testing.T) {
	reply := strings.Join([]string{
		"<think>the project is tiny</think>",
		"1. Add a configuration file with sensible defaults",
		"2. Introduce table-driven tests for the parser",
	}, "\n")

	var captured chatRequest
	srv := chatServer(t, reply, &captured)
	defer srv.Close()

	set, err := testClient(srv.URL).GenerateIdeas(smallAnalysis(), "testing")
	if err != nil {
		t.Fatalf("GenerateIdeas failed: %v", err)
	}

	if len(set.Ideas) != 2 {
		t.Fatalf("Expected 2 ideas, got %d: %v", len(set.Ideas), set.Ideas)
	}
	if set.Thinking != "the project is tiny" {
		t.Errorf("Thinking = %q", set.Thinking)
	}

	if captured.Model != "test-model" {
		t.Errorf("Model = %q", captured.Model)
	}
	if captured.Temperature != 0.8 {
		t.Errorf("Temperature = %v, want 0.8", captured.Temperature)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("Unexpected messages: %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[1].Content, "Focus area: testing") {
		t.Errorf("Prompt missing focus area:\n%s", captured.Messages[1].Content)
	}
	if !strings.Contains(captured.Messages[1].Content, "Technologies: Go") {
		t.Errorf("Prompt missing project context:\n%s", captured.Messages[1].Content)
	}
}

func TestGenerateIdeasEmptyResponse(t *testing.T) {
	srv := chatServer(t, "Sounds good.", nil)
	defer srv.Close()

	_, err := testClient(srv.URL).GenerateIdeas(smallAnalysis(), "")
	if err == nil {
		t.Fatal("Expected error for response without ideas")
	}
}

// TestGenerateSummary tests summary assembly and feature extraction
func TestGenerateSummary(t *testing.T) {
	reply := strings.Join([]string{
		"A compact repository analysis service.",
		"",
		"- Caches analysis results on disk",
		"- Serves a local web dashboard",
	}, "\n")

	var captured chatRequest
	srv := chatServer(t, reply, &captured)
	defer srv.Close()

	sum, err := testClient(srv.URL).GenerateSummary(smallAnalysis(), "/home/u/projects/svc")
	if err != nil {
		t.Fatalf("GenerateSummary failed: %v", err)
	}

	if sum.ProjectPath != "/home/u/projects/svc" {
		t.Errorf("ProjectPath = %q", sum.ProjectPath)
	}
	if !strings.Contains(sum.Summary, "repository analysis service") {
		t.Errorf("Summary = %q", sum.Summary)
	}
	if len(sum.KeyFeatures) != 2 {
		t.Errorf("KeyFeatures = %v", sum.KeyFeatures)
	}
	if sum.GeneratedAt == "" {
		t.Error("GeneratedAt not set")
	}
	if captured.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", captured.Temperature)
	}
	if !strings.Contains(captured.Messages[1].Content, "Project: svc") {
		t.Errorf("Prompt missing project name:\n%s", captured.Messages[1].Content)
	}
}

func TestChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GenerateIdeas(smallAnalysis(), "")
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "AI API error") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestChatSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "1. Wire up the token check against the live endpoint"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(storage.Settings{APIURL: srv.URL, Model: "m", APIKey: "secret-key"})
	if _, err := client.GenerateIdeas(smallAnalysis(), ""); err != nil {
		t.Fatalf("GenerateIdeas failed: %v", err)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

// TestListModels tests both list shapes and the URL fallback order
func TestListModels(t *testing.T) {
	t.Run("openai shape", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/models" {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"id": "llama3"}, {"id": "mistral"}},
			})
		}))
		defer srv.Close()

		models, err := ListModels(storage.Settings{APIURL: srv.URL + "/chat/completions"})
		if err != nil {
			t.Fatalf("ListModels failed: %v", err)
		}
		if len(models) != 2 || models[0].ID != "llama3" {
			t.Errorf("models = %+v", models)
		}
	})

	t.Run("ollama shape on v1 fallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/models" {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"models": []map[string]interface{}{
					{"name": "qwen2.5", "details": map[string]string{"family": "qwen"}},
				},
			})
		}))
		defer srv.Close()

		models, err := ListModels(storage.Settings{APIURL: srv.URL + "/v1/chat/completions"})
		if err != nil {
			t.Fatalf("ListModels failed: %v", err)
		}
		if len(models) != 1 || models[0].ID != "qwen2.5" || models[0].Family != "qwen" {
			t.Errorf("models = %+v", models)
		}
	})

	t.Run("both endpoints failing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		if _, err := ListModels(storage.Settings{APIURL: srv.URL + "/v1/chat/completions"}); err == nil {
			t.Fatal("Expected error when no endpoint lists models")
		}
	})
}

func TestParseModelList(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"openai", `{"data": [{"id": "a"}, {"id": "b"}]}`, 2},
		{"ollama", `{"models": [{"name": "a"}]}`, 1},
		{"neither", `{"items": []}`, 0},
		{"garbage", `not json`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseModelList([]byte(tt.body)); len(got) != tt.want {
				t.Errorf("parseModelList(%s) = %+v, want %d entries", tt.body, got, tt.want)
			}
		})
	}
}
