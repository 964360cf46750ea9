package ai

import (
	"strings"
	"testing"
)

// TestSplitThinking tests think-tag separation
func TestSplitThinking(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantThinking string
		wantResponse string
	}{
		{
			name:         "no think tags",
			content:      "1. Add caching\n2. Improve logging",
			wantThinking: "",
			wantResponse: "1. Add caching\n2. Improve logging",
		},
		{
			name:         "think block precedes response",
			content:      "<think>Let me look at the files.</think>\n1. Add caching",
			wantThinking: "Let me look at the files.",
			wantResponse: "1. Add caching",
		},
		{
			name:         "multiline think block",
			content:      "<think>line one\nline two</think>answer here",
			wantThinking: "line one\nline two",
			wantResponse: "answer here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thinking, response := SplitThinking(tt.content)
			if thinking != tt.wantThinking {
				t.Errorf("thinking = %q, want %q", thinking, tt.wantThinking)
			}
			if response != tt.wantResponse {
				t.Errorf("response = %q, want %q", response, tt.wantResponse)
			}
		})
	}
}

// TestParseIdeas tests list extraction from model prose
func TestParseIdeas(t *testing.T) {
	t.Run("numbered list", func(t *testing.T) {
		response := strings.Join([]string{
			"1. Add integration tests for the cache layer",
			"2. Introduce structured logging across handlers",
			"3) Wire a health endpoint into the server",
		}, "\n")

		ideas := parseIdeas(response)
		if len(ideas) != 3 {
			t.Fatalf("Expected 3 ideas, got %d: %v", len(ideas), ideas)
		}
		if ideas[0] != "Add integration tests for the cache layer" {
			t.Errorf("First idea = %q", ideas[0])
		}
	})

	t.Run("bullet list with continuations", func(t *testing.T) {
		response := strings.Join([]string{
			"- Migrate the settings file to a documented format",
			"  so user edits survive upgrades",
			"- Add a retry budget to the endpoint client",
		}, "\n")

		ideas := parseIdeas(response)
		if len(ideas) != 2 {
			t.Fatalf("Expected 2 ideas, got %d: %v", len(ideas), ideas)
		}
		if !strings.Contains(ideas[0], "survive upgrades") {
			t.Errorf("Continuation not appended: %q", ideas[0])
		}
	})

	t.Run("short fragments dropped", func(t *testing.T) {
		response := "1. Too short\n2. This idea is long enough to keep around"

		ideas := parseIdeas(response)
		if len(ideas) != 1 {
			t.Fatalf("Expected 1 idea, got %d: %v", len(ideas), ideas)
		}
	})

	t.Run("prose without markers yields nothing", func(t *testing.T) {
		if ideas := parseIdeas("The project looks fine to me overall."); len(ideas) != 0 {
			t.Errorf("Expected no ideas, got %v", ideas)
		}
	})

	t.Run("unicode bullets", func(t *testing.T) {
		ideas := parseIdeas("• Add benchmarks around the file walker hot path")
		if len(ideas) != 1 {
			t.Fatalf("Expected 1 idea, got %v", ideas)
		}
		if strings.Contains(ideas[0], "•") {
			t.Errorf("Marker not stripped: %q", ideas[0])
		}
	})
}

func TestStripListMarker(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"- dash entry", "dash entry", true},
		{"* star entry", "star entry", true},
		{"• bullet entry", "bullet entry", true},
		{"1. numbered", "numbered", true},
		{"12) high numbered", "high numbered", true},
		{"plain prose", "", false},
		{"3 items remain", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := stripListMarker(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("stripListMarker(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractKeyFeatures(t *testing.T) {
	summary := strings.Join([]string{
		"The project is a repository analyzer.",
		"",
		"- Parallel file scanning",
		"• Cached project listings",
		"- " + strings.Repeat("x", 250),
		"Not a feature line",
	}, "\n")

	features := ExtractKeyFeatures(summary)
	if len(features) != 2 {
		t.Fatalf("Expected 2 features, got %d: %v", len(features), features)
	}
	if features[0] != "Parallel file scanning" {
		t.Errorf("First feature = %q", features[0])
	}
	if features[1] != "Cached project listings" {
		t.Errorf("Second feature = %q", features[1])
	}
}
