// Package ai turns analysis results into development ideas and project
// summaries through an OpenAI-compatible chat endpoint. Local Ollama
// servers work out of the box; anything speaking the same shape does too.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rohanthewiz/serr"

	"repomuse/storage"
)

// Client speaks to one chat endpoint described by the user's settings.
type Client struct {
	httpClient *http.Client
	settings   storage.Settings
}

// NewClient returns a client for the endpoint described by settings.
func NewClient(settings storage.Settings) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		settings:   settings,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat sends one completion request and returns the assistant text.
func (c *Client) chat(system, user string, temperature float64) (string, error) {
	requestBody, err := json.Marshal(chatRequest{
		Model: c.settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", serr.Wrap(err, "failed to marshal chat request")
	}

	req, err := http.NewRequest("POST", c.settings.APIURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", serr.Wrap(err, "failed to create chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.settings.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.settings.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", serr.Wrap(err, "failed to reach AI endpoint")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", serr.Wrap(err, "failed to read AI response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", serr.New(fmt.Sprintf("AI API error: %s - %s", resp.Status, string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", serr.Wrap(err, "failed to parse AI response")
	}
	if len(parsed.Choices) == 0 {
		return "", serr.New("AI response held no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// ModelInfo is one entry from the endpoint's model listing.
type ModelInfo struct {
	ID     string `json:"id"`
	Family string `json:"family,omitempty"`
}

// ListModels asks the configured endpoint what models it serves. The chat
// path is stripped back to the base URL and both common listing routes are
// tried in turn.
func ListModels(settings storage.Settings) ([]ModelInfo, error) {
	base := strings.TrimSuffix(settings.APIURL, "/chat/completions")
	base = strings.TrimSuffix(base, "/v1")
	base = strings.TrimSuffix(base, "/")

	client := &http.Client{Timeout: 15 * time.Second}
	var lastErr error
	for _, url := range []string{base + "/models", base + "/v1/models"} {
		models, err := fetchModels(client, url, settings.APIKey)
		if err != nil {
			lastErr = err
			continue
		}
		if len(models) > 0 {
			return models, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return []ModelInfo{}, nil
}

func fetchModels(client *http.Client, url, key string) ([]ModelInfo, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, serr.Wrap(err, "failed to create models request")
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, serr.Wrap(err, "failed to reach models endpoint")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serr.Wrap(err, "failed to read models response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, serr.New("models endpoint returned " + resp.Status)
	}
	return parseModelList(body), nil
}

// parseModelList accepts both the OpenAI data[] and the Ollama models[]
// listing shapes; anything else yields an empty list.
func parseModelList(body []byte) []ModelInfo {
	var openai struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &openai); err == nil && len(openai.Data) > 0 {
		models := make([]ModelInfo, 0, len(openai.Data))
		for _, m := range openai.Data {
			models = append(models, ModelInfo{ID: m.ID})
		}
		return models
	}

	var ollama struct {
		Models []struct {
			Name    string `json:"name"`
			Details struct {
				Family string `json:"family"`
			} `json:"details"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &ollama); err == nil && len(ollama.Models) > 0 {
		models := make([]ModelInfo, 0, len(ollama.Models))
		for _, m := range ollama.Models {
			models = append(models, ModelInfo{ID: m.Name, Family: m.Details.Family})
		}
		return models
	}
	return []ModelInfo{}
}
