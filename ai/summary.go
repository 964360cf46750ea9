package ai

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rohanthewiz/serr"

	"repomuse/analysis"
)

const (
	summarySystemPrompt = "You are a technical writer. Summarize the project in a few short " +
		"paragraphs, then list its key features as dash-prefixed lines."

	summaryPreviewFiles = 15
	summaryPreviewChars = 300
)

// Summary is a generated project summary with its extracted highlights.
type Summary struct {
	ProjectPath  string   `json:"project_path"`
	Summary      string   `json:"summary"`
	GeneratedAt  string   `json:"generated_at"`
	Technologies []string `json:"technologies"`
	KeyFeatures  []string `json:"key_features"`
}

// GenerateSummary produces a prose summary of the analyzed project along
// with its technologies and extracted key features.
func (c *Client) GenerateSummary(a *analysis.Analysis, projectPath string) (*Summary, error) {
	content, err := c.chat(summarySystemPrompt, summaryPrompt(a, projectPath), 0.7)
	if err != nil {
		return nil, err
	}

	_, response := SplitThinking(content)
	if response == "" {
		return nil, serr.New("model returned an empty summary")
	}
	return &Summary{
		ProjectPath:  projectPath,
		Summary:      response,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Technologies: a.Technologies,
		KeyFeatures:  ExtractKeyFeatures(response),
	}, nil
}

// summaryPrompt hands the model the metrics plus a bounded set of file
// excerpts.
func summaryPrompt(a *analysis.Analysis, projectPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", filepath.Base(projectPath))
	fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(a.Technologies, ", "))
	fmt.Fprintf(&b, "Files: %d (%d lines)\n\n", a.Metrics.TotalFiles, a.Metrics.TotalLines)

	b.WriteString("File previews:\n")
	for i, f := range a.Files {
		if i >= summaryPreviewFiles {
			break
		}
		fmt.Fprintf(&b, "--- %s ---\n%s\n", f.Path, clip(f.Content, summaryPreviewChars))
	}
	return b.String()
}

// ExtractKeyFeatures keeps the short dash or bullet lines from summary
// prose.
func ExtractKeyFeatures(summary string) []string {
	features := []string{}
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		var rest string
		switch {
		case strings.HasPrefix(trimmed, "- "):
			rest = strings.TrimPrefix(trimmed, "- ")
		case strings.HasPrefix(trimmed, "• "):
			rest = strings.TrimPrefix(trimmed, "• ")
		default:
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest != "" && len(rest) < 200 {
			features = append(features, rest)
		}
	}
	return features
}
