package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rohanthewiz/serr"

	"repomuse/analysis"
)

// thinkPattern captures reasoning some models emit inside think tags ahead
// of the usable response.
var thinkPattern = regexp.MustCompile(`(?s)<think>(.*?)</think>(.*)`)

// IdeaSet is the parsed outcome of one idea-generation run.
type IdeaSet struct {
	Ideas    []string `json:"ideas"`
	Thinking string   `json:"thinking,omitempty"`
}

const ideasSystemPrompt = "You are a senior software engineer reviewing a codebase. " +
	"Respond with a numbered list of concrete, actionable development ideas. No preamble."

// GenerateIdeas asks the model for next steps on the analyzed project,
// optionally steered toward a focus area.
func (c *Client) GenerateIdeas(a *analysis.Analysis, focusArea string) (*IdeaSet, error) {
	content, err := c.chat(ideasSystemPrompt, ideasPrompt(a, focusArea), 0.8)
	if err != nil {
		return nil, err
	}

	thinking, response := SplitThinking(content)
	ideas := parseIdeas(response)
	if len(ideas) == 0 {
		return nil, serr.New("model response held no usable ideas")
	}
	return &IdeaSet{Ideas: ideas, Thinking: thinking}, nil
}

func ideasPrompt(a *analysis.Analysis, focusArea string) string {
	var b strings.Builder
	b.WriteString("Suggest 5 development ideas for this project.\n\n")
	if focusArea != "" {
		fmt.Fprintf(&b, "Focus area: %s\n\n", focusArea)
	}
	b.WriteString(BuildContext(a))
	return b.String()
}

// SplitThinking separates think-tag reasoning from the response proper.
// Content without think tags comes back whole.
func SplitThinking(content string) (thinking, response string) {
	if m := thinkPattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return "", strings.TrimSpace(content)
}

// parseIdeas pulls list entries out of model prose. A numbered or bulleted
// line opens a new idea, unmarked lines extend the current one, and tiny
// fragments are dropped.
func parseIdeas(response string) []string {
	var ideas []string
	var current strings.Builder

	flush := func() {
		idea := strings.TrimSpace(current.String())
		if len(idea) > 20 {
			ideas = append(ideas, idea)
		}
		current.Reset()
	}

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rest, ok := stripListMarker(trimmed); ok {
			flush()
			current.WriteString(rest)
		} else if current.Len() > 0 {
			current.WriteString(" ")
			current.WriteString(trimmed)
		}
	}
	flush()
	return ideas
}

// stripListMarker removes a leading bullet or "1." / "1)" numbering.
func stripListMarker(line string) (string, bool) {
	for _, marker := range []string{"- ", "• ", "* "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:]), true
	}
	return "", false
}
