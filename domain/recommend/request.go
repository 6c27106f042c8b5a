package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPrompt rejects a recommendation request without a prompt.
var ErrEmptyPrompt = errors.New("recommend: prompt is required")

// Request carries what the user asked for: the free-form prompt plus
// optional structured preferences.
type Request struct {
	Prompt string
	Mood   string
	Themes []string
	Length string
}

// Validate trims the prompt and rejects an empty request.
func (r *Request) Validate() error {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// PreferenceText renders the request as the bullet list quoted inside
// reason prompts.
func (r Request) PreferenceText() string {
	lines := []string{fmt.Sprintf("- 자유요청: %s", r.Prompt)}
	if r.Mood != "" {
		lines = append(lines, fmt.Sprintf("- 분위기: %s", r.Mood))
	}
	if len(r.Themes) > 0 {
		lines = append(lines, fmt.Sprintf("- 원하는 주제/요소: %s", strings.Join(r.Themes, ", ")))
	}
	if r.Length != "" {
		lines = append(lines, fmt.Sprintf("- 분량 선호: %s", r.Length))
	}
	return strings.Join(lines, "\n")
}

// BuildEmbedQuery composes the sectioned text embedded as the query
// vector. Sections with nothing to say are omitted; topic, theme and
// avoid lists are capped so one field cannot crowd out the rest.
func BuildEmbedQuery(req Request, intent Intent, topics []string, mood string) string {
	intentLine := intent.Intent
	if intentLine == "" {
		intentLine = req.Prompt
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[의도] %s\n", intentLine)
	fmt.Fprintf(&b, "[원문] %s\n", req.Prompt)
	fmt.Fprintf(&b, "[핵심토픽] %s", strings.Join(capList(topics, 6), ", "))
	if intent.RequestType != "" {
		fmt.Fprintf(&b, "\n[원하는도움] %s", intent.RequestType)
	}
	if mood != "" {
		fmt.Fprintf(&b, "\n[분위기] %s", mood)
	}
	if len(req.Themes) > 0 {
		fmt.Fprintf(&b, "\n[원하는요소] %s", strings.Join(capList(req.Themes, 6), ", "))
	}
	if req.Length != "" {
		fmt.Fprintf(&b, "\n[분량] %s", req.Length)
	}
	if intent.Notes != "" {
		fmt.Fprintf(&b, "\n[제약] %s", intent.Notes)
	}
	if len(intent.Avoid) > 0 {
		fmt.Fprintf(&b, "\n[피하고싶음] %s", strings.Join(capList(intent.Avoid, 4), ", "))
	}
	return b.String()
}

func capList(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
