package recommend

import (
	"regexp"
	"strings"
)

var (
	codeFencePattern    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// StripCodeFence removes a Markdown code fence wrapping the text, if
// present, returning the fenced body. Text without a fence is returned
// trimmed but otherwise unchanged.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := codeFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// StripWrappingQuotes removes one layer of matching single or double
// quotes around the whole string.
func StripWrappingQuotes(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if first == last && (first == '"' || first == '\'') {
			return strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}

// ExtractJSON locates the first balanced JSON object in the text and
// returns it with trailing commas removed, tolerating fences and prose
// around it. An empty string means no object was found.
func ExtractJSON(text string) string {
	text = StripCodeFence(text)
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return trailingCommaPattern.ReplaceAllString(text[start:i+1], "$1")
			}
		}
	}
	return ""
}
