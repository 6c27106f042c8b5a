package recommend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Intent is the structured reading of a free-form prompt, as returned
// by the language model and normalized by ParseIntent.
type Intent struct {
	Intent      string   `json:"intent"`
	CoreTopics  []string `json:"core_topics"`
	Mood        string   `json:"mood"`
	RequestType string   `json:"request_type"`
	Avoid       []string `json:"avoid"`
	Notes       string   `json:"notes"`
}

// IsZero reports whether nothing useful was extracted.
func (i Intent) IsZero() bool {
	return i.Intent == "" && len(i.CoreTopics) == 0 && i.Mood == "" &&
		i.RequestType == "" && len(i.Avoid) == 0 && i.Notes == ""
}

// BuildIntentPrompt renders the instruction sent to the model for
// intent extraction. The model is asked for JSON only.
func BuildIntentPrompt(prompt string) string {
	var b strings.Builder
	b.WriteString("너는 한국어 문장 이해 전문가다.\n")
	b.WriteString("사용자 입력을 '도서 추천'에 쓰기 좋게 구조화(JSON)해라.\n")
	fmt.Fprintf(&b, "[사용자 입력] %s\n", strings.TrimSpace(prompt))
	b.WriteString(`출력은 JSON만. 스키마: {"intent": "한 줄 의도", "core_topics": ["주제"], "mood": "분위기", "request_type": "유형", "avoid": [], "notes": ""}` + "\n")
	b.WriteString("규칙: '책', '추천' 등 메타 단어 제외.")
	return b.String()
}

// ParseIntent decodes raw model output into an Intent and normalizes
// its topics: stopwords are dropped and a trailing "관련" suffix is
// stripped. When the model answered but no topic survives cleaning, a
// short topic is synthesized from the prompt. An empty raw means the
// model said nothing; the intent stays empty so the caller can fall
// back to keyword extraction instead.
func ParseIntent(raw, prompt string) Intent {
	var intent Intent
	if strings.TrimSpace(raw) == "" {
		intent.Avoid = []string{}
		return intent
	}
	if body := ExtractJSON(raw); body != "" {
		// Malformed output degrades to the synthesized topic below.
		_ = json.Unmarshal([]byte(body), &intent)
	}
	intent.CoreTopics = cleanTopics(intent.CoreTopics)
	if len(intent.CoreTopics) == 0 {
		if topic := synthesizeTopic(prompt); topic != "" {
			intent.CoreTopics = []string{topic}
		}
	}
	if intent.Avoid == nil {
		intent.Avoid = []string{}
	}
	return intent
}

func cleanTopics(topics []string) []string {
	cleaned := make([]string, 0, len(topics))
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" || isStopword(topic) {
			continue
		}
		topic = strings.TrimSuffix(topic, tokens.TopicSuffix)
		if topic == "" || isStopword(topic) {
			continue
		}
		cleaned = append(cleaned, topic)
	}
	return cleaned
}

// synthesizeTopic builds a fallback topic from the prompt with request
// filler removed, capped at ten characters.
func synthesizeTopic(prompt string) string {
	cleaned := prompt
	for _, word := range tokens.RequestWords {
		cleaned = strings.ReplaceAll(cleaned, word, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}
	runes := []rune(cleaned)
	if len(runes) > 10 {
		runes = runes[:10]
	}
	return string(runes)
}
