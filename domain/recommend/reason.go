package recommend

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bookdam/bookdam/domain/catalog"
)

const (
	// maxReasonRunes is where reason text gets trimmed back to the
	// last sentence boundary. Korean text is measured in runes.
	maxReasonRunes = 250
	// minReasonRunes rejects model output too short to be a reason.
	minReasonRunes = 30
	// maxPromptDescRunes caps the book description quoted in the
	// reason prompt.
	maxPromptDescRunes = 400
)

var (
	spacePattern       = regexp.MustCompile(`\s+`)
	sentenceEndPattern = regexp.MustCompile(`[.!?](\s|$)`)
)

// NormalizeSpace flattens newlines and collapses runs of whitespace.
func NormalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// TrimToSentenceEnd shortens s to at most maxRunes runes, cutting at
// the last sentence boundary inside the window when one exists and
// appending an ellipsis otherwise.
func TrimToSentenceEnd(s string, maxRunes int) string {
	s = NormalizeSpace(s)
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	truncated := string(runes[:maxRunes])
	ends := sentenceEndPattern.FindAllStringIndex(truncated, -1)
	if len(ends) > 0 {
		last := ends[len(ends)-1]
		return strings.TrimSpace(truncated[:last[1]])
	}
	return strings.TrimSpace(truncated) + "..."
}

// CleanReason normalizes raw model output into presentable reason
// text. ok is false when the output is too short to use and the
// caller should fall back to FallbackReason.
func CleanReason(raw string) (string, bool) {
	text := StripWrappingQuotes(StripCodeFence(raw))
	text = TrimToSentenceEnd(text, maxReasonRunes)
	if len([]rune(text)) < minReasonRunes {
		return "", false
	}
	return text, true
}

// FallbackReason is the deterministic reason used when the model is
// unavailable or its output was unusable.
func FallbackReason(book catalog.Book) string {
	category := book.CategoryName()
	if category == "" {
		category = "이 분야"
	}
	return fmt.Sprintf("'%s'은 %s 분야의 수작으로, 요청하신 주제에 대해 깊이 있는 통찰을 제공합니다. 이 책을 통해 새로운 관점을 얻으실 수 있을 거예요.", book.Title(), category)
}

// BuildReasonPrompt renders the curator prompt asking the model to
// explain one picked book against the user's stated preferences.
// matchedTopics are the request topics that actually occur in the
// book's text; they anchor the reasons to the user's own words.
func BuildReasonPrompt(prefText string, book catalog.Book, matchedTopics []string) string {
	desc := NormalizeSpace(book.Description())
	if runes := []rune(desc); len(runes) > maxPromptDescRunes {
		desc = string(runes[:maxPromptDescRunes])
	}
	var b strings.Builder
	b.WriteString("당신은 따뜻하고 통찰력 있는 'AI 도서 큐레이터'입니다.\n")
	b.WriteString("사용자의 고민이나 관심사에 맞춰 이 책을 추천하는 이유를 아래 **형식**에 맞춰 작성해주세요.\n\n")
	fmt.Fprintf(&b, "[사용자 상황/요청] %q\n\n", prefText)
	fmt.Fprintf(&b, "[책 정보]\n- 제목: %s\n- 분류: %s\n- 내용: %s\n", book.Title(), book.CategoryName(), desc)
	if len(matchedTopics) > 0 {
		fmt.Fprintf(&b, "- 연결 키워드: %s\n", strings.Join(matchedTopics, ", "))
	}
	b.WriteString("\n")
	b.WriteString("★필수 작성 형식★:\n")
	fmt.Fprintf(&b, "%q에 대해 관심이 있으시군요. 이 책을 추천해 드립니다.\n", prefText)
	b.WriteString("이 책의 줄거리는 (줄거리 요약) 입니다.\n")
	b.WriteString("(추천 이유 1), (추천 이유 2) 때문에 사용자님에게 큰 도움이 될 것입니다.\n\n")
	b.WriteString("★작성 규칙★:\n")
	b.WriteString("1. 줄거리가 부족하면 지식을 활용해 채우세요.\n")
	b.WriteString("2. 추천 이유는 사용자의 상황과 연결하세요.\n")
	b.WriteString("3. '입니다/합니다' 체 사용, 200~250자 내외.")
	return b.String()
}

// BuildBookDocument renders the canonical text a book is embedded
// from.
func BuildBookDocument(book catalog.Book) string {
	desc := strings.TrimSpace(strings.ReplaceAll(book.Description(), "\n", " "))
	return fmt.Sprintf("제목: %s\n저자: %s\n분류: %s\n소개: %s", book.Title(), book.Author(), book.CategoryName(), desc)
}
