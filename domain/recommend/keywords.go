package recommend

import (
	"regexp"
	"strings"
)

// maxKeywords caps how many prompt keywords feed the fallback ranker.
const maxKeywords = 8

var keywordPattern = regexp.MustCompile(`[가-힣A-Za-z0-9]{2,}`)

// ExtractKeywords pulls up to eight content words out of a free-form
// prompt: runs of Korean syllables, Latin letters or digits at least
// two characters long, with stopwords removed and duplicates dropped
// while preserving first-seen order.
func ExtractKeywords(prompt string) []string {
	matches := keywordPattern.FindAllString(strings.ToLower(prompt), -1)
	seen := make(map[string]struct{}, len(matches))
	keywords := make([]string, 0, maxKeywords)
	for _, word := range matches {
		if isStopword(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
