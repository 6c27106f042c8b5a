package recommend

import (
	"sort"
	"strings"

	"github.com/bookdam/bookdam/domain/catalog"
)

// RankByKeywordScore is the fallback ranker used when similarity
// ranking produced nothing. It counts keyword hits over each book's
// searchable text and returns the shortlist sorted by hit count, with
// review rank and publication date breaking ties. Without keywords the
// quality-sorted head is returned as is.
func RankByKeywordScore(books []catalog.Book, keywords []string) []catalog.Book {
	base := SortByQuality(books)
	if len(base) > keywordBasePool {
		base = base[:keywordBasePool]
	}
	if len(keywords) == 0 {
		if len(base) > finalPool {
			base = base[:finalPool]
		}
		return base
	}

	scores := make([]int, len(base))
	for i, book := range base {
		scores[i] = keywordScore(book, keywords)
	}
	idx := make([]int, len(base))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		if ra, rb := base[a].ReviewRankOrZero(), base[b].ReviewRankOrZero(); ra != rb {
			return ra > rb
		}
		return base[a].PubOrdinal() > base[b].PubOrdinal()
	})

	limit := len(idx)
	if limit > finalPool {
		limit = finalPool
	}
	out := make([]catalog.Book, 0, limit)
	for _, i := range idx[:limit] {
		out = append(out, base[i])
	}
	return out
}

func keywordScore(book catalog.Book, keywords []string) int {
	text := searchableText(book)
	score := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}

// searchableText is the haystack used both for keyword scoring and for
// matching topics against a picked book.
func searchableText(book catalog.Book) string {
	return strings.ToLower(book.Title() + " " + book.Author() + " " + book.Publisher() + " " +
		book.CategoryName() + " " + book.Description())
}

// MatchingTopics returns up to limit topics that actually occur in the
// book's searchable text.
func MatchingTopics(book catalog.Book, topics []string, limit int) []string {
	text := searchableText(book)
	matched := make([]string, 0, limit)
	for _, topic := range topics {
		if topic == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(topic)) {
			matched = append(matched, topic)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched
}
