package recommend

import (
	"strings"

	"github.com/bookdam/bookdam/domain/catalog"
)

// FilterCandidates narrows the candidate pool for a recommendation in
// four stages: exam-prep exclusion, optional genre narrowing, bookmark
// exclusion and weak topic narrowing. Topic narrowing is weak in that
// it is skipped entirely when it would empty the pool.
func FilterCandidates(books []catalog.Book, prompt string, topics []string, bookmarked map[int64]struct{}) []catalog.Book {
	out := make([]catalog.Book, 0, len(books))
	for _, book := range books {
		if isExamPrep(book) {
			continue
		}
		if _, ok := bookmarked[book.ID()]; ok {
			continue
		}
		out = append(out, book)
	}
	if genreNarrowingActive(prompt, topics) {
		out = narrowByGenre(out, comicRequested(prompt))
	}
	if len(topics) > 0 {
		if narrowed := narrowByTopics(out, topics); len(narrowed) > 0 {
			out = narrowed
		}
	}
	return out
}

func isExamPrep(book catalog.Book) bool {
	category := strings.ToLower(book.CategoryName())
	for _, word := range tokens.ExcludeCategories {
		if strings.Contains(category, strings.ToLower(word)) {
			return true
		}
	}
	title := strings.ToLower(book.Title())
	for _, word := range tokens.ExcludeTitles {
		if strings.Contains(title, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

func genreNarrowingActive(prompt string, topics []string) bool {
	lowered := strings.ToLower(prompt)
	for _, trigger := range tokens.GenreTriggers {
		if strings.Contains(lowered, strings.ToLower(trigger)) {
			return true
		}
	}
	for _, topic := range topics {
		for _, trigger := range tokens.GenreTopicTriggers {
			if topic == trigger {
				return true
			}
		}
	}
	return false
}

func comicRequested(prompt string) bool {
	lowered := strings.ToLower(prompt)
	for _, term := range tokens.ComicTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

func narrowByGenre(books []catalog.Book, withComics bool) []catalog.Book {
	allowed := tokens.GenreCategories
	if withComics {
		allowed = append(append([]string{}, allowed...), tokens.ComicCategory)
	}
	out := make([]catalog.Book, 0, len(books))
	for _, book := range books {
		category := book.CategoryName()
		for _, token := range allowed {
			if strings.Contains(category, token) {
				out = append(out, book)
				break
			}
		}
	}
	return out
}

// narrowByTopics keeps books mentioning any topic in their title,
// description, category or publisher. Authors are deliberately not
// matched: topic words rarely are author names, and matching them
// pulled in homonyms.
func narrowByTopics(books []catalog.Book, topics []string) []catalog.Book {
	out := make([]catalog.Book, 0, len(books))
	for _, book := range books {
		text := strings.ToLower(book.Title() + " " + book.Description() + " " + book.CategoryName() + " " + book.Publisher())
		for _, topic := range topics {
			if topic == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(topic)) {
				out = append(out, book)
				break
			}
		}
	}
	return out
}
