package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bookdam/bookdam/domain/catalog"
)

type testBook struct {
	id         int64
	title      string
	author     string
	publisher  string
	desc       string
	category   string
	reviewRank float64
	pubDate    time.Time
}

func makeBook(tb testBook) catalog.Book {
	params := catalog.BookParams{
		Title:       tb.title,
		Author:      tb.author,
		Publisher:   tb.publisher,
		Description: tb.desc,
		Category:    catalog.ReconstructCategory(tb.id, tb.category),
	}
	if tb.reviewRank != 0 {
		rank := tb.reviewRank
		params.ReviewRank = &rank
	}
	if !tb.pubDate.IsZero() {
		pub := tb.pubDate
		params.PubDate = &pub
	}
	return catalog.ReconstructBook(tb.id, params, time.Now())
}

func titlesOf(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title()
	}
	return out
}

func TestFilterCandidates_ExcludesExamPrep(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "로마사 이야기", category: "역사"}),
		makeBook(testBook{id: 2, title: "정보처리기사 필기", category: "역사"}),
		makeBook(testBook{id: 3, title: "토익 단어장", category: "수험서"}),
	}
	got := FilterCandidates(books, "역사 책", nil, nil)
	assert.Equal(t, []string{"로마사 이야기"}, titlesOf(got))
}

func TestFilterCandidates_ExcludesBookmarked(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "첫 번째 책", category: "소설"}),
		makeBook(testBook{id: 2, title: "두 번째 책", category: "소설"}),
	}
	got := FilterCandidates(books, "소설책", nil, map[int64]struct{}{1: {}})
	assert.Equal(t, []string{"두 번째 책"}, titlesOf(got))
}

func TestFilterCandidates_GenreNarrowing(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "전생했더니", category: "라이트노벨"}),
		makeBook(testBook{id: 2, title: "경제학 입문", category: "경제경영"}),
		makeBook(testBook{id: 3, title: "어느 판타지", category: "판타지/무협"}),
		makeBook(testBook{id: 4, title: "코믹 단행본", category: "만화"}),
	}
	got := FilterCandidates(books, "이세계 라노벨 읽고 싶어", nil, nil)
	assert.Equal(t, []string{"전생했더니", "어느 판타지"}, titlesOf(got))
}

func TestFilterCandidates_GenreNarrowingAdmitsComics(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "코믹 단행본", category: "만화"}),
		makeBook(testBook{id: 2, title: "경제학 입문", category: "경제경영"}),
	}
	got := FilterCandidates(books, "하렘물 만화", nil, nil)
	assert.Equal(t, []string{"코믹 단행본"}, titlesOf(got))
}

func TestFilterCandidates_GenreNarrowingFromTopics(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "어느 소설", category: "국내소설"}),
		makeBook(testBook{id: 2, title: "요리의 기초", category: "요리"}),
	}
	got := FilterCandidates(books, "뭔가 읽을 것", []string{"이세계"}, nil)
	assert.Equal(t, []string{"어느 소설"}, titlesOf(got))
}

func TestFilterCandidates_TopicNarrowing(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "로마사", desc: "고대 로마", category: "역사"}),
		makeBook(testBook{id: 2, title: "파이썬 첫걸음", desc: "프로그래밍", category: "컴퓨터"}),
	}
	got := FilterCandidates(books, "로마사 알려줘", []string{"로마"}, nil)
	assert.Equal(t, []string{"로마사"}, titlesOf(got))
}

func TestFilterCandidates_TopicNarrowingIsWeak(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "로마사", category: "역사"}),
		makeBook(testBook{id: 2, title: "파이썬 첫걸음", category: "컴퓨터"}),
	}
	// No candidate mentions the topic, so narrowing is skipped rather
	// than emptying the pool.
	got := FilterCandidates(books, "양자역학", []string{"양자역학"}, nil)
	assert.Len(t, got, 2)
}

func TestFilterCandidates_TopicDoesNotMatchAuthor(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "수필집", author: "김로마", category: "에세이"}),
		makeBook(testBook{id: 2, title: "수필집 둘", category: "에세이"}),
	}
	got := FilterCandidates(books, "로마", []string{"로마"}, nil)
	assert.Len(t, got, 2, "author-only matches should not narrow the pool")
}

func TestFilterCandidates_ResultIsSubset(t *testing.T) {
	books := []catalog.Book{
		makeBook(testBook{id: 1, title: "하나", category: "역사"}),
		makeBook(testBook{id: 2, title: "둘 기출문제", category: "수험서"}),
		makeBook(testBook{id: 3, title: "셋", category: "과학"}),
	}
	got := FilterCandidates(books, "역사", []string{"역사"}, map[int64]struct{}{3: {}})
	ids := make(map[int64]struct{}, len(books))
	for _, b := range books {
		ids[b.ID()] = struct{}{}
	}
	for _, b := range got {
		assert.Contains(t, ids, b.ID())
	}
}
