package catalog

import (
	"time"
)

// Book is a catalog entity. Books are immutable outside catalog ingestion;
// the recommendation pipeline only reads them.
type Book struct {
	id          int64
	title       string
	author      string
	publisher   string
	isbn13      string
	cover       string
	description string
	reviewRank  *float64
	pubDate     *time.Time
	category    Category
	createdAt   time.Time
}

// BookParams holds the fields needed to construct a Book.
type BookParams struct {
	Title       string
	Author      string
	Publisher   string
	ISBN13      string
	Cover       string
	Description string
	ReviewRank  *float64
	PubDate     *time.Time
	Category    Category
}

// NewBook creates a book that has not been persisted yet.
func NewBook(p BookParams) Book {
	return Book{
		title:       p.Title,
		author:      p.Author,
		publisher:   p.Publisher,
		isbn13:      p.ISBN13,
		cover:       p.Cover,
		description: p.Description,
		reviewRank:  p.ReviewRank,
		pubDate:     p.PubDate,
		category:    p.Category,
		createdAt:   time.Now(),
	}
}

// ReconstructBook recreates a book from persistence.
func ReconstructBook(id int64, p BookParams, createdAt time.Time) Book {
	b := NewBook(p)
	b.id = id
	b.createdAt = createdAt
	return b
}

// ID returns the book's database identifier.
func (b Book) ID() int64 { return b.id }

// Title returns the book title.
func (b Book) Title() string { return b.title }

// Author returns the author string as ingested.
func (b Book) Author() string { return b.author }

// Publisher returns the publisher name.
func (b Book) Publisher() string { return b.publisher }

// ISBN13 returns the unique external identifier.
func (b Book) ISBN13() string { return b.isbn13 }

// Cover returns the cover image URL.
func (b Book) Cover() string { return b.cover }

// Description returns the catalog description.
func (b Book) Description() string { return b.description }

// ReviewRank returns the customer review rank, or nil when unrated.
func (b Book) ReviewRank() *float64 { return b.reviewRank }

// ReviewRankOrZero returns the review rank with nil treated as 0,
// the defined comparison default for tie-breaking.
func (b Book) ReviewRankOrZero() float64 {
	if b.reviewRank == nil {
		return 0
	}
	return *b.reviewRank
}

// PubDate returns the publication date, or nil when unknown.
func (b Book) PubDate() *time.Time { return b.pubDate }

// PubOrdinal returns a publication-recency value for sorting: the ordinal day
// number of the publication date, or 0 when the date is absent.
func (b Book) PubOrdinal() int64 {
	if b.pubDate == nil {
		return 0
	}
	return b.pubDate.Unix() / 86400
}

// Category returns the book's category.
func (b Book) Category() Category { return b.category }

// CategoryName returns the category name, or "" when the category is unset.
func (b Book) CategoryName() string { return b.category.name }

// CreatedAt returns the ingestion timestamp.
func (b Book) CreatedAt() time.Time { return b.createdAt }
