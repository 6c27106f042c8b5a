package recommend

import (
	"time"

	"github.com/bookdam/bookdam/domain/catalog"
)

// topPicks is how many books a recommendation presents.
const topPicks = 3

// Item is one picked book with the reason it was picked.
type Item struct {
	book   catalog.Book
	reason string
}

// NewItem pairs a picked book with its reason text.
func NewItem(book catalog.Book, reason string) Item {
	return Item{book: book, reason: reason}
}

func (i Item) Book() catalog.Book { return i.book }
func (i Item) Reason() string     { return i.reason }

// Recommendation is one persisted run of the pipeline for a user.
type Recommendation struct {
	id        int64
	userID    int64
	items     []Item
	createdAt time.Time
}

// NewRecommendation builds an unsaved recommendation from the ranked
// picks, keeping at most the top three. Zero picks is a valid, if
// unsatisfying, outcome: the empty run is still recorded.
func NewRecommendation(userID int64, items []Item) Recommendation {
	if len(items) > topPicks {
		items = items[:topPicks]
	}
	return Recommendation{userID: userID, items: items, createdAt: time.Now().UTC()}
}

// ReconstructRecommendation rebuilds a recommendation from storage.
func ReconstructRecommendation(id, userID int64, items []Item, createdAt time.Time) Recommendation {
	return Recommendation{id: id, userID: userID, items: items, createdAt: createdAt}
}

func (r Recommendation) ID() int64            { return r.id }
func (r Recommendation) UserID() int64        { return r.userID }
func (r Recommendation) Items() []Item        { return r.items }
func (r Recommendation) CreatedAt() time.Time { return r.createdAt }
