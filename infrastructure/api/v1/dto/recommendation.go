package dto

import (
	"time"

	"github.com/bookdam/bookdam/domain/recommend"
)

// RecommendRequest is the body for requesting recommendations.
type RecommendRequest struct {
	Prompt string   `json:"prompt"`
	Mood   string   `json:"mood,omitempty"`
	Themes []string `json:"themes,omitempty"`
	Length string   `json:"length,omitempty"`
}

// ToRequest converts the wire shape to a domain request.
func (r RecommendRequest) ToRequest() recommend.Request {
	return recommend.Request{
		Prompt: r.Prompt,
		Mood:   r.Mood,
		Themes: r.Themes,
		Length: r.Length,
	}
}

// RecommendationItemResponse is one recommended book with its reason.
type RecommendationItemResponse struct {
	Book   BookResponse `json:"book"`
	Reason string       `json:"reason"`
}

// RecommendationResponse is a recommendation on the wire.
type RecommendationResponse struct {
	ID        int64                        `json:"id"`
	CreatedAt time.Time                    `json:"created_at"`
	Items     []RecommendationItemResponse `json:"items"`
}

// RecommendationListResponse is a page of past recommendations.
type RecommendationListResponse struct {
	Recommendations []RecommendationResponse `json:"recommendations"`
	Pagination      Pagination               `json:"pagination"`
}

// FromRecommendation converts a recommendation to its wire shape.
func FromRecommendation(rec recommend.Recommendation) RecommendationResponse {
	items := make([]RecommendationItemResponse, 0, len(rec.Items()))
	for _, item := range rec.Items() {
		items = append(items, RecommendationItemResponse{
			Book:   FromBook(item.Book()),
			Reason: item.Reason(),
		})
	}
	return RecommendationResponse{
		ID:        rec.ID(),
		CreatedAt: rec.CreatedAt(),
		Items:     items,
	}
}

// FromRecommendations converts a recommendation slice to its wire shape.
func FromRecommendations(recs []recommend.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecommendation(rec))
	}
	return out
}
