package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookdam/bookdam"
	"github.com/bookdam/bookdam/infrastructure/api/middleware"
	"github.com/bookdam/bookdam/infrastructure/api/v1/dto"
)

// RecommendationsRouter handles the recommendation pipeline endpoints.
type RecommendationsRouter struct {
	client *bookdam.Client
	logger *slog.Logger
}

// NewRecommendationsRouter creates a RecommendationsRouter.
func NewRecommendationsRouter(client *bookdam.Client) *RecommendationsRouter {
	return &RecommendationsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for recommendation endpoints. All of
// them require an authenticated user.
func (rr *RecommendationsRouter) Routes(require func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(require)

	router.Post("/", rr.Create)
	router.Get("/", rr.History)
	router.Get("/{id}", rr.Get)

	return router
}

// Create handles POST /api/v1/recommendations: it runs the full
// pipeline and persists the result.
func (rr *RecommendationsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.RecommendRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), rr.logger)
		return
	}
	userID, _ := middleware.UserID(req.Context())

	rec, err := rr.client.Recommender.Recommend(req.Context(), userID, body.ToRequest())
	if err != nil {
		middleware.WriteError(w, req, err, rr.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, dto.FromRecommendation(rec))
}

// History handles GET /api/v1/recommendations.
func (rr *RecommendationsRouter) History(w http.ResponseWriter, req *http.Request) {
	userID, _ := middleware.UserID(req.Context())
	pagination := ParsePagination(req)

	recs, total, err := rr.client.Recommender.History(req.Context(), userID, pagination.PageSize(), pagination.Offset())
	if err != nil {
		middleware.WriteError(w, req, err, rr.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.RecommendationListResponse{
		Recommendations: dto.FromRecommendations(recs),
		Pagination:      paginationMeta(pagination, total),
	})
}

// Get handles GET /api/v1/recommendations/{id}.
func (rr *RecommendationsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(req.Context())

	rec, err := rr.client.Recommender.Get(req.Context(), userID, id)
	if err != nil {
		middleware.WriteError(w, req, err, rr.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FromRecommendation(rec))
}
