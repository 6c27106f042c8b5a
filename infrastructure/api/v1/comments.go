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

// CommentsRouter handles comment edit and delete endpoints.
type CommentsRouter struct {
	client *bookdam.Client
	logger *slog.Logger
}

// NewCommentsRouter creates a CommentsRouter.
func NewCommentsRouter(client *bookdam.Client) *CommentsRouter {
	return &CommentsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for comment endpoints. All of them
// require the comment's owner.
func (c *CommentsRouter) Routes(require func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(require)

	router.Put("/{id}", c.Update)
	router.Delete("/{id}", c.Delete)

	return router
}

// Update handles PUT /api/v1/comments/{id}.
func (c *CommentsRouter) Update(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	var body dto.CommentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), c.logger)
		return
	}
	userID, _ := middleware.UserID(req.Context())

	comment, err := c.client.Interactions.UpdateComment(req.Context(), userID, id, body.Content)
	if err != nil {
		middleware.WriteError(w, req, err, c.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FromComment(comment))
}

// Delete handles DELETE /api/v1/comments/{id}.
func (c *CommentsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(req.Context())

	if err := c.client.Interactions.DeleteComment(req.Context(), userID, id); err != nil {
		middleware.WriteError(w, req, err, c.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
