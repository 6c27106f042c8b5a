// Package v1 provides the v1 API routes.
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

// AuthRouter handles account endpoints.
type AuthRouter struct {
	client *bookdam.Client
	logger *slog.Logger
}

// NewAuthRouter creates an AuthRouter.
func NewAuthRouter(client *bookdam.Client) *AuthRouter {
	return &AuthRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for account endpoints. require wraps
// the routes that need an authenticated user.
func (a *AuthRouter) Routes(require func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", a.Register)
	router.Post("/login", a.Login)

	router.Group(func(r chi.Router) {
		r.Use(require)
		r.Get("/me", a.Me)
		r.Patch("/me", a.UpdateMe)
		r.Delete("/me", a.Delete)
		r.Get("/me/comments", a.MyComments)
		r.Get("/me/bookmarks", a.MyBookmarks)
	})

	return router
}

// Register handles POST /api/v1/auth/signup.
func (a *AuthRouter) Register(w http.ResponseWriter, req *http.Request) {
	var body dto.RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), a.logger)
		return
	}

	session, err := a.client.Accounts.Register(req.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		middleware.WriteError(w, req, err, a.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, sessionResponse(session))
}

// Login handles POST /api/v1/auth/login.
func (a *AuthRouter) Login(w http.ResponseWriter, req *http.Request) {
	var body dto.LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), a.logger)
		return
	}

	session, err := a.client.Accounts.Login(req.Context(), body.Username, body.Password)
	if err != nil {
		middleware.WriteError(w, req, err, a.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

// Me handles GET /api/v1/auth/me.
func (a *AuthRouter) Me(w http.ResponseWriter, req *http.Request) {
	userID, _ := middleware.UserID(req.Context())
	user, err := a.client.Accounts.Get(req.Context(), userID)
	if err != nil {
		middleware.WriteError(w, req, err, a.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FromUser(user))
}

// UpdateMe handles PATCH /api/v1/auth/me.
func (a *AuthRouter) UpdateMe(w http.ResponseWriter, req *http.Request) {
	var body dto.UpdateUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), a.logger)
		return
	}
	userID, _ := middleware.UserID(req.Context())

	user, err := a.client.Accounts.UpdateEmail(req.Context(), userID, body.Email)
	if err != nil {
		middleware.WriteError(w, req, err, a.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.FromUser(user))
}

// Delete handles DELETE /api/v1/auth/me. Everything the account owns
// goes with it.
func (a *AuthRouter) Delete(w http.ResponseWriter, req *http.Request) {
	userID, _ := middleware.UserID(req.Context())
	if err := a.client.Accounts.Delete(req.Context(), userID); err != nil {
		middleware.WriteError(w, req, err, a.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyComments handles GET /api/v1/auth/me/comments.
func (a *AuthRouter) MyComments(w http.ResponseWriter, req *http.Request) {
	userID, _ := middleware.UserID(req.Context())
	pagination := ParsePagination(req)

	comments, total, err := a.client.Interactions.CommentsForUser(req.Context(), userID, pagination.PageSize(), pagination.Offset())
	if err != nil {
		middleware.WriteError(w, req, err, a.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.CommentListResponse{
		Comments:   dto.FromComments(comments),
		Pagination: paginationMeta(pagination, total),
	})
}

// MyBookmarks handles GET /api/v1/auth/me/bookmarks.
func (a *AuthRouter) MyBookmarks(w http.ResponseWriter, req *http.Request) {
	userID, _ := middleware.UserID(req.Context())
	pagination := ParsePagination(req)

	bookmarks, total, err := a.client.Interactions.BookmarksForUser(req.Context(), userID, pagination.PageSize(), pagination.Offset())
	if err != nil {
		middleware.WriteError(w, req, err, a.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, dto.BookmarkListResponse{
		Bookmarks:  dto.FromBookmarks(bookmarks),
		Pagination: paginationMeta(pagination, total),
	})
}
