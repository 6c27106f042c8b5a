package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bookdam/bookdam"
	apimiddleware "github.com/bookdam/bookdam/infrastructure/api/middleware"
	v1 "github.com/bookdam/bookdam/infrastructure/api/v1"
)

// APIServer provides the HTTP API backed by a bookdam Client.
type APIServer struct {
	client *bookdam.Client
	server *Server
	router chi.Router
}

// NewAPIServer creates an APIServer wired to the given Client.
func NewAPIServer(client *bookdam.Client) *APIServer {
	return &APIServer{client: client}
}

// Router builds the router with all middleware and routes mounted.
// Useful for tests that drive the API through httptest.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	logger := a.client.Logger()
	router := chi.NewRouter()

	router.Use(chimiddleware.RealIP)
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Logging(logger))
	router.Use(chimiddleware.Recoverer)

	if origins := a.client.Config().CORSOrigins(); len(origins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", apimiddleware.CorrelationIDHeader},
			ExposedHeaders:   []string{apimiddleware.CorrelationIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", a.health)
	a.mountRoutes(router)

	a.router = router
	return a.router
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client
	logger := c.Logger()

	require := apimiddleware.RequireAuth(c.Accounts, logger)
	optional := apimiddleware.OptionalAuth(c.Accounts)

	authRouter := v1.NewAuthRouter(c)
	booksRouter := v1.NewBooksRouter(c)
	commentsRouter := v1.NewCommentsRouter(c)
	recsRouter := v1.NewRecommendationsRouter(c)

	router.Route("/api/v1", func(r chi.Router) {
		// The recommendation pipeline makes several model calls, so
		// the request timeout is generous.
		r.Use(chimiddleware.Timeout(90 * time.Second))

		r.Mount("/auth", authRouter.Routes(require))
		r.Mount("/books", booksRouter.Routes(require, optional))
		r.Mount("/comments", commentsRouter.Routes(require))
		r.Mount("/recommendations", recsRouter.Routes(require))
	})
}

func (a *APIServer) health(w http.ResponseWriter, r *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListenAndServe starts the server on addr and blocks until shutdown.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.client.Logger())
	server.Router().Mount("/", a.Router())
	a.server = &server
	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}
