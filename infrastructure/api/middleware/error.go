package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookdam/bookdam/application/service"
	"github.com/bookdam/bookdam/domain/recommend"
	"github.com/bookdam/bookdam/internal/database"
)

// APIError is one error in an error response.
type APIError struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ErrorResponse is the wire shape of every error the API returns.
type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}

// WriteError maps an error to an HTTP status and writes the JSON error
// response. Unrecognized errors become 500s with their detail hidden.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	title := "Internal Server Error"
	detail := ""

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized
		title = "Unauthorized"
		detail = err.Error()
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		title = "Forbidden"
		detail = err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
		title = "Not Found"
	case errors.Is(err, service.ErrUsernameTaken):
		status = http.StatusConflict
		title = "Conflict"
		detail = err.Error()
	case errors.Is(err, recommend.ErrEmptyPrompt),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
		title = "Bad Request"
		detail = err.Error()
	}

	correlationID := GetCorrelationID(r.Context())

	if logger != nil {
		logger.Error("request error",
			"correlation_id", correlationID,
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	resp := ErrorResponse{
		Errors: []APIError{
			{
				Status: http.StatusText(status),
				Title:  title,
				Detail: detail,
				ID:     correlationID,
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// ErrBadRequest wraps malformed request bodies and parameters.
var ErrBadRequest = errors.New("bad request")

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
