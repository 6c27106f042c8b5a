package v1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookdam/bookdam/application/service"
	"github.com/bookdam/bookdam/infrastructure/api/middleware"
	"github.com/bookdam/bookdam/infrastructure/api/v1/dto"
)

func sessionResponse(s service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		User:      dto.FromUser(s.User),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

func paginationMeta(p PaginationParams, total int64) dto.Pagination {
	return dto.Pagination{Page: p.Page(), PageSize: p.PageSize(), Total: total}
}

// idParam parses the named chi URL parameter as an int64. A malformed
// value reports ok=false after writing the error response.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteError(w, r, middleware.ErrBadRequest, nil)
		return 0, false
	}
	return id, true
}
