package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/mikabank/ledger-api/internal/adapter/http/middleware"
	"github.com/mikabank/ledger-api/internal/adapter/http/models"
	"github.com/mikabank/ledger-api/internal/domain"
)

type UserFinder interface {
	Search(ctx context.Context, callerID, q string) ([]domain.Account, error)
}

type UserController struct {
	users UserFinder
}

func NewUserController(users UserFinder) *UserController {
	return &UserController{users: users}
}

func (c *UserController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	profile := http.Handler(http.HandlerFunc(c.profile))
	search := http.Handler(http.HandlerFunc(c.search))
	if authMiddleware != nil {
		profile = authMiddleware(profile)
		search = authMiddleware(search)
	}

	mux.Handle("/api/profile", profile)
	mux.Handle("/api/users/search", search)
}

func (c *UserController) profile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, start)
		return
	}

	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		logResponse(r, http.StatusUnauthorized, start)
		return
	}

	writeJSON(w, http.StatusOK, models.NewUserSummary(account))
	logResponse(r, http.StatusOK, start)
}

func (c *UserController) search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, start)
		return
	}

	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		logResponse(r, http.StatusUnauthorized, start)
		return
	}

	matches, err := c.users.Search(r.Context(), account.ID, r.URL.Query().Get("q"))
	if err != nil {
		logError(r, err, nil)
		writeDetail(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		logResponse(r, http.StatusServiceUnavailable, start)
		return
	}

	results := make([]models.SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, models.NewSearchResult(match))
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": results})
	logResponse(r, http.StatusOK, start)
}
