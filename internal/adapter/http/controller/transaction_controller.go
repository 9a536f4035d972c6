package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/mikabank/ledger-api/internal/adapter/http/middleware"
	"github.com/mikabank/ledger-api/internal/adapter/http/models"
	"github.com/mikabank/ledger-api/internal/domain"
)

type TransactionLister interface {
	History(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

type TransactionController struct {
	transfers TransactionLister
}

func NewTransactionController(transfers TransactionLister) *TransactionController {
	return &TransactionController{transfers: transfers}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.list))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("/api/transactions", handler)
}

func (c *TransactionController) list(w http.ResponseWriter, r *http.Request) {
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

	transactions, err := c.transfers.History(r.Context(), account.ID)
	if err != nil {
		logError(r, err, nil)
		writeDetail(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		logResponse(r, http.StatusServiceUnavailable, start)
		return
	}

	payload := make([]models.TransactionJSON, 0, len(transactions))
	for _, tx := range transactions {
		payload = append(payload, models.NewTransactionJSON(tx))
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": payload})
	logResponse(r, http.StatusOK, start)
}
