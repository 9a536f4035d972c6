package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mikabank/ledger-api/internal/adapter/http/middleware"
	"github.com/mikabank/ledger-api/internal/adapter/http/models"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type TransferEngine interface {
	Transfer(ctx context.Context, senderID, recipientIdentifier string, amount decimal.Decimal, description string) (services.TransferResult, error)
}

type TransferController struct {
	transfers TransferEngine
}

func NewTransferController(transfers TransferEngine) *TransferController {
	return &TransferController{transfers: transfers}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.transfer))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("/api/transfer", handler)
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
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

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		logResponse(r, http.StatusBadRequest, start)
		return
	}

	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		logResponse(r, http.StatusBadRequest, start)
		return
	}

	result, err := c.transfers.Transfer(
		r.Context(),
		account.ID,
		req.RecipientIdentifier,
		decimal.NewFromFloat(req.Amount),
		req.Description,
	)
	if err != nil {
		status, detail := transferErrorStatus(err)
		logError(r, err, nil)
		writeDetail(w, status, detail)
		logResponse(r, status, start)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Transfer completed successfully",
		"transaction_id": result.TransactionID,
		"new_balance":    result.NewBalance.InexactFloat64(),
		"recipient_name": result.RecipientName,
	})
	logResponse(r, http.StatusOK, start)
}

// transferErrorStatus maps each engine outcome to its HTTP rendering.
// Every error kind the engine can produce is handled here.
func transferErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRecipientNotFound):
		return http.StatusNotFound, "Recipient not found"
	case errors.Is(err, domain.ErrSelfTransfer):
		return http.StatusBadRequest, "Cannot transfer to yourself"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "Amount must be greater than zero"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, "Insufficient balance"
	case errors.Is(err, domain.ErrTransferConflict):
		return http.StatusConflict, "Transfer could not complete due to concurrent activity, please retry"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "unable to process transfer right now"
	}
}
