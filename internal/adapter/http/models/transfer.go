package models

import (
	"errors"
	"strings"
	"time"

	"github.com/mikabank/ledger-api/internal/domain"
)

type TransferRequest struct {
	RecipientIdentifier string  `json:"recipient_identifier"`
	Amount              float64 `json:"amount"`
	Description         string  `json:"description"`
}

// Validate covers request shape only. Amount and recipient checks belong
// to the transfer engine, which reports them in a fixed order.
func (r TransferRequest) Validate() error {
	if strings.TrimSpace(r.RecipientIdentifier) == "" {
		return errors.New("recipient_identifier is required")
	}

	return nil
}

type TransactionJSON struct {
	ID          string  `json:"id"`
	FromUserID  string  `json:"from_user_id"`
	FromName    string  `json:"from_user_name"`
	ToUserID    string  `json:"to_user_id"`
	ToName      string  `json:"to_user_name"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Timestamp   string  `json:"timestamp"`
	Kind        string  `json:"type"`
}

func NewTransactionJSON(tx domain.Transaction) TransactionJSON {
	return TransactionJSON{
		ID:          tx.ID,
		FromUserID:  tx.FromAccountID,
		FromName:    tx.FromName,
		ToUserID:    tx.ToAccountID,
		ToName:      tx.ToName,
		Amount:      tx.Amount.InexactFloat64(),
		Description: tx.Description,
		Timestamp:   tx.Timestamp.Format(time.RFC3339),
		Kind:        string(tx.Kind),
	}
}
