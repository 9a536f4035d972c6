package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindTransfer TransactionKind = "transfer"
)

// DefaultTransferDescription is used when a transfer request carries no
// description of its own.
const DefaultTransferDescription = "Transfer"

type Transaction struct {
	ID            string
	FromAccountID string
	FromName      string
	ToAccountID   string
	ToName        string
	Amount        decimal.Decimal
	Description   string
	Timestamp     time.Time
	Kind          TransactionKind
}
