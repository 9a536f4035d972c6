package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type AccountStore interface {
	Create(ctx context.Context, account Account) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	// FindByEmailOrNationalID matches when the identifier equals either
	// field exactly.
	FindByEmailOrNationalID(ctx context.Context, identifier string) (Account, error)
	// CompareAndSetBalance writes newBalance only while the stored balance
	// still equals expected; otherwise it returns ErrBalanceConflict and
	// the caller must re-read and retry.
	CompareAndSetBalance(ctx context.Context, id string, expected, newBalance decimal.Decimal) error
	// Search returns up to limit accounts whose name or email contains q
	// case-insensitively, or whose national id contains q, excluding
	// excludeID.
	Search(ctx context.Context, q string, excludeID string, limit int) ([]Account, error)
}

// TransferPoster is an optional AccountStore capability: stores that can
// apply the debit and credit as one atomic unit expose it, and the
// transfer engine prefers it over pairwise compare-and-set. The debit is
// guarded by balance sufficiency; on any failure neither account changes.
type TransferPoster interface {
	PostTransfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error
}
