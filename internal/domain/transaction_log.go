package domain

import "context"

type TransactionLog interface {
	// Append records a completed transfer and returns its id. Content
	// never makes Append fail; only infrastructure unavailability does.
	Append(ctx context.Context, transaction Transaction) (string, error)
	// ListForAccount returns transactions where the account is sender or
	// recipient, most recent first, truncated to limit.
	ListForAccount(ctx context.Context, accountID string, limit int) ([]Transaction, error)
}
