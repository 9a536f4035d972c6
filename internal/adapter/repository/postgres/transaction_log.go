package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/logger"
)

type TransactionLog struct {
	db *sql.DB
}

func NewTransactionLog(db *sql.DB) *TransactionLog {
	return &TransactionLog{db: db}
}

func (l *TransactionLog) Append(ctx context.Context, transaction domain.Transaction) (string, error) {
	logger.Info("transaction log append", logger.Fields{
		"transactionId": transaction.ID,
		"fromAccountId": transaction.FromAccountID,
		"toAccountId":   transaction.ToAccountID,
		"kind":          transaction.Kind,
	})

	const query = `
INSERT INTO transactions (
	id,
	from_account_id,
	from_name,
	to_account_id,
	to_name,
	amount,
	description,
	ts,
	kind
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	var id string
	if err := l.db.QueryRowContext(
		ctx,
		query,
		transaction.ID,
		transaction.FromAccountID,
		transaction.FromName,
		transaction.ToAccountID,
		transaction.ToName,
		transaction.Amount,
		transaction.Description,
		transaction.Timestamp,
		transaction.Kind,
	).Scan(&id); err != nil {
		logger.Error("transaction log append failed", err, logger.Fields{
			"transactionId": transaction.ID,
		})
		return "", fmt.Errorf("append transaction: %w", err)
	}

	return id, nil
}

func (l *TransactionLog) ListForAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	const query = `
SELECT id, from_account_id, from_name, to_account_id, to_name, amount, description, ts, kind
FROM transactions
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY ts DESC
LIMIT $2`

	rows, err := l.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.FromAccountID,
			&tx.FromName,
			&tx.ToAccountID,
			&tx.ToName,
			&tx.Amount,
			&tx.Description,
			&tx.Timestamp,
			&tx.Kind,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return transactions, nil
}
