package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mikabank/ledger-api/internal/domain"
)

type TransactionLog struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
}

func NewTransactionLog() *TransactionLog {
	return &TransactionLog{}
}

func (l *TransactionLog) Append(_ context.Context, transaction domain.Transaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	l.transactions = append(l.transactions, transaction)

	return transaction.ID, nil
}

func (l *TransactionLog) ListForAccount(_ context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matches := make([]domain.Transaction, 0, limit)
	// Walk from the newest append so equal timestamps keep append order
	// after the descending sort.
	for i := len(l.transactions) - 1; i >= 0; i-- {
		tx := l.transactions[i]
		if tx.FromAccountID == accountID || tx.ToAccountID == accountID {
			matches = append(matches, tx)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}
