package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountStore keeps accounts in process memory behind a single mutex.
// It implements the same contracts as the postgres store, including the
// atomic PostTransfer capability, and backs tests and STORAGE=memory
// deployments.
type AccountStore struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	byEmail      map[string]string
	byNationalID map[string]string
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts:     make(map[string]domain.Account),
		byEmail:      make(map[string]string),
		byNationalID: make(map[string]string),
	}
}

func (s *AccountStore) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[account.Email]; exists {
		return domain.Account{}, domain.ErrDuplicateAccount
	}
	if _, exists := s.byNationalID[account.NationalID]; exists {
		return domain.Account{}, domain.ErrDuplicateAccount
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	s.accounts[account.ID] = account
	s.byEmail[account.Email] = account.ID
	s.byNationalID[account.NationalID] = account.ID

	return account, nil
}

func (s *AccountStore) FindByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	return account, nil
}

func (s *AccountStore) FindByEmailOrNationalID(_ context.Context, identifier string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.byEmail[identifier]; ok {
		return s.accounts[id], nil
	}
	if id, ok := s.byNationalID[identifier]; ok {
		return s.accounts[id], nil
	}

	return domain.Account{}, domain.ErrRecordNotFound
}

func (s *AccountStore) CompareAndSetBalance(_ context.Context, id string, expected, newBalance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if !account.Balance.Equal(expected) {
		return domain.ErrBalanceConflict
	}

	account.Balance = newBalance
	s.accounts[id] = account
	return nil
}

// PostTransfer applies the debit and credit inside one critical section,
// so concurrent callers always observe either both mutations or neither.
func (s *AccountStore) PostTransfer(_ context.Context, fromID, toID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[fromID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	to, ok := s.accounts[toID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if from.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	s.accounts[fromID] = from
	s.accounts[toID] = to
	return nil
}

func (s *AccountStore) Search(_ context.Context, q string, excludeID string, limit int) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q)
	matches := make([]domain.Account, 0, limit)
	for _, account := range s.accounts {
		if account.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(account.Name), needle) ||
			strings.Contains(strings.ToLower(account.Email), needle) ||
			strings.Contains(account.NationalID, q) {
			matches = append(matches, account)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}
