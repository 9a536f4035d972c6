package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikabank/ledger-api/internal/adapter/repository/memory"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

func createAccount(t *testing.T, store *memory.AccountStore, name, email, nationalID string, balance int64) domain.Account {
	t.Helper()

	account, err := store.Create(context.Background(), domain.Account{
		Name:       name,
		Email:      email,
		NationalID: nationalID,
		Balance:    decimal.NewFromInt(balance),
	})
	if err != nil {
		t.Fatalf("create account %s: %v", email, err)
	}

	return account
}

func TestAccountStoreCreateDuplicate(t *testing.T) {
	store := memory.NewAccountStore()
	createAccount(t, store, "Alice", "alice@example.com", "11111111111", 10)

	_, err := store.Create(context.Background(), domain.Account{
		Name:       "Other",
		Email:      "alice@example.com",
		NationalID: "22222222222",
	})
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("duplicate email: expected ErrDuplicateAccount, got %v", err)
	}

	_, err = store.Create(context.Background(), domain.Account{
		Name:       "Other",
		Email:      "other@example.com",
		NationalID: "11111111111",
	})
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("duplicate national id: expected ErrDuplicateAccount, got %v", err)
	}
}

func TestAccountStoreFindByEmailOrNationalID(t *testing.T) {
	store := memory.NewAccountStore()
	account := createAccount(t, store, "Alice", "alice@example.com", "11111111111", 10)

	for _, identifier := range []string{"alice@example.com", "11111111111"} {
		found, err := store.FindByEmailOrNationalID(context.Background(), identifier)
		if err != nil {
			t.Fatalf("lookup %q failed: %v", identifier, err)
		}
		if found.ID != account.ID {
			t.Fatalf("lookup %q returned wrong account", identifier)
		}
	}

	if _, err := store.FindByEmailOrNationalID(context.Background(), "alice"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("partial identifier must not match, got %v", err)
	}
}

func TestAccountStoreCompareAndSetBalance(t *testing.T) {
	store := memory.NewAccountStore()
	account := createAccount(t, store, "Alice", "alice@example.com", "11111111111", 10)

	err := store.CompareAndSetBalance(context.Background(), account.ID, decimal.NewFromInt(10), decimal.NewFromInt(7))
	if err != nil {
		t.Fatalf("expected CAS to apply, got %v", err)
	}

	err = store.CompareAndSetBalance(context.Background(), account.ID, decimal.NewFromInt(10), decimal.NewFromInt(4))
	if !errors.Is(err, domain.ErrBalanceConflict) {
		t.Fatalf("stale expected value: want ErrBalanceConflict, got %v", err)
	}

	err = store.CompareAndSetBalance(context.Background(), "missing", decimal.NewFromInt(10), decimal.NewFromInt(4))
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("missing account: want ErrRecordNotFound, got %v", err)
	}

	found, err := store.FindByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !found.Balance.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected balance 7, got %s", found.Balance)
	}
}

func TestAccountStoreConcurrentCompareAndSet(t *testing.T) {
	store := memory.NewAccountStore()
	account := createAccount(t, store, "Alice", "alice@example.com", "11111111111", 100)

	// Each worker retries a conditional decrement of 1 until it lands.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				current, err := store.FindByID(context.Background(), account.ID)
				if err != nil {
					t.Error(err)
					return
				}
				err = store.CompareAndSetBalance(context.Background(), account.ID, current.Balance, current.Balance.Sub(decimal.NewFromInt(1)))
				if err == nil {
					return
				}
				if !errors.Is(err, domain.ErrBalanceConflict) {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	found, err := store.FindByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !found.Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("lost or duplicated updates: expected 50, got %s", found.Balance)
	}
}

func TestAccountStorePostTransfer(t *testing.T) {
	store := memory.NewAccountStore()
	alice := createAccount(t, store, "Alice", "alice@example.com", "11111111111", 10)
	bob := createAccount(t, store, "Bob", "bob@example.com", "22222222222", 0)

	if err := store.PostTransfer(context.Background(), alice.ID, bob.ID, decimal.NewFromInt(4)); err != nil {
		t.Fatalf("post transfer failed: %v", err)
	}

	err := store.PostTransfer(context.Background(), alice.ID, bob.ID, decimal.NewFromInt(100))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	a, _ := store.FindByID(context.Background(), alice.ID)
	b, _ := store.FindByID(context.Background(), bob.ID)
	if !a.Balance.Equal(decimal.NewFromInt(6)) || !b.Balance.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unexpected balances %s / %s", a.Balance, b.Balance)
	}
}

func TestAccountStoreSearch(t *testing.T) {
	store := memory.NewAccountStore()
	alice := createAccount(t, store, "Alice Silva", "alice@example.com", "11111111111", 10)
	createAccount(t, store, "Bob Silva", "bob@example.com", "22222222222", 10)

	results, err := store.Search(context.Background(), "SILVA", alice.ID, 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Bob Silva" {
		t.Fatalf("case-insensitive name search with caller excluded: got %+v", results)
	}

	results, err = store.Search(context.Background(), "2222", alice.ID, 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].NationalID != "22222222222" {
		t.Fatalf("national id substring search: got %+v", results)
	}
}

func TestTransactionLogOrderingAndLimit(t *testing.T) {
	log := memory.NewTransactionLog()
	base := time.Now().UTC()

	for i := 0; i < 4; i++ {
		_, err := log.Append(context.Background(), domain.Transaction{
			FromAccountID: "a",
			ToAccountID:   "b",
			Amount:        decimal.NewFromInt(int64(i + 1)),
			Timestamp:     base.Add(time.Duration(i) * time.Second),
			Kind:          domain.TransactionKindTransfer,
		})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	if _, err := log.Append(context.Background(), domain.Transaction{
		FromAccountID: "c",
		ToAccountID:   "d",
		Amount:        decimal.NewFromInt(99),
		Timestamp:     base.Add(10 * time.Second),
		Kind:          domain.TransactionKindTransfer,
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	transactions, err := log.ListForAccount(context.Background(), "a", 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(transactions))
	}
	for i := 1; i < len(transactions); i++ {
		if transactions[i].Timestamp.After(transactions[i-1].Timestamp) {
			t.Fatal("expected newest-first ordering")
		}
	}
	if !transactions[0].Amount.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("expected newest entry first, got amount %s", transactions[0].Amount)
	}
}
