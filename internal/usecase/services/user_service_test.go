package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mikabank/ledger-api/internal/adapter/http/models"
	"github.com/mikabank/ledger-api/internal/adapter/repository/memory"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func TestUserServiceRegister(t *testing.T) {
	store := memory.NewAccountStore()
	svc := services.NewUserService(store)

	account, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:       "Alice",
		Email:      "alice@example.com",
		NationalID: "529.982.247-25",
		Password:   "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if account.ID == "" {
		t.Fatal("expected an account id")
	}
	if !account.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected opening balance 10, got %s", account.Balance)
	}
	if account.PasswordHash == "secret123" || account.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if account.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}

	found, err := store.FindByEmailOrNationalID(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("lookup by email failed: %v", err)
	}
	if found.ID != account.ID {
		t.Fatalf("lookup returned wrong account %s", found.ID)
	}
}

func TestUserServiceRegisterInvalidNationalID(t *testing.T) {
	svc := services.NewUserService(memory.NewAccountStore())

	for _, nationalID := range []string{"", "123", "1234567890123", "abcdefghijk"} {
		_, err := svc.Register(context.Background(), models.RegisterRequest{
			Name:       "Alice",
			Email:      "alice@example.com",
			NationalID: nationalID,
			Password:   "secret123",
		})
		if err == nil {
			t.Fatalf("national id %q: expected validation error", nationalID)
		}
	}
}

func TestUserServiceRegisterDuplicate(t *testing.T) {
	store := memory.NewAccountStore()
	svc := services.NewUserService(store)

	base := models.RegisterRequest{
		Name:       "Alice",
		Email:      "alice@example.com",
		NationalID: "11111111111",
		Password:   "secret123",
	}
	if _, err := svc.Register(context.Background(), base); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	sameEmail := base
	sameEmail.NationalID = "22222222222"
	if _, err := svc.Register(context.Background(), sameEmail); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("duplicate email: expected ErrDuplicateAccount, got %v", err)
	}

	sameNationalID := base
	sameNationalID.Email = "alice2@example.com"
	if _, err := svc.Register(context.Background(), sameNationalID); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("duplicate national id: expected ErrDuplicateAccount, got %v", err)
	}
}

func TestUserServiceSearch(t *testing.T) {
	store := memory.NewAccountStore()
	svc := services.NewUserService(store)

	caller := seedAccount(t, store, "Caller", "caller@example.com", "00000000000", 10.0)
	for i := 0; i < 7; i++ {
		seedAccount(t, store,
			fmt.Sprintf("Match %d", i),
			fmt.Sprintf("match%d@example.com", i),
			fmt.Sprintf("9990000000%d", i),
			10.0)
	}

	short, err := svc.Search(context.Background(), caller.ID, "ma")
	if err != nil {
		t.Fatalf("short query failed: %v", err)
	}
	if len(short) != 0 {
		t.Fatalf("expected empty result for short query, got %d", len(short))
	}

	// Two characters stay below the minimum even when they take more
	// than two bytes to encode.
	multibyte, err := svc.Search(context.Background(), caller.ID, "ãé")
	if err != nil {
		t.Fatalf("multibyte query failed: %v", err)
	}
	if len(multibyte) != 0 {
		t.Fatalf("expected empty result for two-rune query, got %d", len(multibyte))
	}

	results, err := svc.Search(context.Background(), caller.ID, "match")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected search capped at 5, got %d", len(results))
	}

	self, err := svc.Search(context.Background(), caller.ID, "caller")
	if err != nil {
		t.Fatalf("self search failed: %v", err)
	}
	if len(self) != 0 {
		t.Fatalf("search must exclude the caller, got %d", len(self))
	}
}
