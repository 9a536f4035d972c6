package models

import (
	"errors"
	"strings"

	"github.com/mikabank/ledger-api/internal/domain"
)

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}

	email := strings.TrimSpace(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, "email is not valid")
	}

	if !IsValidNationalID(r.NationalID) {
		errs = append(errs, "national_id must contain exactly 11 digits")
	}

	if r.Password == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type LoginRequest struct {
	EmailOrNationalID string `json:"email_or_national_id"`
	Password          string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.EmailOrNationalID) == "" {
		errs = append(errs, "email_or_national_id is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type UserSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	NationalID string  `json:"national_id"`
	Balance    float64 `json:"balance"`
}

func NewUserSummary(account domain.Account) UserSummary {
	return UserSummary{
		ID:         account.ID,
		Name:       account.Name,
		Email:      account.Email,
		NationalID: account.NationalID,
		Balance:    account.Balance.InexactFloat64(),
	}
}

// SearchResult deliberately omits the balance: other users only need
// enough to pick a transfer recipient.
type SearchResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	NationalID string `json:"national_id"`
}

func NewSearchResult(account domain.Account) SearchResult {
	return SearchResult{
		ID:         account.ID,
		Name:       account.Name,
		Email:      account.Email,
		NationalID: account.NationalID,
	}
}

// IsValidNationalID strips every non-digit character and accepts the
// value when exactly 11 digits remain.
func IsValidNationalID(nationalID string) bool {
	digits := 0
	for _, r := range nationalID {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	return digits == 11
}
