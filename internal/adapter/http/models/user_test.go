package models_test

import (
	"testing"

	"github.com/mikabank/ledger-api/internal/adapter/http/models"
)

func TestIsValidNationalID(t *testing.T) {
	cases := []struct {
		nationalID string
		valid      bool
	}{
		{"52998224725", true},
		{"529.982.247-25", true},
		{"529 982 247 25", true},
		{"", false},
		{"123", false},
		{"529982247251", false},
		{"abcdefghijk", false},
		{"5299822472a", false},
	}

	for _, tc := range cases {
		if got := models.IsValidNationalID(tc.nationalID); got != tc.valid {
			t.Errorf("IsValidNationalID(%q) = %v, want %v", tc.nationalID, got, tc.valid)
		}
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := models.RegisterRequest{
		Name:       "Alice",
		Email:      "alice@example.com",
		NationalID: "52998224725",
		Password:   "secret123",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	missingName := valid
	missingName.Name = " "
	if err := missingName.Validate(); err == nil {
		t.Fatal("expected error for missing name")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := badEmail.Validate(); err == nil {
		t.Fatal("expected error for bad email")
	}

	badNationalID := valid
	badNationalID.NationalID = "123"
	if err := badNationalID.Validate(); err == nil {
		t.Fatal("expected error for bad national id")
	}

	missingPassword := valid
	missingPassword.Password = ""
	if err := missingPassword.Validate(); err == nil {
		t.Fatal("expected error for missing password")
	}
}
