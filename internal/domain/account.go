package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           string
	Name         string
	Email        string
	NationalID   string
	Balance      decimal.Decimal
	PasswordHash string
	CreatedAt    time.Time
}
