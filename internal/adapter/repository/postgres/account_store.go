package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountStore struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (
	id,
	name,
	email,
	national_id,
	balance,
	password_hash
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`

	var createdAt time.Time
	if err := s.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.Name,
		account.Email,
		account.NationalID,
		account.Balance,
		account.PasswordHash,
	).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Account{}, domain.ErrDuplicateAccount
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.CreatedAt = createdAt
	return account, nil
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT id, name, email, national_id, balance, password_hash, created_at
FROM accounts
WHERE id = $1`

	var account domain.Account
	if err := scanAccount(s.db.QueryRowContext(ctx, query, id), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return account, nil
}

func (s *AccountStore) FindByEmailOrNationalID(ctx context.Context, identifier string) (domain.Account, error) {
	const query = `
SELECT id, name, email, national_id, balance, password_hash, created_at
FROM accounts
WHERE email = $1 OR national_id = $1`

	var account domain.Account
	if err := scanAccount(s.db.QueryRowContext(ctx, query, identifier), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by identifier: %w", err)
	}

	return account, nil
}

// CompareAndSetBalance is the conditional write behind the transfer
// engine's retry loop: zero affected rows means the stored balance moved
// since the caller read it.
func (s *AccountStore) CompareAndSetBalance(ctx context.Context, id string, expected, newBalance decimal.Decimal) error {
	const query = `
UPDATE accounts
SET balance = $3::numeric
WHERE id = $1
  AND balance = $2::numeric`

	result, err := s.db.ExecContext(ctx, query, id, expected, newBalance)
	if err != nil {
		return fmt.Errorf("compare and set balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("compare and set balance rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrBalanceConflict
	}

	return nil
}

// PostTransfer applies the debit and credit inside one SQL transaction.
// The debit is guarded by balance sufficiency, so the invariant
// balance >= 0 holds under any interleaving.
func (s *AccountStore) PostTransfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (err error) {
	logger.Info("account store post transfer", logger.Fields{
		"fromAccountId": fromID,
		"toAccountId":   toID,
		"amount":        amount,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("account store begin tx failed", err, nil)
		return fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const debitQuery = `
UPDATE accounts
SET balance = balance - $2::numeric
WHERE id = $1
  AND balance >= $2::numeric`
	if err = execRequiredRows(ctx, tx, debitQuery, fromID, amount); err != nil {
		if errors.Is(err, domain.ErrBalanceConflict) {
			err = domain.ErrInsufficientFunds
		}
		return err
	}

	const creditQuery = `
UPDATE accounts
SET balance = balance + $2::numeric
WHERE id = $1`
	if err = execRequiredRows(ctx, tx, creditQuery, toID, amount); err != nil {
		if errors.Is(err, domain.ErrBalanceConflict) {
			err = domain.ErrRecordNotFound
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("account store commit tx failed", err, nil)
		return fmt.Errorf("commit transfer transaction: %w", err)
	}

	return nil
}

func (s *AccountStore) Search(ctx context.Context, q string, excludeID string, limit int) ([]domain.Account, error) {
	const query = `
SELECT id, name, email, national_id, balance, password_hash, created_at
FROM accounts
WHERE id <> $1
  AND (name ILIKE '%' || $2 || '%'
	OR email ILIKE '%' || $2 || '%'
	OR national_id LIKE '%' || $2 || '%')
ORDER BY created_at
LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, excludeID, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, limit)
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}

func scanAccount(row rowScanner, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.NationalID,
		&account.Balance,
		&account.PasswordHash,
		&account.CreatedAt,
	)
}

func execRequiredRows(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("execute balance update: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("balance update rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrBalanceConflict
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
