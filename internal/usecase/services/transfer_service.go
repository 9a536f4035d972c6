package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/logger"
	"github.com/shopspring/decimal"
)

// Retry budgets for conditional balance writes. The credit and reversal
// budgets are larger than the debit budget: once money has left the
// sender, giving up early is not an option.
const maxDebitAttempts = 5
const maxCreditAttempts = 10
const maxReversalAttempts = 10

const historyLimit = 50

type TransferService struct {
	accounts domain.AccountStore
	log      domain.TransactionLog
}

func NewTransferService(accounts domain.AccountStore, log domain.TransactionLog) *TransferService {
	return &TransferService{accounts: accounts, log: log}
}

type TransferResult struct {
	TransactionID string
	NewBalance    decimal.Decimal
	RecipientName string
}

// Transfer moves amount from the sender to the account matching
// recipientIdentifier (email or national id). Validation is fail-fast and
// side-effect free; the first violation wins. Balance mutation goes
// through the store's atomic posting when available, otherwise through
// bounded compare-and-set retry loops.
func (s *TransferService) Transfer(ctx context.Context, senderID, recipientIdentifier string, amount decimal.Decimal, description string) (TransferResult, error) {
	logger.Info("transfer service request", logger.Fields{
		"senderId":            senderID,
		"recipientIdentifier": recipientIdentifier,
		"amount":              amount,
	})

	recipient, err := s.accounts.FindByEmailOrNationalID(ctx, strings.TrimSpace(recipientIdentifier))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return TransferResult{}, domain.ErrRecipientNotFound
		}
		logger.Error("transfer service recipient lookup failed", err, nil)
		return TransferResult{}, storeUnavailable("resolve recipient", err)
	}

	if recipient.ID == senderID {
		return TransferResult{}, domain.ErrSelfTransfer
	}

	// Every mutation works in whole currency cents.
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return TransferResult{}, domain.ErrInvalidAmount
	}

	sender, err := s.accounts.FindByID(ctx, senderID)
	if err != nil {
		logger.Error("transfer service sender lookup failed", err, logger.Fields{
			"senderId": senderID,
		})
		return TransferResult{}, storeUnavailable("load sender", err)
	}
	if sender.Balance.LessThan(amount) {
		return TransferResult{}, domain.ErrInsufficientFunds
	}

	if poster, ok := s.accounts.(domain.TransferPoster); ok {
		err = s.postAtomic(ctx, poster, sender.ID, recipient.ID, amount)
	} else {
		err = s.postPairwise(ctx, sender.ID, recipient.ID, amount)
	}
	if err != nil {
		return TransferResult{}, err
	}

	transactionID := s.appendRecord(ctx, sender, recipient, amount, description)

	newBalance := sender.Balance.Sub(amount)
	if current, err := s.accounts.FindByID(ctx, senderID); err == nil {
		newBalance = current.Balance
	}

	logger.Info("transfer service success", logger.Fields{
		"transactionId": transactionID,
		"senderId":      sender.ID,
		"recipientId":   recipient.ID,
		"amount":        amount,
	})

	return TransferResult{
		TransactionID: transactionID,
		NewBalance:    newBalance,
		RecipientName: recipient.Name,
	}, nil
}

// History lists the most recent transactions the account participated in,
// as sender or recipient, newest first.
func (s *TransferService) History(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	transactions, err := s.log.ListForAccount(ctx, accountID, historyLimit)
	if err != nil {
		logger.Error("transfer service history failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, storeUnavailable("list transactions", err)
	}

	return transactions, nil
}

func (s *TransferService) postAtomic(ctx context.Context, poster domain.TransferPoster, fromID, toID string, amount decimal.Decimal) error {
	for attempt := 0; attempt < maxDebitAttempts; attempt++ {
		err := poster.PostTransfer(ctx, fromID, toID, amount)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return domain.ErrInsufficientFunds
		}
		if errors.Is(err, domain.ErrBalanceConflict) {
			continue
		}
		logger.Error("transfer service atomic posting failed", err, logger.Fields{
			"fromAccountId": fromID,
			"toAccountId":   toID,
		})
		return storeUnavailable("post transfer", err)
	}

	return domain.ErrTransferConflict
}

// postPairwise is the fallback for stores without multi-key atomicity:
// conditional debit, conditional credit, and a debit reversal if the
// credit cannot land. Money is never left in flight silently.
func (s *TransferService) postPairwise(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	debited := false
	for attempt := 0; attempt < maxDebitAttempts; attempt++ {
		sender, err := s.accounts.FindByID(ctx, fromID)
		if err != nil {
			return storeUnavailable("re-read sender", err)
		}
		if sender.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		err = s.accounts.CompareAndSetBalance(ctx, fromID, sender.Balance, sender.Balance.Sub(amount))
		if err == nil {
			debited = true
			break
		}
		if errors.Is(err, domain.ErrBalanceConflict) {
			continue
		}
		return storeUnavailable("debit sender", err)
	}
	if !debited {
		return domain.ErrTransferConflict
	}

	var creditErr error
	for attempt := 0; attempt < maxCreditAttempts; attempt++ {
		recipient, err := s.accounts.FindByID(ctx, toID)
		if err != nil {
			creditErr = err
			break
		}

		err = s.accounts.CompareAndSetBalance(ctx, toID, recipient.Balance, recipient.Balance.Add(amount))
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrBalanceConflict) {
			creditErr = err
			continue
		}
		creditErr = err
		break
	}

	logger.Error("transfer service credit failed, reversing debit", creditErr, logger.Fields{
		"fromAccountId": fromID,
		"toAccountId":   toID,
		"amount":        amount,
	})

	for attempt := 0; attempt < maxReversalAttempts; attempt++ {
		sender, err := s.accounts.FindByID(ctx, fromID)
		if err != nil {
			continue
		}
		err = s.accounts.CompareAndSetBalance(ctx, fromID, sender.Balance, sender.Balance.Add(amount))
		if err == nil {
			logger.Info("transfer service debit reversed", logger.Fields{
				"fromAccountId": fromID,
				"amount":        amount,
			})
			return domain.ErrTransferConflict
		}
	}

	// The debit landed, the credit did not, and the reversal could not be
	// applied. This must never pass silently.
	logger.Error("transfer service reversal exhausted, funds require manual reconciliation", creditErr, logger.Fields{
		"fromAccountId": fromID,
		"toAccountId":   toID,
		"amount":        amount,
	})
	return storeUnavailable("reverse debit", creditErr)
}

// appendRecord writes the transaction log entry for an applied transfer.
// The balance movement is the authoritative event, so a failed append is
// logged and the transfer still reports success.
func (s *TransferService) appendRecord(ctx context.Context, sender, recipient domain.Account, amount decimal.Decimal, description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		description = domain.DefaultTransferDescription
	}

	transaction := domain.Transaction{
		ID:            uuid.NewString(),
		FromAccountID: sender.ID,
		FromName:      sender.Name,
		ToAccountID:   recipient.ID,
		ToName:        recipient.Name,
		Amount:        amount,
		Description:   description,
		Timestamp:     time.Now().UTC(),
		Kind:          domain.TransactionKindTransfer,
	}

	id, err := s.log.Append(ctx, transaction)
	if err != nil {
		logger.Error("transfer service log append failed", err, logger.Fields{
			"transactionId": transaction.ID,
			"fromAccountId": sender.ID,
			"toAccountId":   recipient.ID,
		})
		return transaction.ID
	}

	return id
}

func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStoreUnavailable)
}
