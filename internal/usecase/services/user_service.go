package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mikabank/ledger-api/internal/adapter/http/models"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const searchLimit = 5
const searchMinQueryLength = 3

// Every new account opens with a small starter balance.
var openingBalance = decimal.NewFromInt(10)

type UserService struct {
	accounts domain.AccountStore
}

func NewUserService(accounts domain.AccountStore) *UserService {
	return &UserService{accounts: accounts}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (domain.Account, error) {
	logger.Info("user service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service register validation failed", err, nil)
		return domain.Account{}, err
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		logger.Error("user service hash password failed", err, nil)
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		NationalID:   strings.TrimSpace(req.NationalID),
		Balance:      openingBalance,
		PasswordHash: passwordHash,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			logger.Info("user service register duplicate", logger.Fields{
				"email": account.Email,
			})
			return domain.Account{}, domain.ErrDuplicateAccount
		}
		logger.Error("user service create account failed", err, nil)
		return domain.Account{}, storeUnavailable("create account", err)
	}

	logger.Info("user service register success", logger.Fields{
		"accountId": created.ID,
	})

	return created, nil
}

// Search finds accounts other users can transfer to. Queries shorter than
// three characters return an empty result rather than an error.
func (s *UserService) Search(ctx context.Context, callerID, q string) ([]domain.Account, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < searchMinQueryLength {
		return []domain.Account{}, nil
	}

	accounts, err := s.accounts.Search(ctx, q, callerID, searchLimit)
	if err != nil {
		logger.Error("user service search failed", err, logger.Fields{
			"q": q,
		})
		return nil, storeUnavailable("search accounts", err)
	}

	return accounts, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}
