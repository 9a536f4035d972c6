package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AuthService struct {
	accounts  domain.AccountStore
	secretKey []byte
}

func NewAuthService(accounts domain.AccountStore, secretKey string) *AuthService {
	return &AuthService{accounts: accounts, secretKey: []byte(secretKey)}
}

// Login resolves the identifier (email or national id) and checks the
// password. Unknown identifier and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (domain.Account, error) {
	account, err := s.accounts.FindByEmailOrNationalID(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrInvalidCredentials
		}
		logger.Error("auth service login lookup failed", err, nil)
		return domain.Account{}, storeUnavailable("login lookup", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("auth service login password mismatch", logger.Fields{
				"accountId": account.ID,
			})
			return domain.Account{}, domain.ErrInvalidCredentials
		}
		logger.Error("auth service password compare failed", err, nil)
		return domain.Account{}, fmt.Errorf("compare password: %w", err)
	}

	return account, nil
}

func (s *AuthService) GenerateToken(accountID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID,
		"exp": jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses a bearer token and returns the account id it was issued
// for.
func (s *AuthService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrInvalidToken
	}

	accountID, err := claims.GetSubject()
	if err != nil || accountID == "" {
		return "", domain.ErrInvalidToken
	}

	return accountID, nil
}
