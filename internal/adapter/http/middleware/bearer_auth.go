package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mikabank/ledger-api/internal/domain"
	"github.com/mikabank/ledger-api/internal/logger"
)

type contextKey struct{}

var accountContextKey = contextKey{}

// TokenVerifier resolves a bearer token to the account id it was issued
// for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth verifies the Authorization header and loads the caller's
// account into the request context. The account is re-read on every
// request so a token never outlives its account.
func BearerAuth(verifier TokenVerifier, accounts domain.AccountStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, r, "Not authenticated")
				return
			}

			accountID, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, r, "Invalid token")
				return
			}

			account, err := accounts.FindByID(r.Context(), accountID)
			if err != nil {
				unauthorized(w, r, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the authenticated account placed there by
// BearerAuth.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(domain.Account)
	return account, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	logger.Info("bearer auth middleware unauthorized request", logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"detail": detail,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
