package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mikabank/ledger-api/internal/adapter/http/models"
	"github.com/mikabank/ledger-api/internal/domain"
)

type UserRegistrar interface {
	Register(ctx context.Context, req models.RegisterRequest) (domain.Account, error)
}

type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (domain.Account, error)
	GenerateToken(accountID string) (string, error)
}

type AuthController struct {
	users UserRegistrar
	auth  Authenticator
}

func NewAuthController(users UserRegistrar, auth Authenticator) *AuthController {
	return &AuthController{users: users, auth: auth}
}

func (c *AuthController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.Handle("/api/register", http.HandlerFunc(c.register))
	mux.Handle("/api/login", http.HandlerFunc(c.login))
}

func (c *AuthController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, start)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		logResponse(r, http.StatusBadRequest, start)
		return
	}

	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		logResponse(r, http.StatusBadRequest, start)
		return
	}

	account, err := c.users.Register(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		detail := "unable to register right now"
		switch {
		case errors.Is(err, domain.ErrDuplicateAccount):
			status = http.StatusBadRequest
			detail = "User already exists with this email or national ID"
		case errors.Is(err, domain.ErrStoreUnavailable):
			status = http.StatusServiceUnavailable
			detail = "service temporarily unavailable"
		}
		logError(r, err, nil)
		writeDetail(w, status, detail)
		logResponse(r, status, start)
		return
	}

	token, err := c.auth.GenerateToken(account.ID)
	if err != nil {
		logError(r, err, nil)
		writeDetail(w, http.StatusInternalServerError, "unable to register right now")
		logResponse(r, http.StatusInternalServerError, start)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "User created successfully",
		"access_token": token,
		"user":         models.NewUserSummary(account),
	})
	logResponse(r, http.StatusOK, start)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, start)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		logResponse(r, http.StatusBadRequest, start)
		return
	}

	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		logResponse(r, http.StatusBadRequest, start)
		return
	}

	account, err := c.auth.Login(r.Context(), req.EmailOrNationalID, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		detail := "unable to login right now"
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			detail = "Incorrect email/national ID or password"
		case errors.Is(err, domain.ErrStoreUnavailable):
			status = http.StatusServiceUnavailable
			detail = "service temporarily unavailable"
		}
		logError(r, err, nil)
		writeDetail(w, status, detail)
		logResponse(r, status, start)
		return
	}

	token, err := c.auth.GenerateToken(account.ID)
	if err != nil {
		logError(r, err, nil)
		writeDetail(w, http.StatusInternalServerError, "unable to login right now")
		logResponse(r, http.StatusInternalServerError, start)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"access_token": token,
		"user":         models.NewUserSummary(account),
	})
	logResponse(r, http.StatusOK, start)
}
