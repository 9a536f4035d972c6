package domain

import "errors"

// Store-level outcomes.
var ErrRecordNotFound = errors.New("record not found")
var ErrBalanceConflict = errors.New("balance changed since read")
var ErrDuplicateAccount = errors.New("account already exists with this email or national id")

// Transfer engine taxonomy. Validation failures are side-effect free;
// ErrTransferConflict is transient and safe to resubmit.
var ErrRecipientNotFound = errors.New("recipient not found")
var ErrSelfTransfer = errors.New("cannot transfer to yourself")
var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrInsufficientFunds = errors.New("insufficient balance")
var ErrTransferConflict = errors.New("transfer retry budget exhausted")
var ErrStoreUnavailable = errors.New("account store unavailable")

// Credential failures are reported without distinguishing unknown user
// from wrong password.
var ErrInvalidCredentials = errors.New("invalid email/national id or password")
var ErrInvalidToken = errors.New("invalid token")
