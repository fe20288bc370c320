package service

import "errors"

// Service-level failure taxonomy. Controllers translate these to HTTP
// statuses; anything not listed here surfaces as a generic 500.
var (
	ErrUnknownService      = errors.New("unknown service code")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrActivationNotFound  = errors.New("activation not found")
	ErrAlreadyTerminal     = errors.New("activation already terminal")
	ErrEarlyCancelDenied   = errors.New("cancellation not allowed yet")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoNumbersAvailable  = errors.New("no numbers available")
	// ErrProviderUnavailable covers network-class provider failures
	// after retries were exhausted: worth retrying later.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderRejected covers application-level provider refusals
	// (bad key, unknown activation): not retryable.
	ErrProviderRejected = errors.New("provider rejected request")
)
