// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Validation errors.
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrInvalidAssumptions = errors.New("invalid assumption set")

	// Projection errors.
	ErrInsufficientIncome = errors.New("insufficient income for projection")
	ErrDivergentSeries    = errors.New("payment does not cover interest, debt never amortizes")

	// Advisor errors.
	ErrMalformedResponse   = errors.New("malformed advisor response")
	ErrProviderUnavailable = errors.New("advisor provider unavailable")

	// Council errors.
	ErrAllAdvisorsFailed = errors.New("all advisors failed")

	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
