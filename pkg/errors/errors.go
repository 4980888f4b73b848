package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")
)

// Indicator-specific errors

var (
	// ErrInsufficientData indicates a price series is shorter than the
	// minimum window an indicator needs. Non-fatal: the affected indicator
	// is reported as undetermined and the report as a whole still succeeds.
	ErrInsufficientData = errors.New("insufficient price data")
)

// Symbol and provider errors

var (
	// ErrInvalidTicker indicates a malformed ticker symbol
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrInvalidAssetClass indicates an unsupported asset class
	ErrInvalidAssetClass = errors.New("invalid asset class")

	// ErrNoData indicates the upstream provider had no data for the symbol
	ErrNoData = errors.New("no data for symbol")

	// ErrRateLimited indicates upstream throttling (HTTP 429 or provider note)
	ErrRateLimited = errors.New("provider rate limited the request")

	// ErrUpstreamUnavailable indicates a transport or parse failure talking
	// to a data provider
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)

// Subscription-specific errors

var (
	// ErrSubscriptionExpired indicates the subscription is past its expiry
	ErrSubscriptionExpired = errors.New("subscription expired")

	// ErrSubscriptionCancelled indicates an operation on a cancelled subscription
	ErrSubscriptionCancelled = errors.New("subscription cancelled")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
