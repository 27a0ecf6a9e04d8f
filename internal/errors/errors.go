package errors

import "errors"

// Common error types for the bank client
var (
	// Session errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed")

	// Token store errors
	ErrEmptyToken    = errors.New("empty token")
	ErrTokenNotFound = errors.New("token not found")

	// Transport errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransport    = errors.New("transport failure")

	ErrInvalidRequest = errors.New("invalid request")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, nil if all are nil
func Join(errs ...error) error {
	return errors.Join(errs...)
}
