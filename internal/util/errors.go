// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEntry     = errors.New("duplicate entry") // For cases like creating a user with existing username
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrHoldingNotFound    = errors.New("stock not found")
)

// Registration conflicts. Both match ErrDuplicateEntry.
var (
	ErrUsernameTaken = fmt.Errorf("username already registered: %w", ErrDuplicateEntry)
	ErrEmailTaken    = fmt.Errorf("email already registered: %w", ErrDuplicateEntry)
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
