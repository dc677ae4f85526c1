package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns for a caller mistake wraps one
// of these, so the boundary can classify it with errors.Is.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrAccessDenied          = errors.New("access denied")
	ErrAuthenticationMissing = errors.New("no authentication present")
	ErrConflict              = errors.New("conflict")
)

func kindError(kind error, message string) error {
	return fmt.Errorf("%w: %s", kind, message)
}
