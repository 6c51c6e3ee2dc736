package workout

import (
	"errors"
	"fmt"
)

// Error kinds reported by the service. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireOwner(owner int64) error {
	if owner <= 0 {
		return ErrUnauthenticated
	}
	return nil
}
