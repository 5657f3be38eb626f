package services

import (
	"errors"
	"fmt"

	"projectops/internal/repositories"
)

// Error kinds returned by the services. Callers select on them with errors.Is;
// the wrapped message keeps the underlying cause.
var (
	ErrUnauthenticated = errors.New("未登录")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidState    = errors.New("invalid state")
	ErrStoreRead       = errors.New("store read failed")
	ErrStoreWrite      = errors.New("store write failed")
)

func storeRead(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreRead, err)
}

// storeWrite classifies a failed write. Constraint and reference errors are the
// caller's fault and become validation errors; everything else is a store failure.
func storeWrite(err error) error {
	switch {
	case errors.Is(err, repositories.ErrConstraint),
		errors.Is(err, repositories.ErrReferenceMissing),
		errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	case errors.Is(err, repositories.ErrStillReferenced):
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	default:
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
}
