package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger packages wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrIndex       = errors.New("index out of range")
	ErrPersistence = errors.New("persistence error")
)

var (
	ErrInvalidAmount        = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidAccount       = fmt.Errorf("%w: invalid account", ErrValidation)
	ErrInvalidType          = fmt.Errorf("%w: invalid transaction type", ErrValidation)
	ErrEmptyCategory        = fmt.Errorf("%w: empty custom category", ErrValidation)
	ErrEmptyCardName        = fmt.Errorf("%w: empty credit card name", ErrValidation)
	ErrMissingPaymentSource = fmt.Errorf("%w: payment source account required", ErrValidation)
	ErrNoPendingAllowance   = fmt.Errorf("%w: no pending allowance withdrawal", ErrValidation)
)

// PersistenceError reports a storage provider failure. The in-memory
// document stays authoritative; the caller may retry persisting.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Persistence wraps err in a PersistenceError, or returns nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
