package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Lookup errors
	ErrTenderNotFound = errors.New("tender not found")
	ErrOrderNotFound  = errors.New("order not found")

	// Certification errors
	ErrAlreadyCertified = errors.New("order is already certified")
	ErrNotEligible      = errors.New("order is not in an accepted state")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

// ValidationError reports required fields missing from a record after
// normalization. Callers decide whether to skip the record or abort.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

// InsufficientBalanceError rejects a certification that would overdraw the
// tender budget. It carries the figures needed for user display.
type InsufficientBalanceError struct {
	TenderID      string
	BalanceBefore decimal.Decimal
	Requested     decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance on tender %s: available %s, requested %s",
		e.TenderID, e.BalanceBefore.String(), e.Requested.String(),
	)
}

// PersistenceError wraps an I/O failure from the persistence adapter.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
