package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a single purchase order charged against exactly one tender.
// The certified flag is monotonic: once certified an order never reverts.
type Order struct {
	ID              string
	TenderID        string
	Supplier        string
	SupplierTaxID   string
	Description     string
	SubmittedAt     time.Time
	Amount          decimal.Decimal
	AcceptanceState string
	Certified       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// acceptedStateMarkers is the vocabulary matched against the free-text
// acceptance state. Matching "conforme" also covers accented variants of
// "recepción conforme".
var acceptedStateMarkers = []string{"aceptada", "conforme", "recepcion"}

// Eligible reports whether the order counts toward balance computation and
// may be certified. An absent acceptance state is treated as accepted; the
// ledger builder records that leniency as a warning.
func (o *Order) Eligible() bool {
	state := strings.ToLower(strings.TrimSpace(o.AcceptanceState))
	if state == "" {
		return true
	}

	for _, marker := range acceptedStateMarkers {
		if strings.Contains(state, marker) {
			return true
		}
	}

	return false
}

// ValidateDebit checks that certifying amount against balance would not
// overdraw the tender budget.
func ValidateDebit(balance, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if balance.Sub(amount).IsNegative() {
		return &InsufficientBalanceError{
			BalanceBefore: balance,
			Requested:     amount,
		}
	}

	return nil
}
