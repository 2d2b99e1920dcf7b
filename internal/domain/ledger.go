package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable movement in a tender's historial: the effect
// of a single eligible order on the running balance. Entries are produced
// only by the ledger builder and never rewritten.
type LedgerEntry struct {
	TenderID        string
	Date            time.Time
	OrderID         string
	Supplier        string
	Description     string
	Amount          decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	CertifiedAtTime bool
	CumulativePct   float64
}

// LedgerResult is the output of a ledger build for one tender: the
// recomputed summary, the ordered movement history, and any non-fatal
// data warnings recorded along the way.
type LedgerResult struct {
	Tender   *Tender
	Entries  []LedgerEntry
	Warnings []string
}
