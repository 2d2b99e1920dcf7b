package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenderStatus is the derived lifecycle state of a tender. It is recomputed
// on every ledger build and never treated as authoritative on its own.
type TenderStatus string

const (
	TenderStatusActive    TenderStatus = "Active"
	TenderStatusCompleted TenderStatus = "Completed"
	TenderStatusExpired   TenderStatus = "Expired"
)

// Tender represents a budget allocation (licitación) with a time window
// against which purchase orders are charged.
type Tender struct {
	ID               string
	Name             string
	StartDate        time.Time
	EndDate          time.Time
	TotalBudget      decimal.Decimal
	Committed        decimal.Decimal
	Certified        decimal.Decimal
	Executed         decimal.Decimal
	Available        decimal.Decimal
	ExecutionPct     float64
	CertificationPct float64
	Status           TenderStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecomputeBalances derives the executed/available amounts and percentages
// from the committed and certified totals. Percentages are zero when the
// budget or the executed amount is zero.
func (t *Tender) RecomputeBalances() {
	t.Executed = t.Committed.Add(t.Certified)
	t.Available = t.TotalBudget.Sub(t.Executed)

	t.ExecutionPct = 0
	t.CertificationPct = 0

	if t.TotalBudget.IsPositive() {
		pct, _ := t.Executed.Div(t.TotalBudget).Mul(decimal.NewFromInt(100)).Float64()
		t.ExecutionPct = pct

		if t.Executed.IsPositive() {
			cpct, _ := t.Certified.Div(t.Executed).Mul(decimal.NewFromInt(100)).Float64()
			t.CertificationPct = cpct
		}
	}
}

// DeriveStatus computes the tender status from its balances and end date.
// Completed takes precedence over Expired when both conditions hold.
func (t *Tender) DeriveStatus(now time.Time) TenderStatus {
	if t.Available.LessThanOrEqual(decimal.Zero) {
		return TenderStatusCompleted
	}

	if !t.EndDate.IsZero() && t.EndDate.Before(now) {
		return TenderStatusExpired
	}

	return TenderStatusActive
}
