package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTenderRecomputeBalances(t *testing.T) {
	tender := &Tender{
		TotalBudget: decimal.NewFromInt(1000),
		Committed:   decimal.NewFromInt(300),
		Certified:   decimal.NewFromInt(200),
	}

	tender.RecomputeBalances()

	if !tender.Executed.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected executed 500, got %s", tender.Executed)
	}
	if !tender.Available.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected available 500, got %s", tender.Available)
	}
	if tender.ExecutionPct != 50 {
		t.Errorf("expected execution pct 50, got %f", tender.ExecutionPct)
	}
	if tender.CertificationPct != 40 {
		t.Errorf("expected certification pct 40, got %f", tender.CertificationPct)
	}
}

func TestTenderRecomputeBalancesZeroBudget(t *testing.T) {
	tender := &Tender{
		TotalBudget: decimal.Zero,
		Committed:   decimal.Zero,
		Certified:   decimal.Zero,
	}

	tender.RecomputeBalances()

	if tender.ExecutionPct != 0 || tender.CertificationPct != 0 {
		t.Errorf("expected zero percentages, got %f / %f", tender.ExecutionPct, tender.CertificationPct)
	}
}

func TestTenderDeriveStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name      string
		available int64
		endDate   time.Time
		want      TenderStatus
	}{
		{"active with future end date", 100, future, TenderStatusActive},
		{"active with no end date", 100, time.Time{}, TenderStatusActive},
		{"expired when end date past", 100, past, TenderStatusExpired},
		{"completed when exhausted", 0, future, TenderStatusCompleted},
		{"overdrawn is completed", -50, future, TenderStatusCompleted},
		{"completed wins over expired", 0, past, TenderStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tender := &Tender{
				Available: decimal.NewFromInt(tt.available),
				EndDate:   tt.endDate,
			}
			if got := tender.DeriveStatus(now); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
