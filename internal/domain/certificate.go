package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CertificateRecord is an append-only audit entry written on a successful
// certification. Records are never mutated or deleted.
type CertificateRecord struct {
	ID            string
	OrderID       string
	TenderID      string
	Supplier      string
	Amount        decimal.Decimal
	OperationType string
	IssuerName    string
	IssuerRole    string
	GeneratedAt   time.Time
}

// CertificateFields is the flat field set handed to a certificate renderer
// after a successful certification. The core only supplies these fields; it
// never formats documents.
type CertificateFields struct {
	TenderID       string
	TenderName     string
	OrderID        string
	Supplier       string
	SupplierTaxID  string
	Description    string
	OperationType  string
	TotalBudget    decimal.Decimal
	BalanceBefore  decimal.Decimal
	Amount         decimal.Decimal
	BalanceAfter   decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	GeneratedAt    time.Time
	IssuerName     string
	IssuerRole     string
	TechnicalLead  string
	ApproverName   string
	CostCenter     string
	PenaltyApplied bool
	PenaltyDetails string
	Notes          string
}
