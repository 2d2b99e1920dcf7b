// Package renderer turns certification field sets into documents. The core
// only hands over flat fields; everything about presentation lives here.
package renderer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mhidalgo/tenderledger/internal/domain"
)

// JSONRenderer renders certificates as JSON documents.
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type certificateDocument struct {
	TenderID       string          `json:"tender_id"`
	TenderName     string          `json:"tender_name"`
	OrderID        string          `json:"order_id"`
	Supplier       string          `json:"supplier"`
	SupplierTaxID  string          `json:"supplier_tax_id,omitempty"`
	Description    string          `json:"description,omitempty"`
	OperationType  string          `json:"operation_type"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	Amount         decimal.Decimal `json:"amount"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	StartDate      string          `json:"start_date,omitempty"`
	EndDate        string          `json:"end_date,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
	IssuerName     string          `json:"issuer_name"`
	IssuerRole     string          `json:"issuer_role"`
	TechnicalLead  string          `json:"technical_lead,omitempty"`
	ApproverName   string          `json:"approver_name,omitempty"`
	CostCenter     string          `json:"cost_center,omitempty"`
	PenaltyApplied bool            `json:"penalty_applied"`
	PenaltyDetails string          `json:"penalty_details,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// Render produces the document and its content type.
func (r *JSONRenderer) Render(_ context.Context, fields domain.CertificateFields) ([]byte, string, error) {
	doc := certificateDocument{
		TenderID:       fields.TenderID,
		TenderName:     fields.TenderName,
		OrderID:        fields.OrderID,
		Supplier:       fields.Supplier,
		SupplierTaxID:  fields.SupplierTaxID,
		Description:    fields.Description,
		OperationType:  fields.OperationType,
		TotalBudget:    fields.TotalBudget,
		BalanceBefore:  fields.BalanceBefore,
		Amount:         fields.Amount,
		BalanceAfter:   fields.BalanceAfter,
		GeneratedAt:    fields.GeneratedAt,
		IssuerName:     fields.IssuerName,
		IssuerRole:     fields.IssuerRole,
		TechnicalLead:  fields.TechnicalLead,
		ApproverName:   fields.ApproverName,
		CostCenter:     fields.CostCenter,
		PenaltyApplied: fields.PenaltyApplied,
		PenaltyDetails: fields.PenaltyDetails,
		Notes:          fields.Notes,
	}

	if !fields.StartDate.IsZero() {
		doc.StartDate = fields.StartDate.Format("2006-01-02")
	}
	if !fields.EndDate.IsZero() {
		doc.EndDate = fields.EndDate.Format("2006-01-02")
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", err
	}

	return payload, "application/json", nil
}
