package dto

import (
	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// IngestRequest carries a batch of raw tabular records. Keys are whatever
// column names the source file used; normalization happens downstream.
type IngestRequest struct {
	Records []map[string]string `json:"records"`
}

// ToRawRecords converts the request rows to domain records.
func (r *IngestRequest) ToRawRecords() []domain.RawRecord {
	records := make([]domain.RawRecord, len(r.Records))
	for i, row := range r.Records {
		records[i] = domain.RawRecord(row)
	}
	return records
}

// CertifyRequest represents a certification request.
type CertifyRequest struct {
	OrderID        string `json:"order_id"`
	OperationType  string `json:"operation_type"`
	IssuerName     string `json:"issuer_name"`
	IssuerRole     string `json:"issuer_role"`
	TechnicalLead  string `json:"technical_lead,omitempty"`
	ApproverName   string `json:"approver_name,omitempty"`
	CostCenter     string `json:"cost_center,omitempty"`
	PenaltyApplied bool   `json:"penalty_applied,omitempty"`
	PenaltyDetails string `json:"penalty_details,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ToUseCaseInput converts the request to use case input.
func (r *CertifyRequest) ToUseCaseInput() usecase.CertifyInput {
	return usecase.CertifyInput{
		OrderID:        r.OrderID,
		OperationType:  r.OperationType,
		IssuerName:     r.IssuerName,
		IssuerRole:     r.IssuerRole,
		TechnicalLead:  r.TechnicalLead,
		ApproverName:   r.ApproverName,
		CostCenter:     r.CostCenter,
		PenaltyApplied: r.PenaltyApplied,
		PenaltyDetails: r.PenaltyDetails,
		Notes:          r.Notes,
	}
}

// ResetRequest represents an administrative reset request.
type ResetRequest struct {
	Reason string `json:"reason"`
}
