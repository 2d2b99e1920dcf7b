package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// ErrorResponse represents an error in API responses. The optional fields
// carry structured details for validation and balance failures.
type ErrorResponse struct {
	Error         string           `json:"error"`
	Message       string           `json:"message,omitempty"`
	MissingFields []string         `json:"missing_fields,omitempty"`
	TenderID      string           `json:"tender_id,omitempty"`
	BalanceBefore *decimal.Decimal `json:"balance_before,omitempty"`
	Requested     *decimal.Decimal `json:"requested,omitempty"`
}

// TenderResponse represents a tender summary in API responses.
type TenderResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	StartDate        string          `json:"start_date,omitempty"`
	EndDate          string          `json:"end_date,omitempty"`
	TotalBudget      decimal.Decimal `json:"total_budget"`
	Committed        decimal.Decimal `json:"committed"`
	Certified        decimal.Decimal `json:"certified"`
	Executed         decimal.Decimal `json:"executed"`
	Available        decimal.Decimal `json:"available"`
	ExecutionPct     float64         `json:"execution_pct"`
	CertificationPct float64         `json:"certification_pct"`
	Status           string          `json:"status"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TenderFromDomain converts a domain tender to a response.
func TenderFromDomain(t *domain.Tender) *TenderResponse {
	resp := &TenderResponse{
		ID:               t.ID,
		Name:             t.Name,
		TotalBudget:      t.TotalBudget,
		Committed:        t.Committed,
		Certified:        t.Certified,
		Executed:         t.Executed,
		Available:        t.Available,
		ExecutionPct:     t.ExecutionPct,
		CertificationPct: t.CertificationPct,
		Status:           string(t.Status),
		UpdatedAt:        t.UpdatedAt,
	}

	if !t.StartDate.IsZero() {
		resp.StartDate = t.StartDate.Format("2006-01-02")
	}
	if !t.EndDate.IsZero() {
		resp.EndDate = t.EndDate.Format("2006-01-02")
	}

	return resp
}

// TendersFromDomain converts domain tenders to responses.
func TendersFromDomain(tenders []*domain.Tender) []*TenderResponse {
	result := make([]*TenderResponse, len(tenders))
	for i, t := range tenders {
		result[i] = TenderFromDomain(t)
	}
	return result
}

// LedgerEntryResponse represents one ledger movement in API responses.
type LedgerEntryResponse struct {
	Date            string          `json:"date,omitempty"`
	OrderID         string          `json:"order_id"`
	Supplier        string          `json:"supplier,omitempty"`
	Description     string          `json:"description,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	CertifiedAtTime bool            `json:"certified"`
	CumulativePct   float64         `json:"cumulative_pct"`
}

// LedgerResponse represents a full ledger build in API responses.
type LedgerResponse struct {
	Tender   *TenderResponse        `json:"tender"`
	Entries  []*LedgerEntryResponse `json:"entries"`
	Warnings []string               `json:"warnings,omitempty"`
}

// LedgerFromDomain converts a ledger build result to a response.
func LedgerFromDomain(result *domain.LedgerResult) *LedgerResponse {
	entries := make([]*LedgerEntryResponse, len(result.Entries))
	for i, e := range result.Entries {
		entry := &LedgerEntryResponse{
			OrderID:         e.OrderID,
			Supplier:        e.Supplier,
			Description:     e.Description,
			Amount:          e.Amount,
			BalanceBefore:   e.BalanceBefore,
			BalanceAfter:    e.BalanceAfter,
			CertifiedAtTime: e.CertifiedAtTime,
			CumulativePct:   e.CumulativePct,
		}

		if !e.Date.IsZero() {
			entry.Date = e.Date.Format("2006-01-02")
		}

		entries[i] = entry
	}

	return &LedgerResponse{
		Tender:   TenderFromDomain(result.Tender),
		Entries:  entries,
		Warnings: result.Warnings,
	}
}

// CertificateResponse represents a certificate record in API responses.
type CertificateResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	TenderID      string          `json:"tender_id"`
	Supplier      string          `json:"supplier,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	OperationType string          `json:"operation_type"`
	IssuerName    string          `json:"issuer_name"`
	IssuerRole    string          `json:"issuer_role"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// CertificateFromDomain converts a domain certificate record to a response.
func CertificateFromDomain(r *domain.CertificateRecord) *CertificateResponse {
	return &CertificateResponse{
		ID:            r.ID,
		OrderID:       r.OrderID,
		TenderID:      r.TenderID,
		Supplier:      r.Supplier,
		Amount:        r.Amount,
		OperationType: r.OperationType,
		IssuerName:    r.IssuerName,
		IssuerRole:    r.IssuerRole,
		GeneratedAt:   r.GeneratedAt,
	}
}

// CertificatesFromDomain converts domain certificate records to responses.
func CertificatesFromDomain(records []*domain.CertificateRecord) []*CertificateResponse {
	result := make([]*CertificateResponse, len(records))
	for i, r := range records {
		result[i] = CertificateFromDomain(r)
	}
	return result
}

// CertifyResponse represents a successful certification.
type CertifyResponse struct {
	Certificate   *CertificateResponse `json:"certificate"`
	BalanceBefore decimal.Decimal      `json:"balance_before"`
	BalanceAfter  decimal.Decimal      `json:"balance_after"`
	Document      json.RawMessage      `json:"document,omitempty"`
}

// CertifyFromResult converts a use case certify result to a response.
func CertifyFromResult(result *usecase.CertifyResult) *CertifyResponse {
	resp := &CertifyResponse{
		Certificate:   CertificateFromDomain(result.Record),
		BalanceBefore: result.BalanceBefore,
		BalanceAfter:  result.BalanceAfter,
	}

	if result.ContentType == "application/json" {
		resp.Document = json.RawMessage(result.Document)
	}

	return resp
}

// BackupResponse summarizes a stored snapshot without dumping its contents.
type BackupResponse struct {
	ID               string    `json:"id"`
	Reason           string    `json:"reason,omitempty"`
	OrderCount       int       `json:"order_count"`
	CertificateCount int       `json:"certificate_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// BackupFromDomain converts a domain snapshot to a response.
func BackupFromDomain(s *domain.BackupSnapshot) *BackupResponse {
	return &BackupResponse{
		ID:               s.ID,
		Reason:           s.Reason,
		OrderCount:       len(s.Orders),
		CertificateCount: len(s.Certificates),
		CreatedAt:        s.CreatedAt,
	}
}

// BackupsFromDomain converts domain snapshots to responses.
func BackupsFromDomain(snapshots []*domain.BackupSnapshot) []*BackupResponse {
	result := make([]*BackupResponse, len(snapshots))
	for i, s := range snapshots {
		result[i] = BackupFromDomain(s)
	}
	return result
}
