package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/metrics"
)

// IngestUseCase loads tabular tender and order records into the store.
// Ingestion is row independent: a malformed row is skipped and reported, it
// never aborts the batch. Re-ingesting is an upsert keyed by ID.
type IngestUseCase struct {
	tenderRepo TenderRepository
	orderRepo  OrderRepository
	metrics    *metrics.Metrics
}

// NewIngestUseCase creates a new IngestUseCase.
func NewIngestUseCase(
	tenderRepo TenderRepository,
	orderRepo OrderRepository,
	metrics *metrics.Metrics,
) *IngestUseCase {
	return &IngestUseCase{
		tenderRepo: tenderRepo,
		orderRepo:  orderRepo,
		metrics:    metrics,
	}
}

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	Ingested int      `json:"ingested"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// IngestTenders loads tender records. Required columns after normalization:
// tender id and total budget.
func (uc *IngestUseCase) IngestTenders(ctx context.Context, records []domain.RawRecord) (*IngestReport, error) {
	report := &IngestReport{}
	now := time.Now().UTC()

	for i, raw := range records {
		tender, err := parseTenderRecord(raw, now)
		if err != nil {
			uc.skip(report, "tender", i, err)
			continue
		}

		if err := uc.tenderRepo.Upsert(ctx, tender); err != nil {
			return report, err
		}

		report.Ingested++
		if uc.metrics != nil {
			uc.metrics.RecordsIngested.WithLabelValues("tender").Inc()
		}
	}

	return report, nil
}

// IngestOrders loads purchase order records. Required columns after
// normalization: order id, tender id and amount. The certified column is
// advisory on re-ingestion; a stored certified flag is never cleared by an
// upsert.
func (uc *IngestUseCase) IngestOrders(ctx context.Context, records []domain.RawRecord) (*IngestReport, error) {
	report := &IngestReport{}
	now := time.Now().UTC()

	for i, raw := range records {
		order, err := parseOrderRecord(raw, now)
		if err != nil {
			uc.skip(report, "order", i, err)
			continue
		}

		if err := uc.orderRepo.Upsert(ctx, order); err != nil {
			return report, err
		}

		report.Ingested++
		if uc.metrics != nil {
			uc.metrics.RecordsIngested.WithLabelValues("order").Inc()
		}
	}

	return report, nil
}

func (uc *IngestUseCase) skip(report *IngestReport, kind string, row int, err error) {
	report.Skipped++
	report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", row+1, err))

	if uc.metrics != nil {
		uc.metrics.RecordsSkipped.WithLabelValues(kind).Inc()
	}
}

func parseTenderRecord(raw domain.RawRecord, now time.Time) (*domain.Tender, error) {
	rec := raw.Normalize()

	if err := rec.Require(domain.FieldTenderID, domain.FieldTotalBudget); err != nil {
		return nil, err
	}

	id := rec[domain.FieldTenderID]
	if err := domain.ValidateTenderID(id); err != nil {
		return nil, err
	}

	if err := domain.ValidateTenderName(rec[domain.FieldTenderName]); err != nil {
		return nil, err
	}

	budget, err := domain.ParseAmount(rec[domain.FieldTotalBudget])
	if err != nil {
		return nil, fmt.Errorf("total_budget: %w", err)
	}

	if budget.IsNegative() {
		return nil, fmt.Errorf("total_budget: %w", domain.ErrInvalidAmount)
	}

	startDate, err := domain.ParseDate(rec[domain.FieldStartDate])
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}

	endDate, err := domain.ParseDate(rec[domain.FieldEndDate])
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	return &domain.Tender{
		ID:          id,
		Name:        rec[domain.FieldTenderName],
		StartDate:   startDate,
		EndDate:     endDate,
		TotalBudget: budget,
		Status:      domain.TenderStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func parseOrderRecord(raw domain.RawRecord, now time.Time) (*domain.Order, error) {
	rec := raw.Normalize()

	if err := rec.Require(domain.FieldOrderID, domain.FieldTenderID, domain.FieldAmount); err != nil {
		return nil, err
	}

	orderID := rec[domain.FieldOrderID]
	if err := domain.ValidateOrderID(orderID); err != nil {
		return nil, err
	}

	tenderID := rec[domain.FieldTenderID]
	if err := domain.ValidateTenderID(tenderID); err != nil {
		return nil, err
	}

	amount, err := domain.ParseAmount(rec[domain.FieldAmount])
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	submittedAt, err := domain.ParseDate(rec[domain.FieldSubmittedAt])
	if err != nil {
		return nil, fmt.Errorf("submitted_at: %w", err)
	}

	return &domain.Order{
		ID:              orderID,
		TenderID:        tenderID,
		Supplier:        rec[domain.FieldSupplier],
		SupplierTaxID:   rec[domain.FieldSupplierTaxID],
		Description:     rec[domain.FieldDescription],
		SubmittedAt:     submittedAt,
		Amount:          amount,
		AcceptanceState: rec[domain.FieldAcceptanceState],
		Certified:       domain.ParseCertifiedFlag(rec[domain.FieldCertified]),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
