package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/metrics"
)

// CertificationUseCase handles the certification transition. The balance an
// order is checked against is the tender budget minus the sum of previously
// logged certificates; committed-but-uncertified orders do not reduce it.
type CertificationUseCase struct {
	tenderRepo TenderRepository
	orderRepo  OrderRepository
	certRepo   CertificateRepository
	renderer   CertificateRenderer
	idGen      IDGenerator
	cache      Cache
	locks      *LockArena
	metrics    *metrics.Metrics
}

// NewCertificationUseCase creates a new CertificationUseCase.
func NewCertificationUseCase(
	tenderRepo TenderRepository,
	orderRepo OrderRepository,
	certRepo CertificateRepository,
	renderer CertificateRenderer,
	idGen IDGenerator,
	cache Cache,
	locks *LockArena,
	metrics *metrics.Metrics,
) *CertificationUseCase {
	return &CertificationUseCase{
		tenderRepo: tenderRepo,
		orderRepo:  orderRepo,
		certRepo:   certRepo,
		renderer:   renderer,
		idGen:      idGen,
		cache:      cache,
		locks:      locks,
		metrics:    metrics,
	}
}

// CertifyInput represents input for certifying an order.
type CertifyInput struct {
	OrderID        string
	OperationType  string
	IssuerName     string
	IssuerRole     string
	TechnicalLead  string
	ApproverName   string
	CostCenter     string
	PenaltyApplied bool
	PenaltyDetails string
	Notes          string
}

// CertifyResult carries the audit record, the rendered document, and the
// balance movement of a successful certification.
type CertifyResult struct {
	Record        *domain.CertificateRecord
	Document      []byte
	ContentType   string
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// Certify flips an order to certified and appends a certificate record.
// The two writes are ordered, not atomic: a crash between them leaves the
// flag set without a log entry, which reconciliation reports.
func (uc *CertificationUseCase) Certify(ctx context.Context, input CertifyInput) (*CertifyResult, error) {
	start := time.Now()

	// 0. Validate input before taking any lock
	if err := uc.validateInput(input); err != nil {
		uc.reject("validation")
		return nil, err
	}

	// 1. Resolve the order to learn which tender to lock
	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		uc.reject("order_not_found")
		return nil, err
	}

	release := uc.locks.lockTender(order.TenderID)
	defer release()

	// 2. Re-read under the lock; a concurrent certification may have won
	order, err = uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		uc.reject("order_not_found")
		return nil, err
	}

	if order.Certified {
		uc.reject("already_certified")
		return nil, domain.ErrAlreadyCertified
	}

	if !order.Eligible() {
		uc.reject("not_eligible")
		return nil, domain.ErrNotEligible
	}

	tender, err := uc.tenderRepo.GetByID(ctx, order.TenderID)
	if err != nil {
		uc.reject("tender_not_found")
		return nil, err
	}

	// 3. Balance check against previously logged certificates only
	balanceBefore, err := uc.certifiedBalance(ctx, tender)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateDebit(balanceBefore, order.Amount); err != nil {
		var ibe *domain.InsufficientBalanceError
		if errors.As(err, &ibe) {
			ibe.TenderID = tender.ID
			uc.reject("insufficient_balance")
		} else {
			uc.reject("invalid_amount")
		}

		return nil, err
	}

	balanceAfter := balanceBefore.Sub(order.Amount)
	now := time.Now().UTC()

	// 4. Flip the flag first, then append the audit record
	if err := uc.orderRepo.MarkCertified(ctx, input.OrderID, now); err != nil {
		return nil, err
	}

	record := &domain.CertificateRecord{
		ID:            uc.idGen.Generate(),
		OrderID:       order.ID,
		TenderID:      tender.ID,
		Supplier:      order.Supplier,
		Amount:        order.Amount,
		OperationType: input.OperationType,
		IssuerName:    input.IssuerName,
		IssuerRole:    input.IssuerRole,
		GeneratedAt:   now,
	}

	if err := uc.certRepo.Append(ctx, record); err != nil {
		// The order is certified but unlogged; reconciliation surfaces it
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, summaryCacheKey(tender.ID))
	}

	if uc.metrics != nil {
		uc.metrics.CertificationsIssued.Inc()
		uc.metrics.CertificationDuration.Observe(time.Since(start).Seconds())
		amount, _ := order.Amount.Float64()
		uc.metrics.CertifiedAmount.Observe(amount)
	}

	result := &CertifyResult{
		Record:        record,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}

	// 5. Rendering is best effort; the certification already happened
	if uc.renderer != nil {
		fields := domain.CertificateFields{
			TenderID:       tender.ID,
			TenderName:     tender.Name,
			OrderID:        order.ID,
			Supplier:       order.Supplier,
			SupplierTaxID:  order.SupplierTaxID,
			Description:    order.Description,
			OperationType:  input.OperationType,
			TotalBudget:    tender.TotalBudget,
			BalanceBefore:  balanceBefore,
			Amount:         order.Amount,
			BalanceAfter:   balanceAfter,
			StartDate:      tender.StartDate,
			EndDate:        tender.EndDate,
			GeneratedAt:    now,
			IssuerName:     input.IssuerName,
			IssuerRole:     input.IssuerRole,
			TechnicalLead:  input.TechnicalLead,
			ApproverName:   input.ApproverName,
			CostCenter:     input.CostCenter,
			PenaltyApplied: input.PenaltyApplied,
			PenaltyDetails: input.PenaltyDetails,
			Notes:          input.Notes,
		}

		doc, contentType, err := uc.renderer.Render(ctx, fields)
		if err == nil {
			result.Document = doc
			result.ContentType = contentType
		}
	}

	return result, nil
}

// ListByTender returns the certificate log for one tender.
func (uc *CertificationUseCase) ListByTender(ctx context.Context, tenderID string) ([]*domain.CertificateRecord, error) {
	if err := domain.ValidateTenderID(tenderID); err != nil {
		return nil, err
	}

	return uc.certRepo.ListByTender(ctx, tenderID)
}

// List returns the full certificate log.
func (uc *CertificationUseCase) List(ctx context.Context) ([]*domain.CertificateRecord, error) {
	return uc.certRepo.List(ctx)
}

func (uc *CertificationUseCase) validateInput(input CertifyInput) error {
	if err := domain.ValidateOrderID(input.OrderID); err != nil {
		return err
	}

	var missing []string
	if input.OperationType == "" {
		missing = append(missing, "operation_type")
	}

	if input.IssuerName == "" {
		missing = append(missing, "issuer_name")
	}

	if input.IssuerRole == "" {
		missing = append(missing, "issuer_role")
	}

	if len(missing) > 0 {
		return &domain.ValidationError{MissingFields: missing}
	}

	return nil
}

func (uc *CertificationUseCase) certifiedBalance(ctx context.Context, tender *domain.Tender) (decimal.Decimal, error) {
	certificates, err := uc.certRepo.ListByTender(ctx, tender.ID)
	if err != nil {
		return decimal.Zero, err
	}

	prior := decimal.Zero
	for _, cert := range certificates {
		prior = prior.Add(cert.Amount)
	}

	return tender.TotalBudget.Sub(prior), nil
}

func (uc *CertificationUseCase) reject(reason string) {
	if uc.metrics != nil {
		uc.metrics.CertificationsRejected.WithLabelValues(reason).Inc()
	}
}
