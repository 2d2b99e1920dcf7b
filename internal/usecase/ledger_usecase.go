package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/metrics"
)

// LedgerUseCase rebuilds tender balances and movement histories from the
// order store. A build is a pure recomputation; it never mutates orders or
// certificates, only the derived tender summary.
type LedgerUseCase struct {
	tenderRepo TenderRepository
	orderRepo  OrderRepository
	certRepo   CertificateRepository
	cache      Cache
	metrics    *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	tenderRepo TenderRepository,
	orderRepo OrderRepository,
	certRepo CertificateRepository,
	cache Cache,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		tenderRepo: tenderRepo,
		orderRepo:  orderRepo,
		certRepo:   certRepo,
		cache:      cache,
		metrics:    metrics,
	}
}

func summaryCacheKey(tenderID string) string {
	return "tender:summary:" + tenderID
}

// BuildTender recomputes one tender's ledger: the ordered movement history,
// the committed/certified split, and the derived status. The recomputed
// summary is persisted and cached.
func (uc *LedgerUseCase) BuildTender(ctx context.Context, tenderID string) (*domain.LedgerResult, error) {
	start := time.Now()

	if err := domain.ValidateTenderID(tenderID); err != nil {
		return nil, err
	}

	tender, err := uc.tenderRepo.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	result := buildLedger(tender, orders, time.Now().UTC())

	if err := uc.tenderRepo.UpdateSummary(ctx, result.Tender); err != nil {
		return nil, err
	}

	uc.cacheSummary(ctx, result.Tender)

	if uc.metrics != nil {
		uc.metrics.LedgerBuilds.Inc()
		uc.metrics.LedgerBuildDuration.Observe(time.Since(start).Seconds())
		uc.metrics.LedgerWarnings.Add(float64(len(result.Warnings)))
	}

	return result, nil
}

// BuildAll recomputes every tender's ledger. Tenders are processed
// independently; a failure on one aborts the run.
func (uc *LedgerUseCase) BuildAll(ctx context.Context) ([]*domain.LedgerResult, error) {
	tenders, err := uc.tenderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.LedgerResult, 0, len(tenders))
	for _, tender := range tenders {
		result, err := uc.BuildTender(ctx, tender.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to build ledger for tender %s: %w", tender.ID, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// GetTender returns a tender with a freshly recomputed summary.
func (uc *LedgerUseCase) GetTender(ctx context.Context, tenderID string) (*domain.Tender, error) {
	result, err := uc.BuildTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	return result.Tender, nil
}

// ListTenders returns all tenders with their last persisted summaries.
// Summaries may lag in-flight certifications until the next build.
func (uc *LedgerUseCase) ListTenders(ctx context.Context) ([]*domain.Tender, error) {
	return uc.tenderRepo.List(ctx)
}

// GlobalStats aggregates balances across every tender.
type GlobalStats struct {
	TotalTenders     int             `json:"total_tenders"`
	ActiveTenders    int             `json:"active_tenders"`
	CompletedTenders int             `json:"completed_tenders"`
	ExpiredTenders   int             `json:"expired_tenders"`
	TotalBudget      decimal.Decimal `json:"total_budget"`
	TotalCommitted   decimal.Decimal `json:"total_committed"`
	TotalCertified   decimal.Decimal `json:"total_certified"`
	TotalAvailable   decimal.Decimal `json:"total_available"`
	OrderCount       int             `json:"order_count"`
	CertifiedOrders  int             `json:"certified_orders"`
	CertificateCount int             `json:"certificate_count"`
	Warnings         []string        `json:"warnings,omitempty"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// Stats rebuilds every tender and aggregates the recomputed balances.
// A tender that fails to build is recorded as a warning and counted with
// zero balances; the report itself never aborts.
func (uc *LedgerUseCase) Stats(ctx context.Context) (*GlobalStats, error) {
	tenders, err := uc.tenderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &GlobalStats{
		TotalTenders:   len(tenders),
		TotalBudget:    decimal.Zero,
		TotalCommitted: decimal.Zero,
		TotalCertified: decimal.Zero,
		TotalAvailable: decimal.Zero,
		GeneratedAt:    time.Now().UTC(),
	}

	for _, tender := range tenders {
		result, err := uc.BuildTender(ctx, tender.ID)
		if err != nil {
			stats.Warnings = append(stats.Warnings, fmt.Sprintf(
				"tender %s skipped: %v", tender.ID, err,
			))
			continue
		}

		t := result.Tender
		stats.TotalBudget = stats.TotalBudget.Add(t.TotalBudget)
		stats.TotalCommitted = stats.TotalCommitted.Add(t.Committed)
		stats.TotalCertified = stats.TotalCertified.Add(t.Certified)
		stats.TotalAvailable = stats.TotalAvailable.Add(t.Available)

		switch t.Status {
		case domain.TenderStatusActive:
			stats.ActiveTenders++
		case domain.TenderStatusCompleted:
			stats.CompletedTenders++
		case domain.TenderStatusExpired:
			stats.ExpiredTenders++
		}
	}

	if orders, err := uc.orderRepo.List(ctx); err == nil {
		stats.OrderCount = len(orders)
		for _, order := range orders {
			if order.Certified {
				stats.CertifiedOrders++
			}
		}
	} else {
		stats.Warnings = append(stats.Warnings, fmt.Sprintf("order count unavailable: %v", err))
	}

	if certificates, err := uc.certRepo.List(ctx); err == nil {
		stats.CertificateCount = len(certificates)
	} else {
		stats.Warnings = append(stats.Warnings, fmt.Sprintf("certificate count unavailable: %v", err))
	}

	return stats, nil
}

func (uc *LedgerUseCase) cacheSummary(ctx context.Context, tender *domain.Tender) {
	if uc.cache == nil {
		return
	}

	// Cache failures never fail a build
	payload, err := json.Marshal(tender)
	if err != nil {
		return
	}

	_ = uc.cache.Set(ctx, summaryCacheKey(tender.ID), string(payload), SummaryCacheTTL)
}

// buildLedger is the pure core of a build. Orders are walked in submission
// order (orders without a date go last, ties keep store order) and each
// eligible order consumes budget in turn.
func buildLedger(tender *domain.Tender, orders []*domain.Order, now time.Time) *domain.LedgerResult {
	sorted := make([]*domain.Order, len(orders))
	copy(sorted, orders)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].SubmittedAt, sorted[j].SubmittedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}

		return a.Before(b)
	})

	result := &domain.LedgerResult{Tender: tender}

	balance := tender.TotalBudget
	committed := decimal.Zero
	certified := decimal.Zero

	for _, order := range sorted {
		if !order.Eligible() {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"order %s excluded: acceptance state %q is not accepted", order.ID, order.AcceptanceState,
			))
			continue
		}

		if order.AcceptanceState == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"order %s has no acceptance state; counted as accepted", order.ID,
			))
		}

		if !order.Amount.IsPositive() {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"order %s excluded: non-positive amount %s", order.ID, order.Amount.String(),
			))
			continue
		}

		entry := domain.LedgerEntry{
			TenderID:        tender.ID,
			Date:            order.SubmittedAt,
			OrderID:         order.ID,
			Supplier:        order.Supplier,
			Description:     order.Description,
			Amount:          order.Amount,
			BalanceBefore:   balance,
			BalanceAfter:    balance.Sub(order.Amount),
			CertifiedAtTime: order.Certified,
		}

		balance = entry.BalanceAfter

		if tender.TotalBudget.IsPositive() {
			consumed := tender.TotalBudget.Sub(balance)
			pct, _ := consumed.Div(tender.TotalBudget).Mul(decimal.NewFromInt(100)).Float64()
			entry.CumulativePct = pct
		}

		result.Entries = append(result.Entries, entry)

		if order.Certified {
			certified = certified.Add(order.Amount)
		} else {
			committed = committed.Add(order.Amount)
		}
	}

	tender.Committed = committed
	tender.Certified = certified
	tender.RecomputeBalances()
	tender.Status = tender.DeriveStatus(now)
	tender.UpdatedAt = now

	return result
}
