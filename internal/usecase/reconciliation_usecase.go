package usecase

import (
	"context"
	"time"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase cross-checks the order store against the certificate
// log. The two are written in order rather than atomically, so a crash can
// leave an order certified without a log entry; reconciliation finds those.
type ReconciliationUseCase struct {
	orderRepo OrderRepository
	certRepo  CertificateRepository
	metrics   *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	orderRepo OrderRepository,
	certRepo CertificateRepository,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		orderRepo: orderRepo,
		certRepo:  certRepo,
		metrics:   metrics,
	}
}

// Divergence kinds reported by an integrity check.
const (
	DivergenceCertifiedUnlogged = "certified_unlogged"
	DivergenceLoggedUncertified = "logged_uncertified"
	DivergenceOrphanCertificate = "orphan_certificate"
	DivergenceDuplicateLog      = "duplicate_log"
)

// Divergence is one mismatch between the order store and the certificate log.
type Divergence struct {
	Kind     string `json:"kind"`
	OrderID  string `json:"order_id"`
	TenderID string `json:"tender_id"`
}

// IntegrityReport is the result of one reconciliation run.
type IntegrityReport struct {
	CheckedOrders       int          `json:"checked_orders"`
	CheckedCertificates int          `json:"checked_certificates"`
	Divergences         []Divergence `json:"divergences"`
	Consistent          bool         `json:"consistent"`
	CheckedAt           time.Time    `json:"checked_at"`
}

// Run walks both stores and reports every divergence. It is read-only; the
// report is for operators to repair by hand.
func (uc *ReconciliationUseCase) Run(ctx context.Context) (*IntegrityReport, error) {
	orders, err := uc.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	certificates, err := uc.certRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &IntegrityReport{
		CheckedOrders:       len(orders),
		CheckedCertificates: len(certificates),
		Divergences:         make([]Divergence, 0),
		CheckedAt:           time.Now().UTC(),
	}

	ordersByID := make(map[string]*domain.Order, len(orders))
	for _, order := range orders {
		ordersByID[order.ID] = order
	}

	logged := make(map[string]int, len(certificates))
	for _, cert := range certificates {
		logged[cert.OrderID]++

		order, ok := ordersByID[cert.OrderID]
		if !ok {
			report.Divergences = append(report.Divergences, Divergence{
				Kind:     DivergenceOrphanCertificate,
				OrderID:  cert.OrderID,
				TenderID: cert.TenderID,
			})
			continue
		}

		if !order.Certified {
			report.Divergences = append(report.Divergences, Divergence{
				Kind:     DivergenceLoggedUncertified,
				OrderID:  cert.OrderID,
				TenderID: cert.TenderID,
			})
		}

		if logged[cert.OrderID] == 2 {
			report.Divergences = append(report.Divergences, Divergence{
				Kind:     DivergenceDuplicateLog,
				OrderID:  cert.OrderID,
				TenderID: cert.TenderID,
			})
		}
	}

	for _, order := range orders {
		if order.Certified && logged[order.ID] == 0 {
			report.Divergences = append(report.Divergences, Divergence{
				Kind:     DivergenceCertifiedUnlogged,
				OrderID:  order.ID,
				TenderID: order.TenderID,
			})
		}
	}

	report.Consistent = len(report.Divergences) == 0

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		uc.metrics.IntegrityDivergences.Set(float64(len(report.Divergences)))
	}

	return report, nil
}
