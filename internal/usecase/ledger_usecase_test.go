package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
	"github.com/mhidalgo/tenderledger/internal/usecase/mocks"
)

func newLedgerFixture() (*usecase.LedgerUseCase, *mocks.MockTenderRepository, *mocks.MockOrderRepository, *mocks.MockCertificateRepository, *mocks.MockCache) {
	tenderRepo := mocks.NewMockTenderRepository()
	orderRepo := mocks.NewMockOrderRepository()
	certRepo := mocks.NewMockCertificateRepository()
	cache := mocks.NewMockCache()

	uc := usecase.NewLedgerUseCase(tenderRepo, orderRepo, certRepo, cache, nil)

	return uc, tenderRepo, orderRepo, certRepo, cache
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLedgerUseCase_BuildTender(t *testing.T) {
	ctx := context.Background()

	t.Run("walks orders in submission order", func(t *testing.T) {
		uc, tenderRepo, orderRepo, _, _ := newLedgerFixture()
		seedTender(t, tenderRepo, "123-1-LE24", 1_000_000)

		seedOrder(t, orderRepo, &domain.Order{
			ID: "O2", TenderID: "123-1-LE24", SubmittedAt: date("2024-03-15"),
			Amount: decimal.NewFromInt(250_000), AcceptanceState: "Aceptada",
		})
		seedOrder(t, orderRepo, &domain.Order{
			ID: "O1", TenderID: "123-1-LE24", SubmittedAt: date("2024-02-01"),
			Amount: decimal.NewFromInt(100_000), AcceptanceState: "Recepción Conforme", Certified: true,
		})

		result, err := uc.BuildTender(ctx, "123-1-LE24")
		require.NoError(t, err)
		require.Len(t, result.Entries, 2)

		first, second := result.Entries[0], result.Entries[1]
		assert.Equal(t, "O1", first.OrderID)
		assert.True(t, first.BalanceBefore.Equal(decimal.NewFromInt(1_000_000)))
		assert.True(t, first.BalanceAfter.Equal(decimal.NewFromInt(900_000)))
		assert.True(t, first.CertifiedAtTime)
		assert.InDelta(t, 10.0, first.CumulativePct, 0.0001)

		assert.Equal(t, "O2", second.OrderID)
		assert.True(t, second.BalanceBefore.Equal(decimal.NewFromInt(900_000)))
		assert.True(t, second.BalanceAfter.Equal(decimal.NewFromInt(650_000)))
		assert.False(t, second.CertifiedAtTime)
		assert.InDelta(t, 35.0, second.CumulativePct, 0.0001)

		tender := result.Tender
		assert.True(t, tender.Committed.Equal(decimal.NewFromInt(250_000)))
		assert.True(t, tender.Certified.Equal(decimal.NewFromInt(100_000)))
		assert.True(t, tender.Executed.Equal(decimal.NewFromInt(350_000)))
		assert.True(t, tender.Available.Equal(decimal.NewFromInt(650_000)))
		assert.Equal(t, domain.TenderStatusActive, tender.Status)
	})

	t.Run("orders without a date sort last", func(t *testing.T) {
		uc, tenderRepo, orderRepo, _, _ := newLedgerFixture()
		seedTender(t, tenderRepo, "T1", 1_000_000)

		seedOrder(t, orderRepo, &domain.Order{
			ID: "A-undated", TenderID: "T1", Amount: decimal.NewFromInt(100), AcceptanceState: "Aceptada",
		})
		seedOrder(t, orderRepo, &domain.Order{
			ID: "B-dated", TenderID: "T1", SubmittedAt: date("2024-06-01"),
			Amount: decimal.NewFromInt(200), AcceptanceState: "Aceptada",
		})

		result, err := uc.BuildTender(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, "B-dated", result.Entries[0].OrderID)
		assert.Equal(t, "A-undated", result.Entries[1].OrderID)
	})

	t.Run("ineligible orders are excluded with a warning", func(t *testing.T) {
		uc, tenderRepo, orderRepo, _, _ := newLedgerFixture()
		seedTender(t, tenderRepo, "T1", 1_000_000)

		seedOrder(t, orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(500), AcceptanceState: "Rechazada",
		})
		seedOrder(t, orderRepo, &domain.Order{
			ID: "O2", TenderID: "T1", Amount: decimal.NewFromInt(300), AcceptanceState: "Aceptada",
		})

		result, err := uc.BuildTender(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, "O2", result.Entries[0].OrderID)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "O1")
	})

	t.Run("empty acceptance state counts with a warning", func(t *testing.T) {
		uc, tenderRepo, orderRepo, _, _ := newLedgerFixture()
		seedTender(t, tenderRepo, "T1", 1_000_000)

		seedOrder(t, orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(500),
		})

		result, err := uc.BuildTender(ctx, "T1")
		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "counted as accepted")
	})

	t.Run("overcommitted tender goes negative and completes", func(t *testing.T) {
		uc, tenderRepo, orderRepo, _, _ := newLedgerFixture()
		seedTender(t, tenderRepo, "T1", 1_000)

		seedOrder(t, orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(1_500), AcceptanceState: "Aceptada",
		})

		result, err := uc.BuildTender(ctx, "T1")
		require.NoError(t, err)
		assert.True(t, result.Tender.Available.Equal(decimal.NewFromInt(-500)))
		assert.Equal(t, domain.TenderStatusCompleted, result.Tender.Status)
	})

	t.Run("expired tender", func(t *testing.T) {
		uc, tenderRepo, orderRepo, _, _ := newLedgerFixture()

		require.NoError(t, tenderRepo.Upsert(ctx, &domain.Tender{
			ID:          "T1",
			TotalBudget: decimal.NewFromInt(1_000),
			EndDate:     date("2020-01-01"),
		}))
		seedOrder(t, orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(100), AcceptanceState: "Aceptada",
		})

		result, err := uc.BuildTender(ctx, "T1")
		require.NoError(t, err)
		assert.Equal(t, domain.TenderStatusExpired, result.Tender.Status)
	})

	t.Run("persists and caches the summary", func(t *testing.T) {
		uc, tenderRepo, orderRepo, _, cache := newLedgerFixture()
		seedTender(t, tenderRepo, "T1", 1_000)
		seedOrder(t, orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(400), AcceptanceState: "Aceptada",
		})

		_, err := uc.BuildTender(ctx, "T1")
		require.NoError(t, err)

		stored, err := tenderRepo.GetByID(ctx, "T1")
		require.NoError(t, err)
		assert.True(t, stored.Available.Equal(decimal.NewFromInt(600)))

		cached, err := cache.Get(ctx, "tender:summary:T1")
		require.NoError(t, err)
		assert.Contains(t, cached, "T1")
	})

	t.Run("unknown tender", func(t *testing.T) {
		uc, _, _, _, _ := newLedgerFixture()

		_, err := uc.BuildTender(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrTenderNotFound)
	})
}

func TestLedgerUseCase_Stats(t *testing.T) {
	ctx := context.Background()
	uc, tenderRepo, orderRepo, certRepo, _ := newLedgerFixture()

	seedTender(t, tenderRepo, "T1", 1_000)
	seedTender(t, tenderRepo, "T2", 2_000)

	seedOrder(t, orderRepo, &domain.Order{
		ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(400), AcceptanceState: "Aceptada",
	})
	seedOrder(t, orderRepo, &domain.Order{
		ID: "O2", TenderID: "T2", Amount: decimal.NewFromInt(2_000), AcceptanceState: "Aceptada", Certified: true,
	})

	require.NoError(t, certRepo.Append(ctx, &domain.CertificateRecord{
		ID: "C1", OrderID: "O2", TenderID: "T2", Amount: decimal.NewFromInt(2_000),
	}))

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalTenders)
	assert.Equal(t, 1, stats.ActiveTenders)
	assert.Equal(t, 1, stats.CompletedTenders)
	assert.True(t, stats.TotalBudget.Equal(decimal.NewFromInt(3_000)))
	assert.True(t, stats.TotalCommitted.Equal(decimal.NewFromInt(400)))
	assert.True(t, stats.TotalCertified.Equal(decimal.NewFromInt(2_000)))
	assert.True(t, stats.TotalAvailable.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 2, stats.OrderCount)
	assert.Equal(t, 1, stats.CertifiedOrders)
	assert.Equal(t, 1, stats.CertificateCount)
	assert.Empty(t, stats.Warnings)
}

func TestLedgerUseCase_Stats_SkipsFailingTender(t *testing.T) {
	ctx := context.Background()
	uc, tenderRepo, orderRepo, _, _ := newLedgerFixture()

	seedTender(t, tenderRepo, "T1", 1_000)
	seedTender(t, tenderRepo, "T2", 2_000)

	orderRepo.ListByTenderFunc = func(ctx context.Context, tenderID string) ([]*domain.Order, error) {
		if tenderID == "T2" {
			return nil, &domain.PersistenceError{Op: "list orders", Err: errors.New("connection reset")}
		}
		return nil, nil
	}

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalTenders)
	assert.True(t, stats.TotalBudget.Equal(decimal.NewFromInt(1_000)))
	require.Len(t, stats.Warnings, 1)
	assert.Contains(t, stats.Warnings[0], "T2")
}
