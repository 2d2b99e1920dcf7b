package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
	"github.com/mhidalgo/tenderledger/internal/usecase/mocks"
)

type adminFixture struct {
	uc         *usecase.AdminUseCase
	tenderRepo *mocks.MockTenderRepository
	orderRepo  *mocks.MockOrderRepository
	certRepo   *mocks.MockCertificateRepository
	backupRepo *mocks.MockBackupRepository
	txMgr      *mocks.MockTransactionManager
	cache      *mocks.MockCache
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		tenderRepo: mocks.NewMockTenderRepository(),
		orderRepo:  mocks.NewMockOrderRepository(),
		certRepo:   mocks.NewMockCertificateRepository(),
		backupRepo: mocks.NewMockBackupRepository(),
		txMgr:      mocks.NewMockTransactionManager(),
		cache:      mocks.NewMockCache(),
	}

	f.uc = usecase.NewAdminUseCase(
		f.txMgr,
		f.tenderRepo,
		f.orderRepo,
		f.certRepo,
		f.backupRepo,
		mocks.NewMockIDGenerator(),
		f.cache,
		usecase.NewLockArena(),
		nil,
	)

	return f
}

func TestAdminUseCase_ResetCertifications(t *testing.T) {
	ctx := context.Background()

	t.Run("backs up, clears flags and empties the log", func(t *testing.T) {
		f := newAdminFixture()
		seedTender(t, f.tenderRepo, "T1", 1_000_000)
		seedOrder(t, f.orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(100), Certified: true,
		})
		require.NoError(t, f.certRepo.Append(ctx, &domain.CertificateRecord{
			ID: "C1", OrderID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(100),
		}))
		require.NoError(t, f.cache.Set(ctx, "tender:summary:T1", "{}", 0))

		snapshot, err := f.uc.ResetCertifications(ctx, "annual rollover")
		require.NoError(t, err)

		assert.Equal(t, "annual rollover", snapshot.Reason)
		require.Len(t, snapshot.Orders, 1)
		assert.True(t, snapshot.Orders[0].Certified)
		require.Len(t, snapshot.Certificates, 1)

		order, err := f.orderRepo.GetByID(ctx, "O1")
		require.NoError(t, err)
		assert.False(t, order.Certified)

		records, err := f.certRepo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		backups, err := f.backupRepo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, backups, 1)

		assert.True(t, f.txMgr.LastTx.Committed)

		cached, err := f.cache.Get(ctx, "tender:summary:T1")
		require.NoError(t, err)
		assert.Empty(t, cached)
	})

	t.Run("backup failure leaves state untouched", func(t *testing.T) {
		f := newAdminFixture()
		seedOrder(t, f.orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(100), Certified: true,
		})

		f.backupRepo.SaveFunc = func(ctx context.Context, snapshot *domain.BackupSnapshot) error {
			return errors.New("disk full")
		}

		_, err := f.uc.ResetCertifications(ctx, "test")
		require.Error(t, err)

		order, err := f.orderRepo.GetByID(ctx, "O1")
		require.NoError(t, err)
		assert.True(t, order.Certified)
	})

	t.Run("clear failure rolls the transaction back", func(t *testing.T) {
		f := newAdminFixture()
		seedOrder(t, f.orderRepo, &domain.Order{
			ID: "O1", TenderID: "T1", Amount: decimal.NewFromInt(100), Certified: true,
		})

		f.certRepo.DeleteAllFunc = func(ctx context.Context, tx usecase.Transaction) error {
			return errors.New("deadlock")
		}

		_, err := f.uc.ResetCertifications(ctx, "test")
		require.Error(t, err)
		assert.False(t, f.txMgr.LastTx.Committed)
		assert.True(t, f.txMgr.LastTx.RolledBack)
	})
}
