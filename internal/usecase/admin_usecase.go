package usecase

import (
	"context"
	"time"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/infrastructure/metrics"
)

// AdminUseCase handles administrative rewrites of the certification state.
// A reset is the one operation allowed to touch the certificate log, and it
// always snapshots the current state first.
type AdminUseCase struct {
	txManager  TransactionManager
	tenderRepo TenderRepository
	orderRepo  OrderRepository
	certRepo   CertificateRepository
	backupRepo BackupRepository
	idGen      IDGenerator
	cache      Cache
	locks      *LockArena
	metrics    *metrics.Metrics
}

// NewAdminUseCase creates a new AdminUseCase.
func NewAdminUseCase(
	txManager TransactionManager,
	tenderRepo TenderRepository,
	orderRepo OrderRepository,
	certRepo CertificateRepository,
	backupRepo BackupRepository,
	idGen IDGenerator,
	cache Cache,
	locks *LockArena,
	metrics *metrics.Metrics,
) *AdminUseCase {
	return &AdminUseCase{
		txManager:  txManager,
		tenderRepo: tenderRepo,
		orderRepo:  orderRepo,
		certRepo:   certRepo,
		backupRepo: backupRepo,
		idGen:      idGen,
		cache:      cache,
		locks:      locks,
		metrics:    metrics,
	}
}

// ResetCertifications clears every certified flag and empties the certificate
// log, after saving a backup snapshot. The whole store is locked for the
// duration; no certification can interleave.
func (uc *AdminUseCase) ResetCertifications(ctx context.Context, reason string) (*domain.BackupSnapshot, error) {
	release := uc.locks.lockExclusive()
	defer release()

	// 1. Snapshot current state before touching anything
	orders, err := uc.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	certificates, err := uc.certRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.BackupSnapshot{
		ID:           uc.idGen.Generate(),
		Reason:       reason,
		Orders:       orders,
		Certificates: certificates,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.backupRepo.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BackupsCreated.Inc()
	}

	// 2. Clear flags and log atomically; the snapshot already exists if
	// this fails
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.orderRepo.ResetCertifications(txCtx, tx); err != nil {
		return nil, err
	}

	if err := uc.certRepo.DeleteAll(txCtx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateSummaries(ctx)

	if uc.metrics != nil {
		uc.metrics.ResetsPerformed.Inc()
	}

	return snapshot, nil
}

// ListBackups returns stored snapshots, newest first.
func (uc *AdminUseCase) ListBackups(ctx context.Context) ([]*domain.BackupSnapshot, error) {
	return uc.backupRepo.List(ctx)
}

func (uc *AdminUseCase) invalidateSummaries(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	tenders, err := uc.tenderRepo.List(ctx)
	if err != nil {
		return
	}

	for _, tender := range tenders {
		_ = uc.cache.Delete(ctx, summaryCacheKey(tender.ID))
	}
}
