package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhidalgo/tenderledger/internal/domain"
)

// BackupRepository implements usecase.BackupRepository. Snapshots are stored
// whole as JSONB; they are written once before a reset and only ever read
// back by operators.
type BackupRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewBackupRepository creates a new BackupRepository.
func NewBackupRepository(pool *pgxpool.Pool, retrier *Retrier) *BackupRepository {
	return &BackupRepository{pool: pool, retrier: retrier}
}

type backupPayload struct {
	Orders       []*domain.Order             `json:"orders"`
	Certificates []*domain.CertificateRecord `json:"certificates"`
}

// Save writes one snapshot.
func (r *BackupRepository) Save(ctx context.Context, snapshot *domain.BackupSnapshot) error {
	payload, err := json.Marshal(backupPayload{
		Orders:       snapshot.Orders,
		Certificates: snapshot.Certificates,
	})
	if err != nil {
		return &domain.PersistenceError{Op: "marshal backup", Err: err}
	}

	const query = `
		INSERT INTO backups (id, reason, snapshot, created_at)
		VALUES ($1, $2, $3, $4)`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query,
			snapshot.ID,
			snapshot.Reason,
			payload,
			timeToPgTimestamptz(snapshot.CreatedAt),
		)
		if err != nil {
			return &domain.PersistenceError{Op: "save backup", Err: err}
		}

		return nil
	})
}

// List returns snapshots, newest first.
func (r *BackupRepository) List(ctx context.Context) ([]*domain.BackupSnapshot, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, reason, snapshot, created_at FROM backups ORDER BY created_at DESC`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list backups", Err: err}
	}
	defer rows.Close()

	var snapshots []*domain.BackupSnapshot
	for rows.Next() {
		var (
			snap      domain.BackupSnapshot
			raw       []byte
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&snap.ID, &snap.Reason, &raw, &createdAt); err != nil {
			return nil, &domain.PersistenceError{Op: "scan backup", Err: err}
		}

		var payload backupPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, &domain.PersistenceError{Op: "unmarshal backup", Err: err}
		}

		snap.Orders = payload.Orders
		snap.Certificates = payload.Certificates
		snap.CreatedAt = timestamptzToTime(createdAt)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list backups", Err: err}
	}

	return snapshots, nil
}
