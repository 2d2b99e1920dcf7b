package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// CertificateRepository implements usecase.CertificateRepository. The table
// is append-only; the sole delete path runs inside an administrative reset
// transaction.
type CertificateRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewCertificateRepository creates a new CertificateRepository.
func NewCertificateRepository(pool *pgxpool.Pool, retrier *Retrier) *CertificateRepository {
	return &CertificateRepository{pool: pool, retrier: retrier}
}

const certificateColumns = `
	id, order_id, tender_id, supplier, amount,
	operation_type, issuer_name, issuer_role, generated_at`

// Append writes one certificate record.
func (r *CertificateRepository) Append(ctx context.Context, record *domain.CertificateRecord) error {
	const query = `
		INSERT INTO certificates (
			id, order_id, tender_id, supplier, amount,
			operation_type, issuer_name, issuer_role, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query,
			record.ID,
			record.OrderID,
			record.TenderID,
			record.Supplier,
			decimalToNumeric(record.Amount),
			record.OperationType,
			record.IssuerName,
			record.IssuerRole,
			timeToPgTimestamptz(record.GeneratedAt),
		)
		if err != nil {
			return &domain.PersistenceError{Op: "append certificate", Err: err}
		}

		return nil
	})
}

// ListByTender returns a tender's certificates in issue order.
func (r *CertificateRepository) ListByTender(ctx context.Context, tenderID string) ([]*domain.CertificateRecord, error) {
	const query = `
		SELECT` + certificateColumns + `
		FROM certificates
		WHERE tender_id = $1
		ORDER BY generated_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, tenderID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list certificates by tender", Err: err}
	}
	defer rows.Close()

	return collectCertificates(rows)
}

// List returns the full certificate log in issue order.
func (r *CertificateRepository) List(ctx context.Context) ([]*domain.CertificateRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+certificateColumns+` FROM certificates ORDER BY generated_at ASC, id ASC`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list certificates", Err: err}
	}
	defer rows.Close()

	return collectCertificates(rows)
}

// DeleteAll empties the log inside a reset transaction.
func (r *CertificateRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM certificates`)
	if err != nil {
		return &domain.PersistenceError{Op: "delete certificates", Err: err}
	}

	return nil
}

func collectCertificates(rows pgx.Rows) ([]*domain.CertificateRecord, error) {
	var records []*domain.CertificateRecord
	for rows.Next() {
		var (
			rec         domain.CertificateRecord
			amount      pgtype.Numeric
			generatedAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&rec.ID, &rec.OrderID, &rec.TenderID, &rec.Supplier, &amount,
			&rec.OperationType, &rec.IssuerName, &rec.IssuerRole, &generatedAt,
		)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "scan certificate", Err: err}
		}

		rec.Amount = numericToDecimal(amount)
		rec.GeneratedAt = timestamptzToTime(generatedAt)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list certificates", Err: err}
	}

	return records, nil
}
