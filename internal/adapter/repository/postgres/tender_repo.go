package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhidalgo/tenderledger/internal/domain"
)

// TenderRepository implements usecase.TenderRepository.
type TenderRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTenderRepository creates a new TenderRepository.
func NewTenderRepository(pool *pgxpool.Pool, retrier *Retrier) *TenderRepository {
	return &TenderRepository{pool: pool, retrier: retrier}
}

const tenderColumns = `
	id, name, start_date, end_date, total_budget,
	committed, certified, executed, available,
	execution_pct, certification_pct, status,
	created_at, updated_at`

// Upsert inserts a tender or refreshes its source fields. Derived summary
// columns are left alone; the next ledger build recomputes them.
func (r *TenderRepository) Upsert(ctx context.Context, tender *domain.Tender) error {
	const query = `
		INSERT INTO tenders (
			id, name, start_date, end_date, total_budget, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name         = EXCLUDED.name,
			start_date   = EXCLUDED.start_date,
			end_date     = EXCLUDED.end_date,
			total_budget = EXCLUDED.total_budget,
			updated_at   = EXCLUDED.updated_at`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query,
			tender.ID,
			tender.Name,
			nullableTimestamptz(tender.StartDate),
			nullableTimestamptz(tender.EndDate),
			decimalToNumeric(tender.TotalBudget),
			string(tender.Status),
			timeToPgTimestamptz(tender.CreatedAt),
			timeToPgTimestamptz(tender.UpdatedAt),
		)
		if err != nil {
			return &domain.PersistenceError{Op: "upsert tender", Err: err}
		}

		return nil
	})
}

// GetByID retrieves a tender by ID.
func (r *TenderRepository) GetByID(ctx context.Context, id string) (*domain.Tender, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+tenderColumns+` FROM tenders WHERE id = $1`, id)

	tender, err := scanTender(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenderNotFound
		}

		return nil, &domain.PersistenceError{Op: "get tender", Err: err}
	}

	return tender, nil
}

// List returns all tenders ordered by ID.
func (r *TenderRepository) List(ctx context.Context) ([]*domain.Tender, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+tenderColumns+` FROM tenders ORDER BY id`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list tenders", Err: err}
	}
	defer rows.Close()

	var tenders []*domain.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "scan tender", Err: err}
		}

		tenders = append(tenders, tender)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list tenders", Err: err}
	}

	return tenders, nil
}

// UpdateSummary persists the derived balance columns after a ledger build.
func (r *TenderRepository) UpdateSummary(ctx context.Context, tender *domain.Tender) error {
	const query = `
		UPDATE tenders SET
			committed         = $2,
			certified         = $3,
			executed          = $4,
			available         = $5,
			execution_pct     = $6,
			certification_pct = $7,
			status            = $8,
			updated_at        = $9
		WHERE id = $1`

	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, query,
			tender.ID,
			decimalToNumeric(tender.Committed),
			decimalToNumeric(tender.Certified),
			decimalToNumeric(tender.Executed),
			decimalToNumeric(tender.Available),
			tender.ExecutionPct,
			tender.CertificationPct,
			string(tender.Status),
			timeToPgTimestamptz(tender.UpdatedAt),
		)
		if err != nil {
			return &domain.PersistenceError{Op: "update tender summary", Err: err}
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrTenderNotFound
		}

		return nil
	})
}

func scanTender(row pgx.Row) (*domain.Tender, error) {
	var (
		t                  domain.Tender
		startDate, endDate pgtype.Timestamptz
		createdAt, updated pgtype.Timestamptz
		budget, committed  pgtype.Numeric
		certified, exec    pgtype.Numeric
		available          pgtype.Numeric
		status             string
	)

	err := row.Scan(
		&t.ID, &t.Name, &startDate, &endDate, &budget,
		&committed, &certified, &exec, &available,
		&t.ExecutionPct, &t.CertificationPct, &status,
		&createdAt, &updated,
	)
	if err != nil {
		return nil, err
	}

	t.StartDate = timestamptzToTime(startDate)
	t.EndDate = timestamptzToTime(endDate)
	t.TotalBudget = numericToDecimal(budget)
	t.Committed = numericToDecimal(committed)
	t.Certified = numericToDecimal(certified)
	t.Executed = numericToDecimal(exec)
	t.Available = numericToDecimal(available)
	t.Status = domain.TenderStatus(status)
	t.CreatedAt = timestamptzToTime(createdAt)
	t.UpdatedAt = timestamptzToTime(updated)

	return &t, nil
}
