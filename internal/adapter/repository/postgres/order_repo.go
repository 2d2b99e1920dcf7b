package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// OrderRepository implements usecase.OrderRepository.
type OrderRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool, retrier *Retrier) *OrderRepository {
	return &OrderRepository{pool: pool, retrier: retrier}
}

const orderColumns = `
	id, tender_id, supplier, supplier_tax_id, description,
	submitted_at, amount, acceptance_state, certified,
	created_at, updated_at`

// Upsert inserts an order or refreshes its source fields. The stored
// certified flag is sticky: an upsert can set it but never clear it.
func (r *OrderRepository) Upsert(ctx context.Context, order *domain.Order) error {
	const query = `
		INSERT INTO orders (
			id, tender_id, supplier, supplier_tax_id, description,
			submitted_at, amount, acceptance_state, certified,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			tender_id        = EXCLUDED.tender_id,
			supplier         = EXCLUDED.supplier,
			supplier_tax_id  = EXCLUDED.supplier_tax_id,
			description      = EXCLUDED.description,
			submitted_at     = EXCLUDED.submitted_at,
			amount           = EXCLUDED.amount,
			acceptance_state = EXCLUDED.acceptance_state,
			certified        = orders.certified OR EXCLUDED.certified,
			updated_at       = EXCLUDED.updated_at`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query,
			order.ID,
			order.TenderID,
			order.Supplier,
			order.SupplierTaxID,
			order.Description,
			nullableTimestamptz(order.SubmittedAt),
			decimalToNumeric(order.Amount),
			order.AcceptanceState,
			order.Certified,
			timeToPgTimestamptz(order.CreatedAt),
			timeToPgTimestamptz(order.UpdatedAt),
		)
		if err != nil {
			return &domain.PersistenceError{Op: "upsert order", Err: err}
		}

		return nil
	})
}

// GetByID retrieves an order by ID across all tenders.
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, orderID)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}

		return nil, &domain.PersistenceError{Op: "get order", Err: err}
	}

	return order, nil
}

// ListByTender returns a tender's orders in submission order. Orders without
// a date sort last; ties fall back to creation time so the walk is stable.
func (r *OrderRepository) ListByTender(ctx context.Context, tenderID string) ([]*domain.Order, error) {
	const query = `
		SELECT` + orderColumns + `
		FROM orders
		WHERE tender_id = $1
		ORDER BY submitted_at ASC NULLS LAST, created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, tenderID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list orders by tender", Err: err}
	}
	defer rows.Close()

	return collectOrders(rows)
}

// List returns every order.
func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+orderColumns+` FROM orders ORDER BY tender_id, id`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	return collectOrders(rows)
}

// MarkCertified flips the certified flag on.
func (r *OrderRepository) MarkCertified(ctx context.Context, orderID string, certifiedAt time.Time) error {
	const query = `UPDATE orders SET certified = TRUE, updated_at = $2 WHERE id = $1`

	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, query, orderID, timeToPgTimestamptz(certifiedAt))
		if err != nil {
			return &domain.PersistenceError{Op: "mark order certified", Err: err}
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotFound
		}

		return nil
	})
}

// ResetCertifications clears every certified flag inside a transaction.
func (r *OrderRepository) ResetCertifications(ctx context.Context, tx usecase.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `UPDATE orders SET certified = FALSE, updated_at = NOW() WHERE certified`)
	if err != nil {
		return &domain.PersistenceError{Op: "reset certifications", Err: err}
	}

	return nil
}

func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "scan order", Err: err}
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list orders", Err: err}
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                  domain.Order
		submittedAt        pgtype.Timestamptz
		createdAt, updated pgtype.Timestamptz
		amount             pgtype.Numeric
	)

	err := row.Scan(
		&o.ID, &o.TenderID, &o.Supplier, &o.SupplierTaxID, &o.Description,
		&submittedAt, &amount, &o.AcceptanceState, &o.Certified,
		&createdAt, &updated,
	)
	if err != nil {
		return nil, err
	}

	o.SubmittedAt = timestamptzToTime(submittedAt)
	o.Amount = numericToDecimal(amount)
	o.CreatedAt = timestamptzToTime(createdAt)
	o.UpdatedAt = timestamptzToTime(updated)

	return &o, nil
}
