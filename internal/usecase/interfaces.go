package usecase

import (
	"context"
	"time"

	"github.com/mhidalgo/tenderledger/internal/domain"
)

// TenderRepository defines data access for tenders.
type TenderRepository interface {
	Upsert(ctx context.Context, tender *domain.Tender) error
	GetByID(ctx context.Context, id string) (*domain.Tender, error)
	List(ctx context.Context) ([]*domain.Tender, error)
	UpdateSummary(ctx context.Context, tender *domain.Tender) error
}

// OrderRepository defines data access for purchase orders. GetByID resolves
// an order across all tenders; the order's own TenderID is authoritative.
type OrderRepository interface {
	Upsert(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByTender(ctx context.Context, tenderID string) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	MarkCertified(ctx context.Context, orderID string, certifiedAt time.Time) error
	ResetCertifications(ctx context.Context, tx Transaction) error
}

// CertificateRepository defines access to the append-only certificate log.
type CertificateRepository interface {
	Append(ctx context.Context, record *domain.CertificateRecord) error
	ListByTender(ctx context.Context, tenderID string) ([]*domain.CertificateRecord, error)
	List(ctx context.Context) ([]*domain.CertificateRecord, error)
	DeleteAll(ctx context.Context, tx Transaction) error
}

// BackupRepository stores snapshots taken before administrative rewrites.
type BackupRepository interface {
	Save(ctx context.Context, snapshot *domain.BackupSnapshot) error
	List(ctx context.Context) ([]*domain.BackupSnapshot, error)
}

// CertificateRenderer turns the flat certification field set into an opaque
// document blob. Rendering is outside the core; implementations decide the
// format.
type CertificateRenderer interface {
	Render(ctx context.Context, fields domain.CertificateFields) ([]byte, string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for dashboard summaries.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
