// Package mocks provides in-memory mock implementations of the usecase
// interfaces for testing. Override individual Func fields to inject
// behavior; the defaults act as a simple in-memory store.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// MockTenderRepository is a mock implementation of TenderRepository.
type MockTenderRepository struct {
	mu      sync.RWMutex
	tenders map[string]*domain.Tender

	UpsertFunc        func(ctx context.Context, tender *domain.Tender) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Tender, error)
	ListFunc          func(ctx context.Context) ([]*domain.Tender, error)
	UpdateSummaryFunc func(ctx context.Context, tender *domain.Tender) error
}

func NewMockTenderRepository() *MockTenderRepository {
	return &MockTenderRepository{
		tenders: make(map[string]*domain.Tender),
	}
}

func (m *MockTenderRepository) Upsert(ctx context.Context, tender *domain.Tender) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tender)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenders[tender.ID] = tender
	return nil
}

func (m *MockTenderRepository) GetByID(ctx context.Context, id string) (*domain.Tender, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tenders[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrTenderNotFound
}

func (m *MockTenderRepository) List(ctx context.Context) ([]*domain.Tender, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	tenders := make([]*domain.Tender, 0, len(m.tenders))
	for _, t := range m.tenders {
		copied := *t
		tenders = append(tenders, &copied)
	}
	sort.Slice(tenders, func(i, j int) bool { return tenders[i].ID < tenders[j].ID })
	return tenders, nil
}

func (m *MockTenderRepository) UpdateSummary(ctx context.Context, tender *domain.Tender) error {
	if m.UpdateSummaryFunc != nil {
		return m.UpdateSummaryFunc(ctx, tender)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenders[tender.ID]; !ok {
		return domain.ErrTenderNotFound
	}
	copied := *tender
	m.tenders[tender.ID] = &copied
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	UpsertFunc              func(ctx context.Context, order *domain.Order) error
	GetByIDFunc             func(ctx context.Context, orderID string) (*domain.Order, error)
	ListByTenderFunc        func(ctx context.Context, tenderID string) ([]*domain.Order, error)
	ListFunc                func(ctx context.Context) ([]*domain.Order, error)
	MarkCertifiedFunc       func(ctx context.Context, orderID string, certifiedAt time.Time) error
	ResetCertificationsFunc func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (m *MockOrderRepository) Upsert(ctx context.Context, order *domain.Order) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	if existing, ok := m.orders[order.ID]; ok && existing.Certified {
		// The certified flag never reverts on re-ingestion
		copied.Certified = true
	}
	m.orders[order.ID] = &copied
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, orderID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[orderID]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) ListByTender(ctx context.Context, tenderID string) ([]*domain.Order, error) {
	if m.ListByTenderFunc != nil {
		return m.ListByTenderFunc(ctx, tenderID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var orders []*domain.Order
	for _, o := range m.orders {
		if o.TenderID == tenderID {
			copied := *o
			orders = append(orders, &copied)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	orders := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copied := *o
		orders = append(orders, &copied)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (m *MockOrderRepository) MarkCertified(ctx context.Context, orderID string, certifiedAt time.Time) error {
	if m.MarkCertifiedFunc != nil {
		return m.MarkCertifiedFunc(ctx, orderID, certifiedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Certified = true
	o.UpdatedAt = certifiedAt
	return nil
}

func (m *MockOrderRepository) ResetCertifications(ctx context.Context, tx usecase.Transaction) error {
	if m.ResetCertificationsFunc != nil {
		return m.ResetCertificationsFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		o.Certified = false
	}
	return nil
}

// MockCertificateRepository is a mock implementation of CertificateRepository.
type MockCertificateRepository struct {
	mu      sync.RWMutex
	records []*domain.CertificateRecord

	AppendFunc       func(ctx context.Context, record *domain.CertificateRecord) error
	ListByTenderFunc func(ctx context.Context, tenderID string) ([]*domain.CertificateRecord, error)
	ListFunc         func(ctx context.Context) ([]*domain.CertificateRecord, error)
	DeleteAllFunc    func(ctx context.Context, tx usecase.Transaction) error
}

func NewMockCertificateRepository() *MockCertificateRepository {
	return &MockCertificateRepository{}
}

func (m *MockCertificateRepository) Append(ctx context.Context, record *domain.CertificateRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records = append(m.records, &copied)
	return nil
}

func (m *MockCertificateRepository) ListByTender(ctx context.Context, tenderID string) ([]*domain.CertificateRecord, error) {
	if m.ListByTenderFunc != nil {
		return m.ListByTenderFunc(ctx, tenderID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.CertificateRecord
	for _, r := range m.records {
		if r.TenderID == tenderID {
			copied := *r
			records = append(records, &copied)
		}
	}
	return records, nil
}

func (m *MockCertificateRepository) List(ctx context.Context) ([]*domain.CertificateRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]*domain.CertificateRecord, 0, len(m.records))
	for _, r := range m.records {
		copied := *r
		records = append(records, &copied)
	}
	return records, nil
}

func (m *MockCertificateRepository) DeleteAll(ctx context.Context, tx usecase.Transaction) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

// MockBackupRepository is a mock implementation of BackupRepository.
type MockBackupRepository struct {
	mu        sync.RWMutex
	snapshots []*domain.BackupSnapshot

	SaveFunc func(ctx context.Context, snapshot *domain.BackupSnapshot) error
	ListFunc func(ctx context.Context) ([]*domain.BackupSnapshot, error)
}

func NewMockBackupRepository() *MockBackupRepository {
	return &MockBackupRepository{}
}

func (m *MockBackupRepository) Save(ctx context.Context, snapshot *domain.BackupSnapshot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

func (m *MockBackupRepository) List(ctx context.Context) ([]*domain.BackupSnapshot, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.BackupSnapshot(nil), m.snapshots...), nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
	Committed    bool
	RolledBack   bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	LastTx    *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.LastTx = &MockTransaction{}
	return m.LastTx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockRenderer is a mock implementation of CertificateRenderer.
type MockRenderer struct {
	RenderFunc func(ctx context.Context, fields domain.CertificateFields) ([]byte, string, error)
}

func NewMockRenderer() *MockRenderer {
	return &MockRenderer{}
}

func (m *MockRenderer) Render(ctx context.Context, fields domain.CertificateFields) ([]byte, string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, fields)
	}
	return []byte(fmt.Sprintf("certificate for order %s", fields.OrderID)), "text/plain", nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu     sync.Mutex
	values map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{values: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.values[key]; ok {
		return true, existing, nil
	}
	m.values[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = response
	return nil
}
