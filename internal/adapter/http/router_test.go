package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/handler"
	"github.com/mhidalgo/tenderledger/internal/adapter/renderer"
	"github.com/mhidalgo/tenderledger/internal/usecase"
	"github.com/mhidalgo/tenderledger/internal/usecase/mocks"
)

func newTestRouter() http.Handler {
	tenderRepo := mocks.NewMockTenderRepository()
	orderRepo := mocks.NewMockOrderRepository()
	certRepo := mocks.NewMockCertificateRepository()
	backupRepo := mocks.NewMockBackupRepository()
	cache := mocks.NewMockCache()
	idGen := mocks.NewMockIDGenerator()
	locks := usecase.NewLockArena()

	ledgerUC := usecase.NewLedgerUseCase(tenderRepo, orderRepo, certRepo, cache, nil)
	certUC := usecase.NewCertificationUseCase(
		tenderRepo, orderRepo, certRepo, renderer.NewJSONRenderer(), idGen, cache, locks, nil,
	)
	ingestUC := usecase.NewIngestUseCase(tenderRepo, orderRepo, nil)
	reconUC := usecase.NewReconciliationUseCase(orderRepo, certRepo, nil)
	adminUC := usecase.NewAdminUseCase(
		mocks.NewMockTransactionManager(), tenderRepo, orderRepo, certRepo, backupRepo, idGen, cache, locks, nil,
	)

	return NewRouter(RouterConfig{
		TenderHandler:        handler.NewTenderHandler(ledgerUC, certUC),
		CertificationHandler: handler.NewCertificationHandler(certUC),
		IngestHandler:        handler.NewIngestHandler(ingestUC, 1<<20),
		StatsHandler:         handler.NewStatsHandler(ledgerUC, reconUC),
		AdminHandler:         handler.NewAdminHandler(adminUC),
		HealthHandler:        handler.NewHealthHandler(nil, nil),
		IdempotencyStore:     mocks.NewMockIdempotencyStore(),
		Logger:               zerolog.Nop(),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_APIRoutes(t *testing.T) {
	router := newTestRouter()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/tenders"},
		{http.MethodGet, "/api/v1/certifications"},
		{http.MethodGet, "/api/v1/stats"},
		{http.MethodGet, "/api/v1/integrity"},
		{http.MethodGet, "/api/v1/admin/backups"},
	}

	for _, route := range routes {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
