package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/dto"
	"github.com/mhidalgo/tenderledger/internal/adapter/renderer"
	"github.com/mhidalgo/tenderledger/internal/domain"
	"github.com/mhidalgo/tenderledger/internal/usecase"
	"github.com/mhidalgo/tenderledger/internal/usecase/mocks"
)

type testEnv struct {
	router     chi.Router
	tenderRepo *mocks.MockTenderRepository
	orderRepo  *mocks.MockOrderRepository
	certRepo   *mocks.MockCertificateRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		tenderRepo: mocks.NewMockTenderRepository(),
		orderRepo:  mocks.NewMockOrderRepository(),
		certRepo:   mocks.NewMockCertificateRepository(),
	}

	locks := usecase.NewLockArena()
	cache := mocks.NewMockCache()

	ledgerUC := usecase.NewLedgerUseCase(env.tenderRepo, env.orderRepo, env.certRepo, cache, nil)
	certUC := usecase.NewCertificationUseCase(
		env.tenderRepo, env.orderRepo, env.certRepo,
		renderer.NewJSONRenderer(), mocks.NewMockIDGenerator(), cache, locks, nil,
	)

	tenderHandler := NewTenderHandler(ledgerUC, certUC)
	certHandler := NewCertificationHandler(certUC)

	r := chi.NewRouter()
	r.Get("/tenders", tenderHandler.List)
	r.Get("/tenders/{id}", tenderHandler.Get)
	r.Get("/tenders/{id}/ledger", tenderHandler.Ledger)
	r.Get("/tenders/{id}/certificates", tenderHandler.Certificates)
	r.Post("/certifications", certHandler.Certify)
	r.Get("/certifications", certHandler.List)

	env.router = r
	return env
}

func (e *testEnv) seed(t *testing.T, tenderID string, budget int64, orders ...*domain.Order) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.tenderRepo.Upsert(ctx, &domain.Tender{
		ID:          tenderID,
		TotalBudget: decimal.NewFromInt(budget),
	}))
	for _, o := range orders {
		require.NoError(t, e.orderRepo.Upsert(ctx, o))
	}
}

func TestCertificationHandler_Certify_Success(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "123-1-LE24", 1_000_000, &domain.Order{
		ID: "4587-OC25", TenderID: "123-1-LE24",
		Amount: decimal.NewFromInt(300_000), AcceptanceState: "Aceptada",
	})

	body, _ := json.Marshal(dto.CertifyRequest{
		OrderID:       "4587-OC25",
		OperationType: "recepcion conforme",
		IssuerName:    "Maria Hidalgo",
		IssuerRole:    "Jefa de Proyecto",
	})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/certifications", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.CertifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "4587-OC25", resp.Certificate.OrderID)
	assert.True(t, resp.BalanceAfter.Equal(decimal.NewFromInt(700_000)))
	assert.NotEmpty(t, resp.Document)
}

func TestCertificationHandler_Certify_InsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "T1", 500_000, &domain.Order{
		ID: "O1", TenderID: "T1",
		Amount: decimal.NewFromInt(800_000), AcceptanceState: "Aceptada",
	})

	body, _ := json.Marshal(dto.CertifyRequest{
		OrderID: "O1", OperationType: "op", IssuerName: "n", IssuerRole: "r",
	})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/certifications", bytes.NewReader(body)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "T1", resp.TenderID)
	require.NotNil(t, resp.BalanceBefore)
	assert.True(t, resp.BalanceBefore.Equal(decimal.NewFromInt(500_000)))
	require.NotNil(t, resp.Requested)
	assert.True(t, resp.Requested.Equal(decimal.NewFromInt(800_000)))
}

func TestCertificationHandler_Certify_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(dto.CertifyRequest{OrderID: "O1"})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/certifications", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"operation_type", "issuer_name", "issuer_role"}, resp.MissingFields)
}

func TestCertificationHandler_Certify_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "T1", 1_000_000, &domain.Order{
		ID: "O1", TenderID: "T1",
		Amount: decimal.NewFromInt(100), AcceptanceState: "Aceptada", Certified: true,
	})

	body, _ := json.Marshal(dto.CertifyRequest{
		OrderID: "O1", OperationType: "op", IssuerName: "n", IssuerRole: "r",
	})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/certifications", bytes.NewReader(body)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCertificationHandler_Certify_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/certifications", bytes.NewBufferString("{invalid")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCertificationHandler_Certify_OrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	body, _ := json.Marshal(dto.CertifyRequest{
		OrderID: "ghost", OperationType: "op", IssuerName: "n", IssuerRole: "r",
	})

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/certifications", bytes.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
