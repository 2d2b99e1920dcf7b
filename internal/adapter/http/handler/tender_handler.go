package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/dto"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// TenderHandler handles tender-related HTTP requests.
type TenderHandler struct {
	ledgerUC *usecase.LedgerUseCase
	certUC   *usecase.CertificationUseCase
}

// NewTenderHandler creates a new TenderHandler.
func NewTenderHandler(ledgerUC *usecase.LedgerUseCase, certUC *usecase.CertificationUseCase) *TenderHandler {
	return &TenderHandler{ledgerUC: ledgerUC, certUC: certUC}
}

// List lists all tenders with their last persisted summaries.
func (h *TenderHandler) List(w http.ResponseWriter, r *http.Request) {
	tenders, err := h.ledgerUC.ListTenders(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list tenders", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TendersFromDomain(tenders))
}

// Get returns one tender with a freshly recomputed summary.
func (h *TenderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing tender ID", "")
		return
	}

	tender, err := h.ledgerUC.GetTender(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get tender", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TenderFromDomain(tender))
}

// Ledger returns the tender's full movement history.
func (h *TenderHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing tender ID", "")
		return
	}

	result, err := h.ledgerUC.BuildTender(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to build ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(result))
}

// Certificates returns the tender's certificate log.
func (h *TenderHandler) Certificates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing tender ID", "")
		return
	}

	records, err := h.certUC.ListByTender(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to list certificates", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CertificatesFromDomain(records))
}
