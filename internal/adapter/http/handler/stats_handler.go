package handler

import (
	"net/http"

	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// StatsHandler handles aggregate reporting HTTP requests.
type StatsHandler struct {
	ledgerUC *usecase.LedgerUseCase
	reconUC  *usecase.ReconciliationUseCase
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(ledgerUC *usecase.LedgerUseCase, reconUC *usecase.ReconciliationUseCase) *StatsHandler {
	return &StatsHandler{ledgerUC: ledgerUC, reconUC: reconUC}
}

// Stats returns global balance aggregates across all tenders.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledgerUC.Stats(r.Context())
	if err != nil {
		writeDomainError(w, "failed to compute stats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Integrity cross-checks the order store against the certificate log.
func (h *StatsHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.Run(r.Context())
	if err != nil {
		writeDomainError(w, "failed to run integrity check", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
