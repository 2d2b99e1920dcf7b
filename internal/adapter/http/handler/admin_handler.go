package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/dto"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// AdminHandler handles administrative HTTP requests.
type AdminHandler struct {
	adminUC *usecase.AdminUseCase
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminUC *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{adminUC: adminUC}
}

// Reset clears all certification state after taking a backup snapshot.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "missing reason", "a reset must state its reason for the audit trail")
		return
	}

	snapshot, err := h.adminUC.ResetCertifications(r.Context(), req.Reason)
	if err != nil {
		writeDomainError(w, "failed to reset certifications", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BackupFromDomain(snapshot))
}

// Backups lists stored snapshots.
func (h *AdminHandler) Backups(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.adminUC.ListBackups(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list backups", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BackupsFromDomain(snapshots))
}
