package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/dto"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// CertificationHandler handles certification HTTP requests.
type CertificationHandler struct {
	certUC *usecase.CertificationUseCase
}

// NewCertificationHandler creates a new CertificationHandler.
func NewCertificationHandler(certUC *usecase.CertificationUseCase) *CertificationHandler {
	return &CertificationHandler{certUC: certUC}
}

// Certify certifies an order and returns the certificate.
func (h *CertificationHandler) Certify(w http.ResponseWriter, r *http.Request) {
	var req dto.CertifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.certUC.Certify(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to certify order", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CertifyFromResult(result))
}

// List returns the full certificate log.
func (h *CertificationHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.certUC.List(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list certificates", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CertificatesFromDomain(records))
}
