package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/dto"
	"github.com/mhidalgo/tenderledger/internal/usecase"
)

// IngestHandler handles batch ingestion HTTP requests.
type IngestHandler struct {
	ingestUC *usecase.IngestUseCase
	maxBody  int64
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestUC *usecase.IngestUseCase, maxBody int64) *IngestHandler {
	return &IngestHandler{ingestUC: ingestUC, maxBody: maxBody}
}

// Tenders ingests a batch of tender records.
func (h *IngestHandler) Tenders(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	report, err := h.ingestUC.IngestTenders(r.Context(), req.ToRawRecords())
	if err != nil {
		writeDomainError(w, "failed to ingest tenders", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Orders ingests a batch of purchase order records.
func (h *IngestHandler) Orders(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	report, err := h.ingestUC.IngestOrders(r.Context(), req.ToRawRecords())
	if err != nil {
		writeDomainError(w, "failed to ingest orders", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *IngestHandler) decode(w http.ResponseWriter, r *http.Request) (*dto.IngestRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var req dto.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return nil, false
	}

	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "empty batch", "records is required")
		return nil, false
	}

	return &req, true
}
