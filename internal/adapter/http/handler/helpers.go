package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mhidalgo/tenderledger/internal/adapter/http/dto"
	"github.com/mhidalgo/tenderledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a plain error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to a status code and a structured
// error body. Validation and balance failures carry their details so the
// caller does not have to parse the message.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := dto.ErrorResponse{
		Error:   message,
		Message: err.Error(),
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.MissingFields = ve.MissingFields
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var ibe *domain.InsufficientBalanceError
	if errors.As(err, &ibe) {
		resp.TenderID = ibe.TenderID
		resp.BalanceBefore = &ibe.BalanceBefore
		resp.Requested = &ibe.Requested
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	writeJSON(w, mapDomainError(err), resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTenderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyCertified):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotEligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTenderID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidOrderID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTenderName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
