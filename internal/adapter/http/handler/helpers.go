package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/adapter/http/dto"
	"github.com/divvyup/divvy/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

// writeDomainError maps domain errors to HTTP status codes. Ledger corruption
// (an unbalanced snapshot) is logged upstream with full detail but surfaced to
// the caller as a plain internal error.
func writeDomainError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrSettlementNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrSettlementNotPending):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, domain.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "group is being modified concurrently, retry the request")

	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountPrecision),
		errors.Is(err, domain.ErrEmptySplit),
		errors.Is(err, domain.ErrEmptyRoster),
		errors.Is(err, domain.ErrShareSumMismatch),
		errors.Is(err, domain.ErrNegativeShare),
		errors.Is(err, domain.ErrMemberNotInRoster):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
