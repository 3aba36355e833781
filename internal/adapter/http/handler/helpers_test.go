package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/domain"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"group not found", domain.ErrGroupNotFound, http.StatusNotFound},
		{"settlement not found", domain.ErrSettlementNotFound, http.StatusNotFound},
		{"settlement not pending", domain.ErrSettlementNotPending, http.StatusConflict},
		{"concurrent modification", domain.ErrConcurrentModification, http.StatusConflict},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"sub-minor-unit precision", domain.ErrAmountPrecision, http.StatusBadRequest},
		{"share sum mismatch", domain.ErrShareSumMismatch, http.StatusBadRequest},
		{"empty roster", domain.ErrEmptyRoster, http.StatusBadRequest},
		{"unbalanced ledger stays internal", domain.ErrUnbalancedInput, http.StatusInternalServerError},
		{"malformed ledger stays internal", domain.ErrMalformedExpense, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeDomainError(rr, zerolog.Nop(), tt.err)

			if rr.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}

func TestWriteDomainError_InternalDetailHidden(t *testing.T) {
	rr := httptest.NewRecorder()
	writeDomainError(rr, zerolog.Nop(), domain.ErrUnbalancedInput)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if resp["error"] != "internal server error" {
		t.Fatalf("ledger detail leaked to caller: %q", resp["error"])
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %s", ct)
	}
}
