package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/adapter/http/dto"
	"github.com/divvyup/divvy/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalances(ctx context.Context, groupID string) (map[string]int64, error)
	CheckConsistency(ctx context.Context, groupID string) (*usecase.ConsistencyResult, error)
}

// BalanceHandler serves balance and consistency endpoints.
type BalanceHandler struct {
	balanceUC BalanceService
	logger    zerolog.Logger
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService, logger zerolog.Logger) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC, logger: logger}
}

// GetBalances handles GET /api/v1/groups/{id}/balances.
func (h *BalanceHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	balances, err := h.balanceUC.GetBalances(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromBalances(groupID, balances))
}

// CheckConsistency handles GET /api/v1/groups/{id}/consistency.
func (h *BalanceHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	result, err := h.balanceUC.CheckConsistency(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromConsistency(result))
}
