package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/adapter/http/dto"
	"github.com/divvyup/divvy/internal/domain"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	GetSuggestedSettlements(ctx context.Context, groupID string) ([]*domain.Settlement, error)
	ListSettlements(ctx context.Context, groupID string) ([]*domain.Settlement, error)
	ConfirmSettlement(ctx context.Context, settlementID string) (*domain.Settlement, error)
	RecomputeSettlements(ctx context.Context, groupID string) ([]*domain.Settlement, error)
}

// SettlementHandler serves settlement endpoints.
type SettlementHandler struct {
	settlementUC SettlementService
	logger       zerolog.Logger
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService, logger zerolog.Logger) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC, logger: logger}
}

// ListByGroup handles GET /api/v1/groups/{id}/settlements. With
// ?status=pending only the current suggestions are returned.
func (h *SettlementHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	var (
		settlements []*domain.Settlement
		err         error
	)
	switch status := r.URL.Query().Get("status"); status {
	case "":
		settlements, err = h.settlementUC.ListSettlements(r.Context(), groupID)
	case string(domain.SettlementStatusPending):
		settlements, err = h.settlementUC.GetSuggestedSettlements(r.Context(), groupID)
	default:
		writeError(w, http.StatusBadRequest, "unknown settlement status: "+status)
		return
	}
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromSettlements(settlements))
}

// Confirm handles POST /api/v1/settlements/{id}/confirm.
func (h *SettlementHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.settlementUC.ConfirmSettlement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromSettlement(settlement))
}

// Recompute handles POST /api/v1/groups/{id}/settlements/recompute.
func (h *SettlementHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.settlementUC.RecomputeSettlements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromSettlements(settlements))
}
