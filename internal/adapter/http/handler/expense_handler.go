package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/adapter/http/dto"
	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	AddExpense(ctx context.Context, input usecase.AddExpenseInput) (*domain.SplitExpense, error)
	ListExpenses(ctx context.Context, groupID string) ([]*domain.SplitExpense, error)
}

// ExpenseHandler serves expense endpoints.
type ExpenseHandler struct {
	expenseUC ExpenseService
	logger    zerolog.Logger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService, logger zerolog.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC, logger: logger}
}

// Create handles POST /api/v1/groups/{id}/expenses. Recording the expense
// also regenerates the group's settlement suggestions in the same
// transaction.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AddExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	expense, err := h.expenseUC.AddExpense(r.Context(), input)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FromExpense(expense))
}

// List handles GET /api/v1/groups/{id}/expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseUC.ListExpenses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromExpenses(expenses))
}
