package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository. The expenses and
// expense_shares tables are append-only: rows are inserted, never updated or
// deleted.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Append records an expense and its shares.
func (r *ExpenseRepository) Append(ctx context.Context, tx usecase.Transaction, expense *domain.SplitExpense) error {
	q := txQueryer(tx)

	_, err := q.Exec(ctx, `
		INSERT INTO expenses (id, group_id, payer_id, description, category, amount, split_type, expense_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Description, expense.Category,
		expense.Amount, string(expense.SplitType), expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return err
	}

	for i, share := range expense.Shares {
		_, err := q.Exec(ctx, `
			INSERT INTO expense_shares (expense_id, member_id, amount, position)
			VALUES ($1, $2, $3, $4)`,
			expense.ID, share.MemberID, share.Amount, i,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByGroup returns the group's full expense history, oldest first, with
// shares attached.
func (r *ExpenseRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.SplitExpense, error) {
	return listExpenses(ctx, r.pool, groupID)
}

// ListByGroupTx is ListByGroup inside a transaction.
func (r *ExpenseRepository) ListByGroupTx(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.SplitExpense, error) {
	return listExpenses(ctx, txQueryer(tx), groupID)
}

func listExpenses(ctx context.Context, q queryer, groupID string) ([]*domain.SplitExpense, error) {
	rows, err := q.Query(ctx, `
		SELECT id, group_id, payer_id, description, category, amount, split_type, expense_date, created_at
		FROM expenses WHERE group_id = $1 ORDER BY created_at, id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.SplitExpense
	byID := make(map[string]*domain.SplitExpense)
	for rows.Next() {
		var e domain.SplitExpense
		var splitType string
		err := rows.Scan(&e.ID, &e.GroupID, &e.PayerID, &e.Description, &e.Category,
			&e.Amount, &splitType, &e.Date, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		e.SplitType = domain.SplitType(splitType)
		expenses = append(expenses, &e)
		byID[e.ID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	shareRows, err := q.Query(ctx, `
		SELECT s.expense_id, s.member_id, s.amount
		FROM expense_shares s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.group_id = $1
		ORDER BY s.expense_id, s.position`, groupID)
	if err != nil {
		return nil, err
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID string
		var share domain.Share
		if err := shareRows.Scan(&expenseID, &share.MemberID, &share.Amount); err != nil {
			return nil, err
		}
		if e, ok := byID[expenseID]; ok {
			e.Shares = append(e.Shares, share)
		}
	}

	return expenses, shareRows.Err()
}
