package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projectops/internal/models"
)

type BudgetRepository struct {
	pool *pgxpool.Pool
}

func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

func (r *BudgetRepository) ListBudgets(ctx context.Context, projectID uuid.UUID) ([]models.Budget, error) {
	query := `
		SELECT id, project_id, category, amount::float8, year, created_at
		FROM budgets WHERE project_id = $1
		ORDER BY year DESC, category
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	budgets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Budget, error) {
		var b models.Budget
		err := row.Scan(&b.ID, &b.ProjectID, &b.Category, &b.Amount, &b.Year, &b.CreatedAt)
		return b, err
	})
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return budgets, nil
}

func (r *BudgetRepository) ListExpenses(ctx context.Context, projectID uuid.UUID) ([]models.Expense, error) {
	query := `
		SELECT id, project_id, budget_id, description, amount::float8, spent_at, created_by, created_at
		FROM expenses WHERE project_id = $1
		ORDER BY spent_at DESC
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Expense, error) {
		var e models.Expense
		err := row.Scan(&e.ID, &e.ProjectID, &e.BudgetID, &e.Description, &e.Amount, &e.SpentAt, &e.CreatedBy, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return expenses, nil
}

// Summary totals a project's budgets and expenses in one round trip.
func (r *BudgetRepository) Summary(ctx context.Context, projectID uuid.UUID) (*models.BudgetSummary, error) {
	query := `
		SELECT b.total::float8, e.total::float8, (b.total - e.total)::float8
		FROM (SELECT coalesce(sum(amount), 0) AS total FROM budgets WHERE project_id = $1) b,
		     (SELECT coalesce(sum(amount), 0) AS total FROM expenses WHERE project_id = $1) e
	`

	summary := models.BudgetSummary{ProjectID: projectID}
	err := r.pool.QueryRow(ctx, query, projectID).Scan(&summary.Budgeted, &summary.Spent, &summary.Remaining)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return &summary, nil
}
