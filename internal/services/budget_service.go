package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"projectops/internal/models"
)

type BudgetService struct {
	budgets  BudgetStore
	projects ProjectStore
}

func NewBudgetService(budgets BudgetStore, projects ProjectStore) *BudgetService {
	return &BudgetService{budgets: budgets, projects: projects}
}

// project resolves the project the budget reads are scoped to.
func (s *BudgetService) project(ctx context.Context, id string) (uuid.UUID, error) {
	pid, err := projectID(id)
	if err != nil {
		return uuid.Nil, err
	}
	p, err := s.projects.GetByID(ctx, pid)
	if err != nil {
		return uuid.Nil, storeRead(err)
	}
	if p == nil {
		return uuid.Nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return pid, nil
}

func (s *BudgetService) ListBudgets(ctx context.Context, projectID string) ([]models.Budget, error) {
	pid, err := s.project(ctx, projectID)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListBudgets(ctx, pid)
	if err != nil {
		return nil, storeRead(err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

func (s *BudgetService) ListExpenses(ctx context.Context, projectID string) ([]models.Expense, error) {
	pid, err := s.project(ctx, projectID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.budgets.ListExpenses(ctx, pid)
	if err != nil {
		return nil, storeRead(err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

func (s *BudgetService) Summary(ctx context.Context, projectID string) (*models.BudgetSummary, error) {
	pid, err := s.project(ctx, projectID)
	if err != nil {
		return nil, err
	}

	summary, err := s.budgets.Summary(ctx, pid)
	if err != nil {
		return nil, storeRead(err)
	}
	return summary, nil
}
