package models

import (
	"time"

	"github.com/google/uuid"
)

type Budget struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
}

type Expense struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"projectId"`
	BudgetID    *uuid.UUID `json:"budgetId,omitempty"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	SpentAt     time.Time  `json:"spentAt"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// BudgetSummary is the budget total of a project against what has been spent.
type BudgetSummary struct {
	ProjectID uuid.UUID `json:"projectId"`
	Budgeted  float64   `json:"budgeted"`
	Spent     float64   `json:"spent"`
	Remaining float64   `json:"remaining"`
}
