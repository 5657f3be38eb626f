package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"projectops/internal/models"
)

// ProjectStore is the project half of the record store. Methods that address a
// single row return nil, nil when no row matched.
type ProjectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus, at time.Time) (*models.Project, error)
	MarkPendingEntry(ctx context.Context, id uuid.UUID, amount float64, at time.Time) (*models.Project, error)
	Archive(ctx context.Context, id, by uuid.UUID, at time.Time) (*models.Project, error)
	Unarchive(ctx context.Context, id, by uuid.UUID, at time.Time) (*models.Project, error)
	SetFramework(ctx context.Context, id uuid.UUID, frameworkID *uuid.UUID, at time.Time) (*models.Project, error)
	ExistsByFrameworkID(ctx context.Context, frameworkID uuid.UUID) (bool, error)
}

type FrameworkStore interface {
	Create(ctx context.Context, f *models.FrameworkAgreement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FrameworkAgreement, error)
	List(ctx context.Context) ([]models.FrameworkAgreement, error)
	Update(ctx context.Context, f *models.FrameworkAgreement) (*models.FrameworkAgreement, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
}

type RoleStore interface {
	List(ctx context.Context) ([]models.Role, error)
}

type BudgetStore interface {
	ListBudgets(ctx context.Context, projectID uuid.UUID) ([]models.Budget, error)
	ListExpenses(ctx context.Context, projectID uuid.UUID) ([]models.Expense, error)
	Summary(ctx context.Context, projectID uuid.UUID) (*models.BudgetSummary, error)
}

// TokenBlacklist revokes token IDs until they would have expired anyway.
type TokenBlacklist interface {
	Blacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

type SyncStatusStore interface {
	GetSyncStatus(ctx context.Context) (models.SyncStatus, error)
	ClaimSync(ctx context.Context, requestedBy string, at time.Time) (models.SyncStatus, bool, error)
	SetSyncResult(ctx context.Context, state models.SyncState, message string, at time.Time) error
}
