package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectops/internal/models"
	"projectops/internal/repositories"
)

type stubBudgetStore struct {
	budgets  []models.Budget
	expenses []models.Expense
	err      error
}

func (s *stubBudgetStore) ListBudgets(ctx context.Context, projectID uuid.UUID) ([]models.Budget, error) {
	return s.budgets, s.err
}

func (s *stubBudgetStore) ListExpenses(ctx context.Context, projectID uuid.UUID) ([]models.Expense, error) {
	return s.expenses, s.err
}

func (s *stubBudgetStore) Summary(ctx context.Context, projectID uuid.UUID) (*models.BudgetSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	var budgeted, spent float64
	for _, b := range s.budgets {
		budgeted += b.Amount
	}
	for _, e := range s.expenses {
		spent += e.Amount
	}
	return &models.BudgetSummary{ProjectID: projectID, Budgeted: budgeted, Spent: spent, Remaining: budgeted - spent}, nil
}

type stubRoleStore struct {
	roles []models.Role
	err   error
}

func (s stubRoleStore) List(ctx context.Context) ([]models.Role, error) {
	return s.roles, s.err
}

func TestBudgetService(t *testing.T) {
	ctx := context.Background()
	projects := repositories.NewMemoryProjectRepository()
	p := &models.Project{Name: "budgeted"}
	require.NoError(t, projects.Create(ctx, p))

	svc := NewBudgetService(&stubBudgetStore{}, projects)

	budgets, err := svc.ListBudgets(ctx, p.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, budgets, "empty list, never nil")

	expenses, err := svc.ListExpenses(ctx, p.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, expenses)

	svc = NewBudgetService(&stubBudgetStore{
		budgets:  []models.Budget{{Amount: 1000}, {Amount: 250}},
		expenses: []models.Expense{{Amount: 400}},
	}, projects)
	summary, err := svc.Summary(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1250.0, summary.Budgeted)
	assert.Equal(t, 850.0, summary.Remaining)

	_, err = svc.Summary(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListExpenses(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	svc = NewBudgetService(&stubBudgetStore{err: errors.New("relation \"budgets\" does not exist")}, projects)
	_, err = svc.ListBudgets(ctx, p.ID.String())
	assert.ErrorIs(t, err, ErrStoreRead)
}

func TestRoleService(t *testing.T) {
	ctx := context.Background()

	roles, err := NewRoleService(stubRoleStore{}).ListRoles(ctx)
	require.NoError(t, err)
	assert.NotNil(t, roles)

	_, err = NewRoleService(stubRoleStore{err: errors.New("boom")}).ListRoles(ctx)
	assert.ErrorIs(t, err, ErrStoreRead)
}

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMemoryUserRepository()
	admin := &models.User{Email: "admin@example.com", PasswordHash: "x"}
	member := &models.User{Email: "member@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, admin))
	require.NoError(t, users.Create(ctx, member))

	svc := NewUserService(users)

	updated, err := svc.UpdateRole(ctx, admin.ID.String(), member.ID.String(), UpdateRoleRequest{Role: " Manager "})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, updated.Role)

	_, err = svc.UpdateRole(ctx, admin.ID.String(), admin.ID.String(), UpdateRoleRequest{Role: "user"})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.UpdateRole(ctx, admin.ID.String(), member.ID.String(), UpdateRoleRequest{Role: "owner"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateRole(ctx, admin.ID.String(), uuid.NewString(), UpdateRoleRequest{Role: "user"})
	assert.ErrorIs(t, err, ErrNotFound)

	me, err := svc.Profile(ctx, admin.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, me.Role)

	_, err = svc.Profile(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	got, err := svc.GetUser(ctx, member.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "member@example.com", got.Email)

	_, err = svc.GetUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSyncService(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := NewSyncService(repositories.NewRedisRepository(rdb))
	svc.now = func() time.Time { return fixedNow }

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateNever, status.Status)

	_, err = svc.RequestSync(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	user := uuid.NewString()
	status, err = svc.RequestSync(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatePending, status.Status)
	assert.Equal(t, user, status.RequestedBy)

	_, err = svc.RequestSync(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.ReportResult(ctx, SyncResultRequest{Status: "exploded"})
	assert.ErrorIs(t, err, ErrValidation)

	status, err = svc.ReportResult(ctx, SyncResultRequest{Status: "succeeded", Message: "128 users"})
	require.NoError(t, err)
	assert.Equal(t, models.SyncStateSucceeded, status.Status)
	assert.Equal(t, "128 users", status.Message)
	require.NotNil(t, status.LastSyncedAt)
	assert.True(t, fixedNow.Equal(*status.LastSyncedAt))

	_, err = svc.RequestSync(ctx, user)
	require.NoError(t, err, "a finished sync can be requested again")
}

func TestServiceClocksAreUTC(t *testing.T) {
	clocks := map[string]func() time.Time{
		"project":   NewProjectService(nil, nil).now,
		"framework": NewFrameworkService(nil, nil, nil).now,
		"sync":      NewSyncService(nil).now,
	}
	for name, now := range clocks {
		assert.Equal(t, time.UTC, now().Location(), name)
	}
}
