//go:build integration

package repositories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"projectops/internal/database"
	"projectops/internal/models"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("projectops"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connString, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, database.RunMigrations(ctx, pool))

	return pool
}

func createTestUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "argon2id$test", Name: strings.Split(email, "@")[0]}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestIntegration_ProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t)

	users := NewUserRepository(pool)
	projects := NewProjectRepository(pool)
	frameworks := NewFrameworkRepository(pool)

	actor := createTestUser(t, users, "pm@example.com")

	p := &models.Project{Name: "P1"}
	require.NoError(t, projects.Create(ctx, p))
	assert.Equal(t, models.ProjectStatusPendingConfirmation, p.Status)
	assert.False(t, p.IsPendingEntry)
	assert.False(t, p.Archived())

	at := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("design confirm", func(t *testing.T) {
		updated, err := projects.UpdateStatus(ctx, p.ID, models.ProjectStatusConfirmed, at)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.ProjectStatusConfirmed, updated.Status)
		assert.Zero(t, updated.ContractAmount)
		assert.True(t, at.Equal(updated.UpdatedAt))
	})

	t.Run("pending entry keeps status", func(t *testing.T) {
		updated, err := projects.MarkPendingEntry(ctx, p.ID, 15000, at)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, updated.IsPendingEntry)
		assert.Equal(t, 15000.0, updated.ContractAmount)
		assert.Equal(t, models.ProjectStatusConfirmed, updated.Status)
	})

	t.Run("negative amount rejected by check constraint", func(t *testing.T) {
		_, err := projects.MarkPendingEntry(ctx, p.ID, -1, at)
		assert.ErrorIs(t, err, ErrConstraint)
	})

	t.Run("amount stored exactly at two decimals", func(t *testing.T) {
		updated, err := projects.MarkPendingEntry(ctx, p.ID, 12.34, at)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, 12.34, updated.ContractAmount)

		updated, err = projects.MarkPendingEntry(ctx, p.ID, models.MaxContractAmount, at)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.MaxContractAmount, updated.ContractAmount)
	})

	t.Run("amount overflowing the column is a constraint error", func(t *testing.T) {
		_, err := projects.MarkPendingEntry(ctx, p.ID, 1e14, at)
		assert.ErrorIs(t, err, ErrConstraint)
	})

	t.Run("archive guards", func(t *testing.T) {
		none, err := projects.Unarchive(ctx, p.ID, actor.ID, at)
		require.NoError(t, err)
		assert.Nil(t, none)

		archived, err := projects.Archive(ctx, p.ID, actor.ID, at)
		require.NoError(t, err)
		require.NotNil(t, archived)
		assert.True(t, archived.Archived())

		restored, err := projects.Unarchive(ctx, p.ID, actor.ID, at)
		require.NoError(t, err)
		require.NotNil(t, restored)
		assert.False(t, restored.Archived())
		assert.Equal(t, actor.ID, *restored.UnarchivedBy)
	})

	t.Run("unknown project matches nothing", func(t *testing.T) {
		updated, err := projects.UpdateStatus(ctx, uuid.New(), models.ProjectStatusConfirmed, at)
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("framework association", func(t *testing.T) {
		f := &models.FrameworkAgreement{Name: "2026 framework", ManagerID: actor.ID, ManagerName: actor.Name}
		require.NoError(t, frameworks.Create(ctx, f))

		linked, err := projects.ExistsByFrameworkID(ctx, f.ID)
		require.NoError(t, err)
		assert.False(t, linked)

		_, err = projects.SetFramework(ctx, p.ID, &f.ID, at)
		require.NoError(t, err)

		linked, err = projects.ExistsByFrameworkID(ctx, f.ID)
		require.NoError(t, err)
		assert.True(t, linked)

		_, err = frameworks.Delete(ctx, f.ID)
		assert.ErrorIs(t, err, ErrStillReferenced)

		missing := uuid.New()
		_, err = projects.SetFramework(ctx, p.ID, &missing, at)
		assert.ErrorIs(t, err, ErrReferenceMissing)
	})
}

func TestIntegration_FrameworkCodes(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t)

	users := NewUserRepository(pool)
	frameworks := NewFrameworkRepository(pool)
	manager := createTestUser(t, users, "manager@example.com")

	prefix := "FRAM-" + time.Now().UTC().Format("20060102") + "-"

	var codes []string
	for i := 0; i < 3; i++ {
		f := &models.FrameworkAgreement{Name: "agreement", ManagerID: manager.ID, ManagerName: manager.Name}
		require.NoError(t, frameworks.Create(ctx, f))
		codes = append(codes, f.Code)
	}
	assert.Equal(t, []string{prefix + "0001", prefix + "0002", prefix + "0003"}, codes)

	f, err := frameworks.GetByID(ctx, mustFrameworkID(t, frameworks))
	require.NoError(t, err)
	require.NotNil(t, f)

	f.Name = "renamed"
	f.UpdatedAt = time.Now().UTC()
	updated, err := frameworks.Update(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, f.Code, updated.Code)

	dangling := &models.FrameworkAgreement{Name: "orphan", ManagerID: uuid.New()}
	assert.ErrorIs(t, frameworks.Create(ctx, dangling), ErrReferenceMissing)

	deleted, err := frameworks.Delete(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func mustFrameworkID(t *testing.T, repo *FrameworkRepository) uuid.UUID {
	t.Helper()
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return list[0].ID
}

func TestIntegration_UsersAndRoles(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t)

	users := NewUserRepository(pool)
	first := createTestUser(t, users, "first@example.com")
	second := createTestUser(t, users, "second@example.com")
	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.Equal(t, models.RoleUser, second.Role)

	err := users.Create(ctx, &models.User{Email: "first@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := users.FindUserByEmail(ctx, "second@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, second.ID, found.ID)

	require.NoError(t, users.UpdateLastLogin(ctx, second.ID, time.Now().UTC()))
	found, err = users.FindUserByID(ctx, second.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.LastLoginAt)

	roles, err := NewRoleRepository(pool).List(ctx)
	require.NoError(t, err)
	var names []string
	for _, r := range roles {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"admin", "manager", "user"}, names)
}

func TestIntegration_BudgetSummary(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t)

	projects := NewProjectRepository(pool)
	budgets := NewBudgetRepository(pool)

	p := &models.Project{Name: "budgeted"}
	require.NoError(t, projects.Create(ctx, p))

	empty, err := budgets.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.Budgeted)
	assert.Zero(t, empty.Remaining)

	_, err = pool.Exec(ctx, `INSERT INTO budgets (project_id, category, amount, year) VALUES ($1, 'labour', 1000.50, 2026), ($1, 'material', 500, 2026)`, p.ID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO expenses (project_id, description, amount) VALUES ($1, 'cable', 300.25)`, p.ID)
	require.NoError(t, err)

	summary, err := budgets.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1500.50, summary.Budgeted, 0.001)
	assert.InDelta(t, 300.25, summary.Spent, 0.001)
	assert.InDelta(t, 1200.25, summary.Remaining, 0.001)

	list, err := budgets.ListBudgets(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	expenses, err := budgets.ListExpenses(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "cable", expenses[0].Description)
}
