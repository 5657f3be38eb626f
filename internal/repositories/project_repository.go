package repositories

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projectops/internal/models"
)

// status is a postgres enum, so it is read back as text and written with an explicit cast.
const projectColumns = `id, name, status::text, is_pending_entry, contract_amount::float8, framework_id,
	archived_at, archived_by, unarchived_by, created_at, updated_at`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var (
		project models.Project
		status  string
	)
	err := row.Scan(
		&project.ID,
		&project.Name,
		&status,
		&project.IsPendingEntry,
		&project.ContractAmount,
		&project.FrameworkID,
		&project.ArchivedAt,
		&project.ArchivedBy,
		&project.UnarchivedBy,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapPostgresError(err)
	}
	project.Status = models.ProjectStatus(status)
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.Prepare()

	query := `
		INSERT INTO projects (id, name, status, is_pending_entry, contract_amount, framework_id, created_at, updated_at)
		VALUES ($1, $2, $3::project_status_t, $4, $5, $6, $7, $7)
		RETURNING ` + projectColumns

	now := time.Now().UTC()
	created, err := scanProject(r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		string(project.Status),
		project.IsPendingEntry,
		project.ContractAmount,
		project.FrameworkID,
		now,
	))
	if err != nil {
		return err
	}

	*project = *created
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Archived != nil {
		if *filter.Archived {
			conds = append(conds, "archived_at IS NOT NULL")
		} else {
			conds = append(conds, "archived_at IS NULL")
		}
	}
	if filter.FrameworkID != nil {
		args = append(args, *filter.FrameworkID)
		conds = append(conds, "framework_id = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Project, error) {
		p, err := scanProject(row)
		if err != nil {
			return models.Project{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return projects, nil
}

// UpdateStatus sets the design confirmation status. Returns nil when the project does not exist.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus, at time.Time) (*models.Project, error) {
	query := `
		UPDATE projects SET status = $2::project_status_t, updated_at = $3
		WHERE id = $1
		RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query, id, string(status), at))
}

// MarkPendingEntry flags the project for review and overwrites its contract amount.
func (r *ProjectRepository) MarkPendingEntry(ctx context.Context, id uuid.UUID, amount float64, at time.Time) (*models.Project, error) {
	query := `
		UPDATE projects SET is_pending_entry = TRUE, contract_amount = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query, id, amount, at))
}

// Archive only matches projects that are not archived yet.
func (r *ProjectRepository) Archive(ctx context.Context, id, by uuid.UUID, at time.Time) (*models.Project, error) {
	query := `
		UPDATE projects SET archived_at = $3, archived_by = $2, updated_at = $3
		WHERE id = $1 AND archived_at IS NULL
		RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query, id, by, at))
}

// Unarchive only matches archived projects.
func (r *ProjectRepository) Unarchive(ctx context.Context, id, by uuid.UUID, at time.Time) (*models.Project, error) {
	query := `
		UPDATE projects SET archived_at = NULL, unarchived_by = $2, updated_at = $3
		WHERE id = $1 AND archived_at IS NOT NULL
		RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query, id, by, at))
}

func (r *ProjectRepository) SetFramework(ctx context.Context, id uuid.UUID, frameworkID *uuid.UUID, at time.Time) (*models.Project, error) {
	query := `
		UPDATE projects SET framework_id = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query, id, frameworkID, at))
}

func (r *ProjectRepository) ExistsByFrameworkID(ctx context.Context, frameworkID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE framework_id = $1)`
	if err := r.pool.QueryRow(ctx, query, frameworkID).Scan(&exists); err != nil {
		return false, mapPostgresError(err)
	}
	return exists, nil
}
