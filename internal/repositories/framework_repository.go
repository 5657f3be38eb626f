package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"projectops/internal/models"
	"projectops/internal/utils"
)

const (
	frameworkColumns = `id, code, name, manager_id, manager_name, biz_manager, "group", client_dept,
	created_at, updated_at, created_by, updated_by`

	frameworkCodeIndex  = "idx_frameworks_code"
	maxCodeAttempts     = 5
	frameworkCodeDigits = 4
)

type FrameworkRepository struct {
	pool *pgxpool.Pool
}

func NewFrameworkRepository(pool *pgxpool.Pool) *FrameworkRepository {
	return &FrameworkRepository{pool: pool}
}

func scanFramework(row pgx.Row) (*models.FrameworkAgreement, error) {
	var f models.FrameworkAgreement
	err := row.Scan(
		&f.ID,
		&f.Code,
		&f.Name,
		&f.ManagerID,
		&f.ManagerName,
		&f.BizManager,
		&f.Group,
		&f.ClientDept,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.CreatedBy,
		&f.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapPostgresError(err)
	}
	return &f, nil
}

// Create inserts the agreement and assigns its code. The next per-day sequence
// is computed by the INSERT itself; two concurrent creates can still pick the
// same number, in which case the unique index rejects one and it is retried.
func (r *FrameworkRepository) Create(ctx context.Context, f *models.FrameworkAgreement) error {
	f.Prepare()

	now := time.Now().UTC()
	prefix := utils.FrameworkCodePrefix(now)

	query := `
		INSERT INTO frameworks (id, code, name, manager_id, manager_name, biz_manager, "group", client_dept,
			created_at, updated_at, created_by, updated_by)
		SELECT $1, $2::text || lpad(s.seq::text, greatest($4::int, length(s.seq::text)), '0'),
			$5, $6, $7, $8, $9, $10, $11, $11, $12, $12
		FROM (
			SELECT coalesce(max(substring(code FROM $3::int)::int), 0) + 1 AS seq
			FROM frameworks
			WHERE code LIKE $2::text || '%'
		) s
		RETURNING ` + frameworkColumns

	var lastErr error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		created, err := scanFramework(r.pool.QueryRow(ctx, query,
			f.ID,
			prefix,
			len(prefix)+1,
			frameworkCodeDigits,
			f.Name,
			f.ManagerID,
			f.ManagerName,
			f.BizManager,
			f.Group,
			f.ClientDept,
			now,
			f.CreatedBy,
		))
		if err == nil {
			*f = *created
			return nil
		}
		if !isCodeConflict(err) {
			return err
		}

		lastErr = err
		log.Warn().Int("attempt", attempt).Str("prefix", prefix).Msg("framework code collision, retrying")
	}

	return fmt.Errorf("failed to allocate framework code after %d attempts: %w", maxCodeAttempts, lastErr)
}

func isCodeConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.Is(err, ErrDuplicate) && errors.As(err, &pgErr) && pgErr.ConstraintName == frameworkCodeIndex
}

func (r *FrameworkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FrameworkAgreement, error) {
	query := `SELECT ` + frameworkColumns + ` FROM frameworks WHERE id = $1`
	return scanFramework(r.pool.QueryRow(ctx, query, id))
}

func (r *FrameworkRepository) List(ctx context.Context) ([]models.FrameworkAgreement, error) {
	query := `SELECT ` + frameworkColumns + ` FROM frameworks ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	frameworks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.FrameworkAgreement, error) {
		f, err := scanFramework(row)
		if err != nil {
			return models.FrameworkAgreement{}, err
		}
		return *f, nil
	})
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return frameworks, nil
}

// Update writes the editable fields. The code column is never part of the statement.
func (r *FrameworkRepository) Update(ctx context.Context, f *models.FrameworkAgreement) (*models.FrameworkAgreement, error) {
	query := `
		UPDATE frameworks SET
			name = $2, manager_id = $3, manager_name = $4, biz_manager = $5, "group" = $6,
			client_dept = $7, updated_at = $8, updated_by = $9
		WHERE id = $1
		RETURNING ` + frameworkColumns

	return scanFramework(r.pool.QueryRow(ctx, query,
		f.ID,
		f.Name,
		f.ManagerID,
		f.ManagerName,
		f.BizManager,
		f.Group,
		f.ClientDept,
		f.UpdatedAt,
		f.UpdatedBy,
	))
}

// Delete reports whether a row was removed.
func (r *FrameworkRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM frameworks WHERE id = $1`, id)
	if err != nil {
		return false, mapPostgresError(err)
	}
	return result.RowsAffected() > 0, nil
}
