package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projectops/internal/models"
)

const userColumns = `id, email, password_hash, name, role, created_at, last_login_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapPostgresError(err)
	}
	return &user, nil
}

// Create inserts the user. When no role is set, the first account in the
// table becomes admin and every later one a plain user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Prepare()

	query := `
		INSERT INTO users (id, email, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4,
			coalesce(nullif($5::text, ''), CASE WHEN EXISTS(SELECT 1 FROM users) THEN 'user' ELSE 'admin' END),
			$6)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		time.Now().UTC(),
	))
	if err != nil {
		return err
	}

	*user = *created
	return nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name, email`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return models.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return users, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return mapPostgresError(err)
}

// UpdateRole changes a user's role. The role must exist in the roles table.
func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	query := `UPDATE users SET role = $2 WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, role))
}
