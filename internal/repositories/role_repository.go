package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projectops/internal/models"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	roles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Role, error) {
		var role models.Role
		err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt)
		return role, err
	})
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return roles, nil
}
