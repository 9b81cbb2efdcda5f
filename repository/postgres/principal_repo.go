package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/montasim/school-management-backend-sub003/repository"
)

type principalRepository struct {
	pool *pgxpool.Pool
}

// NewPrincipalRepository returns a Postgres-backed PrincipalRepository
// reading the admins table.
func NewPrincipalRepository(pool *pgxpool.Pool) repository.PrincipalRepository {
	return &principalRepository{pool: pool}
}

func (r *principalRepository) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
