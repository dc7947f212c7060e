package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geosecure/geosecure-service/internal/domain"
)

// IdentityRepository defines persistence access for registered identities.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	SetEnabled(ctx context.Context, email string, enabled bool) error
	SetRole(ctx context.Context, email string, role domain.Role) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (email, role, enabled)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		identity.Email,
		identity.Role,
		identity.Enabled,
	).Scan(&identity.CreatedAt)
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const query = `
        SELECT email, role, enabled, created_at
        FROM identities WHERE email=$1`

	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&identity.Email,
		&identity.Role,
		&identity.Enabled,
		&identity.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) SetEnabled(ctx context.Context, email string, enabled bool) error {
	const query = `UPDATE identities SET enabled=$1 WHERE email=$2`

	cmd, err := r.pool.Exec(ctx, query, enabled, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) SetRole(ctx context.Context, email string, role domain.Role) error {
	const query = `UPDATE identities SET role=$1 WHERE email=$2`

	cmd, err := r.pool.Exec(ctx, query, role, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
