package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geosecure/geosecure-service/internal/domain"
)

// BoundaryRepository manages the single active geofence row.
type BoundaryRepository interface {
	// Replace atomically swaps the boundary. A concurrent reader never
	// observes zero or two rows mid-update.
	Replace(ctx context.Context, boundary *domain.Boundary) error
	// Get returns the active boundary, or nil when none is configured.
	Get(ctx context.Context) (*domain.Boundary, error)
}

type boundaryRepository struct {
	pool *pgxpool.Pool
}

// NewBoundaryRepository constructs repository.
func NewBoundaryRepository(pool *pgxpool.Pool) BoundaryRepository {
	return &boundaryRepository{pool: pool}
}

func (r *boundaryRepository) Replace(ctx context.Context, boundary *domain.Boundary) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM boundary`); err != nil {
		return err
	}

	const insert = `
        INSERT INTO boundary (lat, lon, radius_m)
        VALUES ($1,$2,$3)
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, insert,
		boundary.Lat,
		boundary.Lon,
		boundary.RadiusM,
	).Scan(&boundary.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *boundaryRepository) Get(ctx context.Context) (*domain.Boundary, error) {
	const query = `
        SELECT lat, lon, radius_m, updated_at
        FROM boundary LIMIT 1`

	var boundary domain.Boundary
	if err := r.pool.QueryRow(ctx, query).Scan(
		&boundary.Lat,
		&boundary.Lon,
		&boundary.RadiusM,
		&boundary.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &boundary, nil
}
