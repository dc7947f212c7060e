package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geosecure/geosecure-service/internal/domain"
)

// FileRepository persists uploaded file metadata.
type FileRepository interface {
	Create(ctx context.Context, file *domain.FileRecord) error
	GetByID(ctx context.Context, id string) (*domain.FileRecord, error)
	List(ctx context.Context, activeOnly bool) ([]domain.FileRecord, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetMinRole(ctx context.Context, id string, minRole domain.Role) error
}

type fileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository constructs repository.
func NewFileRepository(pool *pgxpool.Pool) FileRepository {
	return &fileRepository{pool: pool}
}

func (r *fileRepository) Create(ctx context.Context, file *domain.FileRecord) error {
	const query = `
        INSERT INTO files (id, filename, storage_key, active, min_role)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		file.ID,
		file.Filename,
		file.StorageKey,
		file.Active,
		file.MinRole,
	).Scan(&file.CreatedAt)
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*domain.FileRecord, error) {
	const query = `
        SELECT id, filename, storage_key, active, min_role, created_at
        FROM files WHERE id=$1`

	var file domain.FileRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.Filename,
		&file.StorageKey,
		&file.Active,
		&file.MinRole,
		&file.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) List(ctx context.Context, activeOnly bool) ([]domain.FileRecord, error) {
	query := `
        SELECT id, filename, storage_key, active, min_role, created_at
        FROM files ORDER BY created_at`
	if activeOnly {
		query = `
        SELECT id, filename, storage_key, active, min_role, created_at
        FROM files WHERE active=true ORDER BY created_at`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FileRecord
	for rows.Next() {
		var file domain.FileRecord
		if err := rows.Scan(
			&file.ID,
			&file.Filename,
			&file.StorageKey,
			&file.Active,
			&file.MinRole,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}

func (r *fileRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE files SET active=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *fileRepository) SetMinRole(ctx context.Context, id string, minRole domain.Role) error {
	const query = `UPDATE files SET min_role=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, minRole, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
