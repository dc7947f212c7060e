package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geosecure/geosecure-service/internal/domain"
)

// OtpRepository manages the one-time passcode ledger.
type OtpRepository interface {
	// Create persists a new passcode record and marks every prior unused
	// record for the same email as superseded, in one transaction.
	Create(ctx context.Context, record *domain.OtpRecord) error
	// LatestByEmail returns the most recently created record for the email.
	LatestByEmail(ctx context.Context, email string) (*domain.OtpRecord, error)
	// Consume flips used to true if and only if it is still false. The
	// returned bool reports whether this caller won the flip; it is the
	// serialization point for concurrent verifications.
	Consume(ctx context.Context, id string) (bool, error)
}

type otpRepository struct {
	pool *pgxpool.Pool
}

// NewOtpRepository constructs repository.
func NewOtpRepository(pool *pgxpool.Pool) OtpRepository {
	return &otpRepository{pool: pool}
}

func (r *otpRepository) Create(ctx context.Context, record *domain.OtpRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const supersede = `
        UPDATE otps SET superseded=true
        WHERE email=$1 AND used=false AND superseded=false`
	if _, err := tx.Exec(ctx, supersede, record.Email); err != nil {
		return err
	}

	const insert = `
        INSERT INTO otps (email, hash, salt, expires_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert,
		record.Email,
		record.Hash,
		record.Salt,
		record.ExpiresAt,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *otpRepository) LatestByEmail(ctx context.Context, email string) (*domain.OtpRecord, error) {
	const query = `
        SELECT id, email, hash, salt, expires_at, used, superseded, created_at
        FROM otps WHERE email=$1
        ORDER BY created_at DESC LIMIT 1`

	var record domain.OtpRecord
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&record.ID,
		&record.Email,
		&record.Hash,
		&record.Salt,
		&record.ExpiresAt,
		&record.Used,
		&record.Superseded,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *otpRepository) Consume(ctx context.Context, id string) (bool, error) {
	const query = `
        UPDATE otps SET used=true
        WHERE id=$1 AND used=false`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}
