package repository

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdempotencyRepository interface {
	CheckOrCreate(ctx context.Context, key string, reservationID int64) (existingReservationID int64, err error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type idempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) IdempotencyRepository {
	return &idempotencyRepository{pool: pool}
}

// CheckOrCreate returns the reservation previously recorded under the
// key, or records the given reservation when the key is new. Keys are
// hashed before storage.
func (r *idempotencyRepository) CheckOrCreate(ctx context.Context, key string, reservationID int64) (int64, error) {
	hasher := sha256.New()
	hasher.Write([]byte(key))
	keyHash := fmt.Sprintf("%x", hasher.Sum(nil))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var existingID int64
	const checkQuery = `SELECT reservation_id FROM reservation_idempotency WHERE key_hash = $1`
	err := r.pool.QueryRow(ctx, checkQuery, keyHash).Scan(&existingID)

	if err == nil {
		return existingID, nil
	}

	if err != pgx.ErrNoRows {
		return 0, err
	}

	if reservationID > 0 {
		const insertQuery = `
			INSERT INTO reservation_idempotency (key_hash, reservation_id, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key_hash) DO NOTHING`

		expiresAt := time.Now().Add(24 * time.Hour)
		if _, err := r.pool.Exec(ctx, insertQuery, keyHash, reservationID, expiresAt); err != nil {
			return 0, err
		}
	}

	return 0, nil
}

func (r *idempotencyRepository) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	const query = `DELETE FROM reservation_idempotency WHERE expires_at < now()`
	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
