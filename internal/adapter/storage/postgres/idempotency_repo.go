package postgres

import (
	"context"
	"errors"
	"fmt"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository. A log row pins an
// "issuer:reference" key to the payment it created and the response first
// returned for it.
type IdempotencyRepo struct {
	pool Pool
}

func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

// Create records the key inside the payment's transaction. A key that is
// already logged yields ports.ErrDuplicateKey without aborting tx.
func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.IdempotencyLog) error {
	query := `INSERT INTO idempotency_logs (key, transaction_id, response_json, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING`

	tag, err := tx.Exec(ctx, query, entry.Key, entry.TransactionID, entry.ResponseJSON, entry.CreatedAt)
	if err != nil {
		return mapInsertErr("insert idempotency log", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert idempotency log %q: %w", entry.Key, ports.ErrDuplicateKey)
	}
	return nil
}

// Get returns nil, nil for an unknown key.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	query := `SELECT key, transaction_id, response_json, created_at FROM idempotency_logs WHERE key = $1`

	entry := &domain.IdempotencyLog{}
	err := r.pool.QueryRow(ctx, query, key).Scan(&entry.Key, &entry.TransactionID, &entry.ResponseJSON, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency log: %w", err)
	}
	return entry, nil
}
