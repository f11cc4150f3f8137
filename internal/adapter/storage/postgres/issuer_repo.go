package postgres

import (
	"context"
	"errors"
	"fmt"

	"echeck-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const issuerColumns = `id, email, password_hash, business_name, status, created_at, updated_at`

// IssuerRepo implements ports.IssuerRepository.
type IssuerRepo struct {
	pool Pool
}

// NewIssuerRepo creates a new IssuerRepo.
func NewIssuerRepo(pool Pool) *IssuerRepo {
	return &IssuerRepo{pool: pool}
}

// Create inserts a new issuer. A taken email yields ports.ErrDuplicateKey.
func (r *IssuerRepo) Create(ctx context.Context, i *domain.Issuer) error {
	query := `INSERT INTO issuers (` + issuerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		i.ID, i.Email, i.PasswordHash, i.BusinessName, i.Status, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return mapInsertErr("insert issuer", err)
	}
	return nil
}

// GetByID fetches an issuer by its UUID.
func (r *IssuerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Issuer, error) {
	query := `SELECT ` + issuerColumns + ` FROM issuers WHERE id = $1`
	return r.scanIssuer(r.pool.QueryRow(ctx, query, id), "get issuer by id")
}

// GetByEmail fetches an issuer by login email.
func (r *IssuerRepo) GetByEmail(ctx context.Context, email string) (*domain.Issuer, error) {
	query := `SELECT ` + issuerColumns + ` FROM issuers WHERE email = $1`
	return r.scanIssuer(r.pool.QueryRow(ctx, query, email), "get issuer by email")
}

// Update saves the mutable issuer fields.
func (r *IssuerRepo) Update(ctx context.Context, i *domain.Issuer) error {
	query := `UPDATE issuers SET business_name = $1, status = $2, updated_at = $3 WHERE id = $4`
	_, err := r.pool.Exec(ctx, query, i.BusinessName, i.Status, i.UpdatedAt, i.ID)
	if err != nil {
		return fmt.Errorf("update issuer: %w", err)
	}
	return nil
}

func (r *IssuerRepo) scanIssuer(row pgx.Row, op string) (*domain.Issuer, error) {
	i := &domain.Issuer{}
	err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.BusinessName, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return i, nil
}
