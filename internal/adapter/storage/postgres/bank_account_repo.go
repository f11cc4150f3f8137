package postgres

import (
	"context"
	"errors"
	"fmt"

	"echeck-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bankAccountColumns = `id, issuer_id, bank_name, bank_address, routing_number, account_number_enc,
	account_last4, fractional_routing, next_check_number, created_at, updated_at`

// BankAccountRepo implements ports.BankAccountRepository.
type BankAccountRepo struct {
	pool Pool
}

// NewBankAccountRepo creates a new BankAccountRepo.
func NewBankAccountRepo(pool Pool) *BankAccountRepo {
	return &BankAccountRepo{pool: pool}
}

// Create inserts a new bank account.
func (r *BankAccountRepo) Create(ctx context.Context, a *domain.BankAccount) error {
	query := `INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.IssuerID, a.BankName, a.BankAddress, a.RoutingNumber, a.AccountNumberEnc,
		a.AccountLast4, a.FractionalRouting, a.NextCheckNumber, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapInsertErr("insert bank account", err)
	}
	return nil
}

// GetByID fetches a bank account by its UUID (without locking).
func (r *BankAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE id = $1`
	return scanBankAccount(r.pool.QueryRow(ctx, query, id), "get bank account by id")
}

// ListByIssuer returns the issuer's accounts, oldest first.
func (r *BankAccountRepo) ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE issuer_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, issuerID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows, "scan bank account row")
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bank account rows: %w", err)
	}
	return accounts, nil
}

// Update saves the editable account fields.
func (r *BankAccountRepo) Update(ctx context.Context, a *domain.BankAccount) error {
	query := `UPDATE bank_accounts
		SET bank_name = $1, bank_address = $2, fractional_routing = $3, updated_at = $4
		WHERE id = $5`
	_, err := r.pool.Exec(ctx, query, a.BankName, a.BankAddress, a.FractionalRouting, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	return nil
}

func (r *BankAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	return nil
}

// HasTransactions reports whether any transaction was drawn on the account.
func (r *BankAccountRepo) HasTransactions(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE account_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account transactions: %w", err)
	}
	return exists, nil
}

// GetByIDForUpdate locks the account row (SELECT ... FOR UPDATE) so check
// numbers are handed out one at a time.
func (r *BankAccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE id = $1 FOR UPDATE`
	a, err := scanBankAccount(tx.QueryRow(ctx, query, id), "get bank account for update")
	if err != nil {
		return nil, mapLockErr(err)
	}
	return a, nil
}

// AdvanceCheckNumber consumes the account's next check number.
func (r *BankAccountRepo) AdvanceCheckNumber(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE bank_accounts SET next_check_number = next_check_number + 1, updated_at = NOW() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("advance check number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bank account not found: %s", id)
	}
	return nil
}

func scanBankAccount(row pgx.Row, op string) (*domain.BankAccount, error) {
	a := &domain.BankAccount{}
	err := row.Scan(
		&a.ID, &a.IssuerID, &a.BankName, &a.BankAddress, &a.RoutingNumber, &a.AccountNumberEnc,
		&a.AccountLast4, &a.FractionalRouting, &a.NextCheckNumber, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
