package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, issuer_id, account_id, reference_id, amount, currency, recipient_name, memo,
	check_number, delivery_method, status, recipient_routing_number, recipient_account_enc,
	recipient_account_last4, external_id, failure_reason, signature_data, print_count,
	initiated_at, processed_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction within a database transaction. A reused
// reference or check number yields ports.ErrDuplicateKey.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.IssuerID, t.AccountID, t.ReferenceID, t.Amount, t.Currency, t.RecipientName, t.Memo,
		t.CheckNumber, t.DeliveryMethod, t.Status, t.RecipientRoutingNumber, t.RecipientAccountEnc,
		t.RecipientAccountLast4, t.ExternalID, t.FailureReason, t.SignatureData, t.PrintCount,
		t.InitiatedAt, t.ProcessedAt,
	)
	if err != nil {
		return mapInsertErr("insert transaction", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByReference fetches a transaction by issuer ID and reference ID.
func (r *TransactionRepo) GetByReference(ctx context.Context, issuerID uuid.UUID, referenceID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE issuer_id = $1 AND reference_id = $2`
	return scanTransaction(r.pool.QueryRow(ctx, query, issuerID, referenceID))
}

// UpdateStatus moves a transaction from u.From to u.To. Nil outcome fields
// keep their stored values.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, u ports.StatusUpdate) (bool, error) {
	query := `UPDATE transactions
		SET status = $1,
			external_id = COALESCE($2, external_id),
			failure_reason = COALESCE($3, failure_reason),
			processed_at = $4
		WHERE id = $5 AND status = $6`

	tag, err := r.pool.Exec(ctx, query, u.To, u.ExternalID, u.FailureReason, time.Now().UTC(), id, u.From)
	if err != nil {
		return false, fmt.Errorf("update transaction status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementPrintCount bumps print_count and returns the new value, which
// numbers the print.
func (r *TransactionRepo) IncrementPrintCount(ctx context.Context, id uuid.UUID) (int, error) {
	query := `UPDATE transactions SET print_count = print_count + 1 WHERE id = $1 RETURNING print_count`

	var count int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment print count: %w", err)
	}
	return count, nil
}

// List fetches transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	add := func(cond string, v any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, v)
		argIdx++
	}

	add("issuer_id = $%d", params.IssuerID)
	if params.AccountID != nil {
		add("account_id = $%d", *params.AccountID)
	}
	if params.Status != nil {
		add("status = $%d", *params.Status)
	}
	if params.DeliveryMethod != nil {
		add("delivery_method = $%d", *params.DeliveryMethod)
	}
	if params.From != nil {
		add("initiated_at >= $%d", *params.From)
	}
	if params.To != nil {
		add("initiated_at <= $%d", *params.To)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+transactionColumns+`
		FROM transactions %s ORDER BY initiated_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// GetStats aggregates the issuer's transactions, optionally since a time.
// Amount totals count SUCCESS transactions only.
func (r *TransactionRepo) GetStats(ctx context.Context, issuerID uuid.UUID, since *time.Time) (*domain.DashboardStats, error) {
	condition := "issuer_id = $1"
	args := []any{issuerID}
	if since != nil {
		condition += " AND initiated_at >= $2"
		args = append(args, *since)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'SUCCESS') AS successful,
		COUNT(*) FILTER (WHERE status = 'PENDING') AS pending,
		COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
		COUNT(*) FILTER (WHERE status = 'VOIDED') AS voided,
		COALESCE(SUM(amount) FILTER (WHERE status = 'SUCCESS'), 0) AS paid,
		COUNT(*) FILTER (WHERE delivery_method = 'print') AS print_count,
		COALESCE(SUM(amount) FILTER (WHERE delivery_method = 'print' AND status = 'SUCCESS'), 0) AS print_paid,
		COUNT(*) FILTER (WHERE delivery_method = 'stripe') AS stripe_count,
		COALESCE(SUM(amount) FILTER (WHERE delivery_method = 'stripe' AND status = 'SUCCESS'), 0) AS stripe_paid
		FROM transactions WHERE %s`, condition)

	stats := &domain.DashboardStats{}
	var printed, stripe domain.DeliveryStats
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalTransactions, &stats.Successful, &stats.Pending, &stats.Failed, &stats.Voided,
		&stats.TotalPaid, &printed.Count, &printed.TotalAmount, &stripe.Count, &stripe.TotalAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	stats.ByDelivery = map[domain.DeliveryMethod]domain.DeliveryStats{
		domain.DeliveryPrint:  printed,
		domain.DeliveryStripe: stripe,
	}
	return stats, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.IssuerID, &t.AccountID, &t.ReferenceID, &t.Amount, &t.Currency, &t.RecipientName, &t.Memo,
		&t.CheckNumber, &t.DeliveryMethod, &t.Status, &t.RecipientRoutingNumber, &t.RecipientAccountEnc,
		&t.RecipientAccountLast4, &t.ExternalID, &t.FailureReason, &t.SignatureData, &t.PrintCount,
		&t.InitiatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
