package ports

import (
	"context"
	"errors"
	"time"

	"echeck-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrDuplicateKey is returned by repositories when an insert violates a
// unique constraint.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrLockTimeout is returned when a row lock could not be taken within the
// transaction's lock timeout.
var ErrLockTimeout = errors.New("lock timeout")

// IssuerRepository defines persistence operations for issuers.
type IssuerRepository interface {
	Create(ctx context.Context, issuer *domain.Issuer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Issuer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Issuer, error)
	Update(ctx context.Context, issuer *domain.Issuer) error
}

// BankAccountRepository defines persistence operations for bank accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type BankAccountRepository interface {
	Create(ctx context.Context, account *domain.BankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error)
	ListByIssuer(ctx context.Context, issuerID uuid.UUID) ([]domain.BankAccount, error)
	Update(ctx context.Context, account *domain.BankAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasTransactions(ctx context.Context, id uuid.UUID) (bool, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BankAccount, error)
	AdvanceCheckNumber(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByReference(ctx context.Context, issuerID uuid.UUID, referenceID string) (*domain.Transaction, error)
	// UpdateStatus applies u only if the row is still in u.From and reports
	// whether a row changed.
	UpdateStatus(ctx context.Context, id uuid.UUID, u StatusUpdate) (bool, error)
	IncrementPrintCount(ctx context.Context, id uuid.UUID) (int, error)
	// Reporting queries
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, issuerID uuid.UUID, since *time.Time) (*domain.DashboardStats, error)
}

// StatusUpdate is a guarded status transition.
type StatusUpdate struct {
	From          domain.TransactionStatus
	To            domain.TransactionStatus
	ExternalID    *string
	FailureReason *string
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	IssuerID       uuid.UUID
	AccountID      *uuid.UUID
	Status         *domain.TransactionStatus
	DeliveryMethod *domain.DeliveryMethod
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

// IdempotencyRepository defines persistence for idempotency logs (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// InstrumentArchive stores rendered check snapshots, one document per print.
type InstrumentArchive interface {
	Save(ctx context.Context, record *domain.InstrumentPrint) error
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.InstrumentPrint, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
