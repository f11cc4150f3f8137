package ports

import (
	"context"
	"time"

	"echeck-gateway/internal/check"
	"echeck-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(issuerID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	IssuerID uuid.UUID
	Email    string
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ChangeFeed fans account and transaction mutations out to an issuer's
// live subscribers.
type ChangeFeed interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	// Subscribe returns a channel that is closed when ctx ends or the
	// underlying subscription is lost.
	Subscribe(ctx context.Context, issuerID uuid.UUID) (<-chan domain.ChangeEvent, error)
}

// PayoutProvider executes electronic (ACH) payouts.
type PayoutProvider interface {
	Execute(ctx context.Context, req PayoutRequest) PayoutResult
}

// PayoutRequest carries everything the provider needs for one transfer.
type PayoutRequest struct {
	AmountCents            int64
	Currency               string
	PayerRoutingNumber     string
	PayerAccountNumber     string
	RecipientName          string
	RecipientRoutingNumber string
	RecipientAccountNumber string
	Description            string
}

// PayoutResult is the provider outcome. Error is set when Success is false.
type PayoutResult struct {
	Success bool
	ID      string
	Error   string
}

// MemoSuggester generates a short memo line.
type MemoSuggester interface {
	Suggest(ctx context.Context, req MemoRequest) (string, error)
}

// MemoRequest is the input to memo generation.
type MemoRequest struct {
	RecipientName string
	Amount        string
	Purpose       string
}

// --- Service Ports (Business Logic) ---

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Issuer, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for issuer registration.
type RegisterRequest struct {
	Email        string
	Password     string
	BusinessName string
}

// IssuerService manages the issuer profile.
type IssuerService interface {
	GetProfile(ctx context.Context, issuerID uuid.UUID) (*domain.Issuer, error)
	UpdateBusinessName(ctx context.Context, issuerID uuid.UUID, businessName string) (*domain.Issuer, error)
}

// AccountService manages linked bank accounts.
type AccountService interface {
	Link(ctx context.Context, req LinkAccountRequest) (*domain.BankAccount, error)
	List(ctx context.Context, issuerID uuid.UUID) ([]domain.BankAccount, error)
	Get(ctx context.Context, issuerID, accountID uuid.UUID) (*domain.BankAccount, error)
	Update(ctx context.Context, issuerID, accountID uuid.UUID, patch domain.BankAccountPatch) (*domain.BankAccount, error)
	Delete(ctx context.Context, issuerID, accountID uuid.UUID) error
}

// LinkAccountRequest holds validated input for linking a bank account.
type LinkAccountRequest struct {
	IssuerID          uuid.UUID
	BankName          string
	BankAddress       string
	RoutingNumber     string
	AccountNumber     string
	FractionalRouting *string
	StartCheckNumber  *int64
}

// PaymentService defines the payment business logic.
type PaymentService interface {
	SendPayment(ctx context.Context, req SendPaymentRequest) (*domain.Transaction, error)
	VoidCheck(ctx context.Context, issuerID, transactionID uuid.UUID) (*domain.Transaction, error)
}

// SendPaymentRequest holds validated input for sending a payment.
type SendPaymentRequest struct {
	IssuerID               uuid.UUID
	AccountID              uuid.UUID
	ReferenceID            string
	Amount                 decimal.Decimal
	RecipientName          string
	Memo                   string
	DeliveryMethod         domain.DeliveryMethod
	RecipientRoutingNumber string
	RecipientAccountNumber string
	SignatureData          string
}

// CheckService renders and prints check instruments.
type CheckService interface {
	GetInstrument(ctx context.Context, issuerID, transactionID uuid.UUID) (*check.Instrument, error)
	PrintInstrument(ctx context.Context, issuerID, transactionID uuid.UUID) (*domain.InstrumentPrint, error)
	ListPrints(ctx context.Context, issuerID, transactionID uuid.UUID) ([]domain.InstrumentPrint, error)
}

// MemoService suggests memo lines, never failing on collaborator errors.
type MemoService interface {
	Suggest(ctx context.Context, req MemoRequest) MemoSuggestion
}

// MemoSuggestion is a suggested memo and where it came from.
type MemoSuggestion struct {
	Memo   string `json:"memo"`
	Source string `json:"source"` // "ai" or "fallback"
}

// SignatureService produces and checks signature images.
type SignatureService interface {
	RenderTyped(name string) (string, error)
	Validate(data string) error
	// Normalize validates data and returns it without any data-URI prefix.
	Normalize(data string) (string, error)
}

// ReportingService defines dashboard/reporting business logic.
type ReportingService interface {
	GetDashboardStats(ctx context.Context, issuerID uuid.UUID, period string) (*domain.DashboardStats, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetTransaction(ctx context.Context, issuerID, transactionID uuid.UUID) (*domain.Transaction, error)
}

// AuditService records audit entries without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
