package handler_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Issuer Repo ---

type inMemoryIssuerRepo struct {
	mu      sync.RWMutex
	issuers map[uuid.UUID]domain.Issuer
}

func newInMemoryIssuerRepo() *inMemoryIssuerRepo {
	return &inMemoryIssuerRepo{issuers: make(map[uuid.UUID]domain.Issuer)}
}

func (r *inMemoryIssuerRepo) Create(_ context.Context, i *domain.Issuer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.issuers {
		if strings.EqualFold(existing.Email, i.Email) {
			return ports.ErrDuplicateKey
		}
	}
	r.issuers[i.ID] = *i
	return nil
}

func (r *inMemoryIssuerRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Issuer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.issuers[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *inMemoryIssuerRepo) GetByEmail(_ context.Context, email string) (*domain.Issuer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.issuers {
		if strings.EqualFold(i.Email, email) {
			return &i, nil
		}
	}
	return nil, nil
}

func (r *inMemoryIssuerRepo) Update(_ context.Context, i *domain.Issuer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issuers[i.ID]; !ok {
		return fmt.Errorf("issuer not found")
	}
	r.issuers[i.ID] = *i
	return nil
}

// --- In-Memory Bank Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]domain.BankAccount
	txRepo   *inMemoryTransactionRepo
}

func newInMemoryAccountRepo(txRepo *inMemoryTransactionRepo) *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]domain.BankAccount), txRepo: txRepo}
}

func (r *inMemoryAccountRepo) Create(_ context.Context, a *domain.BankAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = *a
	return nil
}

func (r *inMemoryAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *inMemoryAccountRepo) ListByIssuer(_ context.Context, issuerID uuid.UUID) ([]domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.BankAccount{}
	for _, a := range r.accounts {
		if a.IssuerID == issuerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryAccountRepo) Update(_ context.Context, a *domain.BankAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[a.ID]
	if !ok {
		return fmt.Errorf("bank account not found")
	}
	stored.BankName = a.BankName
	stored.BankAddress = a.BankAddress
	stored.FractionalRouting = a.FractionalRouting
	stored.UpdatedAt = a.UpdatedAt
	r.accounts[a.ID] = stored
	return nil
}

func (r *inMemoryAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *inMemoryAccountRepo) HasTransactions(_ context.Context, id uuid.UUID) (bool, error) {
	return r.txRepo.countByAccount(id) > 0, nil
}

// GetByIDForUpdate relies on inMemoryTransactor serialising transactions.
func (r *inMemoryAccountRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.BankAccount, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryAccountRepo) AdvanceCheckNumber(_ context.Context, tx pgx.Tx, id uuid.UUID) error {
	if err := r.shiftCheckNumber(id, 1); err != nil {
		return err
	}
	if st, ok := tx.(*serialTx); ok {
		st.onRollback(func() { _ = r.shiftCheckNumber(id, -1) })
	}
	return nil
}

func (r *inMemoryAccountRepo) shiftCheckNumber(id uuid.UUID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("bank account not found")
	}
	a.NextCheckNumber += delta
	r.accounts[id] = a
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(_ context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.transactions {
		if existing.IssuerID == t.IssuerID && existing.ReferenceID == t.ReferenceID {
			return ports.ErrDuplicateKey
		}
	}
	r.transactions[t.ID] = *t
	if st, ok := tx.(*serialTx); ok {
		id := t.ID
		st.onRollback(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.transactions, id)
		})
	}
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *inMemoryTransactionRepo) GetByReference(_ context.Context, issuerID uuid.UUID, referenceID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.transactions {
		if t.IssuerID == issuerID && t.ReferenceID == referenceID {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(_ context.Context, id uuid.UUID, u ports.StatusUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok || t.Status != u.From {
		return false, nil
	}
	now := time.Now().UTC()
	t.Status = u.To
	t.ProcessedAt = &now
	if u.ExternalID != nil {
		t.ExternalID = u.ExternalID
	}
	if u.FailureReason != nil {
		t.FailureReason = u.FailureReason
	}
	r.transactions[id] = t
	return true, nil
}

func (r *inMemoryTransactionRepo) IncrementPrintCount(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return 0, fmt.Errorf("transaction not found")
	}
	t.PrintCount++
	r.transactions[id] = t
	return t.PrintCount, nil
}

func (r *inMemoryTransactionRepo) List(_ context.Context, p ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Transaction
	for _, t := range r.transactions {
		switch {
		case t.IssuerID != p.IssuerID,
			p.AccountID != nil && t.AccountID != *p.AccountID,
			p.Status != nil && t.Status != *p.Status,
			p.DeliveryMethod != nil && t.DeliveryMethod != *p.DeliveryMethod,
			p.From != nil && t.InitiatedAt.Before(*p.From),
			p.To != nil && t.InitiatedAt.After(*p.To):
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].InitiatedAt.After(matched[j].InitiatedAt) })

	total := int64(len(matched))
	start := (p.Page - 1) * p.PageSize
	if start >= len(matched) {
		return []domain.Transaction{}, total, nil
	}
	end := start + p.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *inMemoryTransactionRepo) GetStats(_ context.Context, issuerID uuid.UUID, since *time.Time) (*domain.DashboardStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.DashboardStats{ByDelivery: map[domain.DeliveryMethod]domain.DeliveryStats{}}
	for _, t := range r.transactions {
		if t.IssuerID != issuerID || (since != nil && t.InitiatedAt.Before(*since)) {
			continue
		}
		stats.TotalTransactions++
		ds := stats.ByDelivery[t.DeliveryMethod]
		ds.Count++
		switch t.Status {
		case domain.TransactionStatusSuccess:
			stats.Successful++
			stats.TotalPaid += t.Amount
			ds.TotalAmount += t.Amount
		case domain.TransactionStatusPending:
			stats.Pending++
		case domain.TransactionStatusFailed:
			stats.Failed++
		case domain.TransactionStatusVoided:
			stats.Voided++
		}
		stats.ByDelivery[t.DeliveryMethod] = ds
	}
	return stats, nil
}

func (r *inMemoryTransactionRepo) countByAccount(accountID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.transactions {
		if t.AccountID == accountID {
			n++
		}
	}
	return n
}

func (r *inMemoryTransactionRepo) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transactions)
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(_ context.Context, _ pgx.Tx, l *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[l.Key]; ok {
		return ports.ErrDuplicateKey
	}
	r.logs[l.Key] = *l
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(_ context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor runs one transaction at a time, standing in for the
// row lock SELECT ... FOR UPDATE takes on the drawn account.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: t.mu.Unlock}, nil
}

// serialTx is a pgx.Tx that releases the transactor lock and undoes its
// writes on Rollback. Commit and Rollback may both be called; only the first
// one counts.
type serialTx struct {
	once    sync.Once
	release func()
	undo    []func()
}

func (t *serialTx) onRollback(f func()) { t.undo = append(t.undo, f) }

func (t *serialTx) finish(commit bool) {
	t.once.Do(func() {
		if !commit {
			for i := len(t.undo) - 1; i >= 0; i-- {
				t.undo[i]()
			}
		}
		t.release()
	})
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.finish(true); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.finish(false); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *inMemoryAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *inMemoryAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}
