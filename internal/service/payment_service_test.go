package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/internal/core/ports/mocks"
	"echeck-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentTestDeps struct {
	svc         *PaymentServiceImpl
	txRepo      *mocks.MockTransactionRepository
	accountRepo *mocks.MockBankAccountRepository
	idempRepo   *mocks.MockIdempotencyRepository
	idempCache  *mocks.MockIdempotencyCache
	encSvc      *mocks.MockEncryptionService
	sigSvc      *mocks.MockSignatureService
	payout      *mocks.MockPayoutProvider
	transactor  *mocks.MockDBTransactor
	feed        *mocks.MockChangeFeed
}

func setupPaymentService(t *testing.T) *paymentTestDeps {
	ctrl := gomock.NewController(t)
	d := &paymentTestDeps{
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		accountRepo: mocks.NewMockBankAccountRepository(ctrl),
		idempRepo:   mocks.NewMockIdempotencyRepository(ctrl),
		idempCache:  mocks.NewMockIdempotencyCache(ctrl),
		encSvc:      mocks.NewMockEncryptionService(ctrl),
		sigSvc:      mocks.NewMockSignatureService(ctrl),
		payout:      mocks.NewMockPayoutProvider(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		feed:        mocks.NewMockChangeFeed(ctrl),
	}
	events := NewEventNotifier(d.feed, newTestLogger()).WithRetryIntervals()
	d.svc = NewPaymentService(
		d.txRepo, d.accountRepo, d.idempRepo, d.idempCache,
		d.encSvc, d.sigSvc, d.payout, d.transactor, events, newTestLogger(),
	)
	return d
}

func (d *paymentTestDeps) expectEvent(t domain.EventType) {
	d.feed.EXPECT().Publish(gomock.Any(), gomock.Cond(func(ev domain.ChangeEvent) bool {
		return ev.Type == t
	})).Return(nil)
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func testAccount(issuerID uuid.UUID) *domain.BankAccount {
	return &domain.BankAccount{
		ID:               uuid.New(),
		IssuerID:         issuerID,
		BankName:         "First Example Bank",
		RoutingNumber:    "021000021",
		AccountNumberEnc: "enc_payer",
		AccountLast4:     "6789",
		NextCheckNumber:  1042,
	}
}

func printRequest(issuerID, accountID uuid.UUID) ports.SendPaymentRequest {
	return ports.SendPaymentRequest{
		IssuerID:       issuerID,
		AccountID:      accountID,
		ReferenceID:    "INV-001",
		Amount:         decimal.RequireFromString("1250.75"),
		RecipientName:  "Jane Roe",
		Memo:           "Invoice 42",
		DeliveryMethod: domain.DeliveryPrint,
	}
}

func TestPaymentService_SendPayment_PrintSuccess(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()
	issuerID := uuid.New()
	account := testAccount(issuerID)
	tx := &mockTx{}
	req := printRequest(issuerID, account.ID)
	idempKey := domain.BuildIdempotencyKey(issuerID, "INV-001")

	d.idempCache.EXPECT().Get(ctx, idempKey).Return(nil, nil)
	d.idempRepo.EXPECT().Get(ctx, idempKey).Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(ctx, tx, account.ID).Return(account, nil)
	d.accountRepo.EXPECT().AdvanceCheckNumber(ctx, tx, account.ID).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.idempRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.idempCache.EXPECT().Set(ctx, idempKey, gomock.Any(), idempotencyTTL).Return(nil)
	d.expectEvent(domain.EventTransactionCreated)

	result, err := d.svc.SendPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccess, result.Status)
	assert.Equal(t, int64(125075), result.Amount)
	assert.Equal(t, int64(1042), result.CheckNumber)
	assert.Equal(t, domain.CurrencyUSD, result.Currency)
	assert.NotNil(t, result.ProcessedAt)
	assert.Nil(t, result.SignatureData)
}

func TestPaymentService_SendPayment_StoresNormalizedSignature(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)
	req := printRequest(issuerID, account.ID)
	req.SignatureData = "data:image/png;base64,iVBOR"

	d.sigSvc.EXPECT().Normalize("data:image/png;base64,iVBOR").Return("iVBOR", nil)
	d.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.idempRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), account.ID).Return(account, nil)
	d.accountRepo.EXPECT().AdvanceCheckNumber(gomock.Any(), gomock.Any(), account.ID).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.idempRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.idempCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.expectEvent(domain.EventTransactionCreated)

	result, err := d.svc.SendPayment(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.SignatureData)
	assert.Equal(t, "iVBOR", *result.SignatureData)
}

func TestPaymentService_SendPayment_InvalidSignature(t *testing.T) {
	d := setupPaymentService(t)
	req := printRequest(uuid.New(), uuid.New())
	req.SignatureData = "not-an-image"

	d.sigSvc.EXPECT().Normalize("not-an-image").Return("", apperror.Validation("signature_data: invalid image"))

	_, err := d.svc.SendPayment(context.Background(), req)
	assertAppError(t, err, "PAY_002")
}

func TestPaymentService_SendPayment_InvalidAmount(t *testing.T) {
	for _, amount := range []string{"0", "-5", "1000000", "10.005", "1e90000000"} {
		t.Run(amount, func(t *testing.T) {
			d := setupPaymentService(t)
			req := printRequest(uuid.New(), uuid.New())
			req.Amount = decimal.RequireFromString(amount)

			_, err := d.svc.SendPayment(context.Background(), req)
			assertAppError(t, err, "PAY_001")
		})
	}
}

func TestPaymentService_SendPayment_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ports.SendPaymentRequest)
		code   string
	}{
		{"blank recipient", func(r *ports.SendPaymentRequest) { r.RecipientName = "  " }, "PAY_002"},
		{"blank reference", func(r *ports.SendPaymentRequest) { r.ReferenceID = "" }, "PAY_002"},
		{"unknown delivery", func(r *ports.SendPaymentRequest) { r.DeliveryMethod = "fax" }, "PAY_002"},
		{"stripe bad routing", func(r *ports.SendPaymentRequest) {
			r.DeliveryMethod = domain.DeliveryStripe
			r.RecipientRoutingNumber = "123456789"
			r.RecipientAccountNumber = "555"
		}, "ACC_002"},
		{"stripe missing account", func(r *ports.SendPaymentRequest) {
			r.DeliveryMethod = domain.DeliveryStripe
			r.RecipientRoutingNumber = "021000021"
		}, "PAY_002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupPaymentService(t)
			req := printRequest(uuid.New(), uuid.New())
			tt.mutate(&req)

			_, err := d.svc.SendPayment(context.Background(), req)
			assertAppError(t, err, tt.code)
		})
	}
}

func TestPaymentService_SendPayment_StripeWithoutProvider(t *testing.T) {
	d := setupPaymentService(t)
	d.svc.payout = nil
	req := printRequest(uuid.New(), uuid.New())
	req.DeliveryMethod = domain.DeliveryStripe

	_, err := d.svc.SendPayment(context.Background(), req)
	assertAppError(t, err, "PAY_006")
}

func TestPaymentService_SendPayment_AccountNotFound(t *testing.T) {
	d := setupPaymentService(t)
	req := printRequest(uuid.New(), uuid.New())

	d.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.idempRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), req.AccountID).Return(nil, nil)

	_, err := d.svc.SendPayment(context.Background(), req)
	assertAppError(t, err, "ACC_001")
}

func TestPaymentService_SendPayment_ForeignAccount(t *testing.T) {
	d := setupPaymentService(t)
	account := testAccount(uuid.New())
	req := printRequest(uuid.New(), account.ID)

	d.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.idempRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), account.ID).Return(account, nil)

	_, err := d.svc.SendPayment(context.Background(), req)
	assertAppError(t, err, "ACC_403")
}

func TestPaymentService_SendPayment_AccountLockTimeout(t *testing.T) {
	d := setupPaymentService(t)
	req := printRequest(uuid.New(), uuid.New())

	d.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.idempRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), req.AccountID).
		Return(nil, fmt.Errorf("get bank account for update: %w", ports.ErrLockTimeout))

	_, err := d.svc.SendPayment(context.Background(), req)
	assertAppError(t, err, "SYS_002")
}

func expectPrintUpToCreate(d *paymentTestDeps, account *domain.BankAccount) {
	d.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.idempRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), account.ID).Return(account, nil)
	d.accountRepo.EXPECT().AdvanceCheckNumber(gomock.Any(), gomock.Any(), account.ID).Return(nil)
}

func TestPaymentService_SendPayment_DuplicateReferenceRace(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)
	req := printRequest(issuerID, account.ID)
	original := &domain.Transaction{
		ID:          uuid.New(),
		IssuerID:    issuerID,
		ReferenceID: "INV-001",
		Status:      domain.TransactionStatusSuccess,
		CheckNumber: 1041,
	}

	expectPrintUpToCreate(d, account)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("insert transaction: %w", ports.ErrDuplicateKey))
	d.txRepo.EXPECT().GetByReference(gomock.Any(), issuerID, "INV-001").Return(original, nil)

	result, err := d.svc.SendPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, original.ID, result.ID)
	assert.Equal(t, int64(1041), result.CheckNumber)
}

func TestPaymentService_SendPayment_DuplicateIdempotencyKeyRace(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)
	req := printRequest(issuerID, account.ID)
	original := &domain.Transaction{ID: uuid.New(), IssuerID: issuerID, ReferenceID: "INV-001"}

	expectPrintUpToCreate(d, account)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.idempRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(ports.ErrDuplicateKey)
	d.txRepo.EXPECT().GetByReference(gomock.Any(), issuerID, "INV-001").Return(original, nil)

	result, err := d.svc.SendPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, original.ID, result.ID)
}

func TestPaymentService_SendPayment_DuplicateReferenceRaceOriginalMissing(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)

	expectPrintUpToCreate(d, account)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(ports.ErrDuplicateKey)
	d.txRepo.EXPECT().GetByReference(gomock.Any(), issuerID, "INV-001").Return(nil, nil)

	_, err := d.svc.SendPayment(context.Background(), printRequest(issuerID, account.ID))
	assertAppError(t, err, "PAY_003")
}

func TestPaymentService_SendPayment_IdempotentRedisHit(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	req := printRequest(issuerID, uuid.New())
	idempKey := domain.BuildIdempotencyKey(issuerID, "INV-001")

	stored := domain.Transaction{ID: uuid.New(), IssuerID: issuerID, Status: domain.TransactionStatusSuccess}
	cached, _ := json.Marshal(stored)
	current := stored
	current.Status = domain.TransactionStatusVoided

	d.idempCache.EXPECT().Get(gomock.Any(), idempKey).Return(cached, nil)
	d.txRepo.EXPECT().GetByID(gomock.Any(), stored.ID).Return(&current, nil)

	result, err := d.svc.SendPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, result.ID)
	assert.Equal(t, domain.TransactionStatusVoided, result.Status)
}

func TestPaymentService_SendPayment_IdempotentDBHit(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	req := printRequest(issuerID, uuid.New())

	stored := domain.Transaction{ID: uuid.New(), IssuerID: issuerID, Status: domain.TransactionStatusSuccess}
	respJSON, _ := json.Marshal(stored)

	d.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
	d.idempRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.IdempotencyLog{
		TransactionID: stored.ID,
		ResponseJSON:  respJSON,
	}, nil)
	d.txRepo.EXPECT().GetByID(gomock.Any(), stored.ID).Return(nil, errors.New("db blip"))

	result, err := d.svc.SendPayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, result.ID)
	assert.Equal(t, domain.TransactionStatusSuccess, result.Status)
}

func stripeRequest(issuerID, accountID uuid.UUID) ports.SendPaymentRequest {
	req := printRequest(issuerID, accountID)
	req.DeliveryMethod = domain.DeliveryStripe
	req.Memo = ""
	req.RecipientRoutingNumber = "011000015"
	req.RecipientAccountNumber = "000123456"
	return req
}

func expectStripeCommit(d *paymentTestDeps, account *domain.BankAccount) {
	d.idempCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.idempRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(&mockTx{}, nil)
	d.accountRepo.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), account.ID).Return(account, nil)
	d.encSvc.EXPECT().Encrypt("000123456").Return("enc_recipient", nil)
	d.txRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			if txn.Status != domain.TransactionStatusPending || txn.CheckNumber != 0 {
				return errors.New("unexpected stripe transaction state")
			}
			return nil
		})
	d.idempRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.idempCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.expectEvent(domain.EventTransactionCreated)
	d.encSvc.EXPECT().Decrypt("enc_payer").Return("987654321", nil)
}

func TestPaymentService_SendPayment_StripeSuccess(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)
	expectStripeCommit(d, account)

	d.payout.EXPECT().Execute(gomock.Any(), ports.PayoutRequest{
		AmountCents:            125075,
		Currency:               "USD",
		PayerRoutingNumber:     "021000021",
		PayerAccountNumber:     "987654321",
		RecipientName:          "Jane Roe",
		RecipientRoutingNumber: "011000015",
		RecipientAccountNumber: "000123456",
		Description:            "Payment to Jane Roe",
	}).Return(ports.PayoutResult{Success: true, ID: "pi_123"})
	d.txRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Cond(func(u ports.StatusUpdate) bool {
		return u.From == domain.TransactionStatusPending && u.To == domain.TransactionStatusSuccess &&
			u.ExternalID != nil && *u.ExternalID == "pi_123"
	})).Return(true, nil)
	d.expectEvent(domain.EventTransactionUpdated)

	result, err := d.svc.SendPayment(context.Background(), stripeRequest(issuerID, account.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccess, result.Status)
	assert.Equal(t, "pi_123", *result.ExternalID)
	assert.Equal(t, "3456", *result.RecipientAccountLast4)
	assert.Zero(t, result.CheckNumber)
}

func TestPaymentService_SendPayment_StripeOutcomeSurvivesClientDisconnect(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)
	expectStripeCommit(d, account)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.payout.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.PayoutRequest) ports.PayoutResult {
			cancel()
			return ports.PayoutResult{Success: true, ID: "pi_live"}
		})
	d.txRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(uctx context.Context, _ uuid.UUID, u ports.StatusUpdate) (bool, error) {
			if err := uctx.Err(); err != nil {
				return false, err
			}
			return true, nil
		})
	d.expectEvent(domain.EventTransactionUpdated)

	result, err := d.svc.SendPayment(ctx, stripeRequest(issuerID, account.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccess, result.Status)
	require.NotNil(t, result.ExternalID)
	assert.Equal(t, "pi_live", *result.ExternalID)
}

func TestPaymentService_SendPayment_StripeRejected(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)
	expectStripeCommit(d, account)

	d.payout.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(ports.PayoutResult{Error: "account closed"})
	d.txRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	d.expectEvent(domain.EventTransactionUpdated)

	result, err := d.svc.SendPayment(context.Background(), stripeRequest(issuerID, account.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, result.Status)
	assert.Equal(t, "account closed", *result.FailureReason)
}

func TestPaymentService_SendPayment_StripeOutcomeRace(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	account := testAccount(issuerID)
	expectStripeCommit(d, account)

	d.payout.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(ports.PayoutResult{Success: true, ID: "pi_9"})
	d.txRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	result, err := d.svc.SendPayment(context.Background(), stripeRequest(issuerID, account.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, result.Status)
}

func TestPaymentService_VoidCheck_Success(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	txn := &domain.Transaction{
		ID:             uuid.New(),
		IssuerID:       issuerID,
		CheckNumber:    1042,
		DeliveryMethod: domain.DeliveryPrint,
		Status:         domain.TransactionStatusSuccess,
	}

	d.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	d.txRepo.EXPECT().UpdateStatus(gomock.Any(), txn.ID, ports.StatusUpdate{
		From: domain.TransactionStatusSuccess,
		To:   domain.TransactionStatusVoided,
	}).Return(true, nil)
	d.expectEvent(domain.EventTransactionUpdated)

	result, err := d.svc.VoidCheck(context.Background(), issuerID, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusVoided, result.Status)
}

func TestPaymentService_VoidCheck_Rejections(t *testing.T) {
	issuerID := uuid.New()
	tests := []struct {
		name string
		txn  *domain.Transaction
		code string
	}{
		{"not found", nil, "PAY_004"},
		{"foreign", &domain.Transaction{IssuerID: uuid.New(), DeliveryMethod: domain.DeliveryPrint, Status: domain.TransactionStatusSuccess}, "ACC_403"},
		{"stripe", &domain.Transaction{IssuerID: issuerID, DeliveryMethod: domain.DeliveryStripe, Status: domain.TransactionStatusSuccess}, "PAY_005"},
		{"already voided", &domain.Transaction{IssuerID: issuerID, DeliveryMethod: domain.DeliveryPrint, Status: domain.TransactionStatusVoided}, "PAY_005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupPaymentService(t)
			d.txRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(tt.txn, nil)

			_, err := d.svc.VoidCheck(context.Background(), issuerID, uuid.New())
			assertAppError(t, err, tt.code)
		})
	}
}

func TestPaymentService_VoidCheck_LostRace(t *testing.T) {
	d := setupPaymentService(t)
	issuerID := uuid.New()
	txn := &domain.Transaction{ID: uuid.New(), IssuerID: issuerID, DeliveryMethod: domain.DeliveryPrint, Status: domain.TransactionStatusSuccess}

	d.txRepo.EXPECT().GetByID(gomock.Any(), txn.ID).Return(txn, nil)
	d.txRepo.EXPECT().UpdateStatus(gomock.Any(), txn.ID, gomock.Any()).Return(false, nil)

	_, err := d.svc.VoidCheck(context.Background(), issuerID, txn.ID)
	assertAppError(t, err, "PAY_005")
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(decimal.RequireFromString("0.01")))
	assert.True(t, ValidAmount(decimal.RequireFromString("999999.99")))
	assert.True(t, ValidAmount(decimal.RequireFromString("12.50")))
	assert.False(t, ValidAmount(decimal.Zero))
	assert.False(t, ValidAmount(decimal.RequireFromString("1000000.00")))
	assert.False(t, ValidAmount(decimal.RequireFromString("1.001")))
}

func TestValidAmount_HugeExponentRejectedQuickly(t *testing.T) {
	for _, in := range []string{"1e90000000", "1e-90000000", "-1e90000000"} {
		var amount decimal.Decimal
		require.NoError(t, json.Unmarshal([]byte(`"`+in+`"`), &amount))

		start := time.Now()
		assert.False(t, ValidAmount(amount), in)
		assert.Less(t, time.Since(start), time.Second, in)
	}
}

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
