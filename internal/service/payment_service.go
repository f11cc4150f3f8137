package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"echeck-gateway/internal/check"
	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const idempotencyTTL = 24 * time.Hour

// postCommitTimeout bounds the work done after a payment commits: caching,
// events and the payout call with its status update. It outlives the
// provider's own HTTP timeout.
const postCommitTimeout = 45 * time.Second

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	txRepo      ports.TransactionRepository
	accountRepo ports.BankAccountRepository
	idempRepo   ports.IdempotencyRepository
	idempCache  ports.IdempotencyCache
	encSvc      ports.EncryptionService
	sigSvc      ports.SignatureService
	payout      ports.PayoutProvider // nil disables stripe delivery
	transactor  ports.DBTransactor
	events      *EventNotifier
	log         zerolog.Logger
}

func NewPaymentService(
	txRepo ports.TransactionRepository,
	accountRepo ports.BankAccountRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	payout ports.PayoutProvider,
	transactor ports.DBTransactor,
	events *EventNotifier,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		idempRepo:   idempRepo,
		idempCache:  idempCache,
		encSvc:      encSvc,
		sigSvc:      sigSvc,
		payout:      payout,
		transactor:  transactor,
		events:      events,
		log:         log,
	}
}

// ValidAmount reports whether amount can be written on a check: positive,
// at most 999,999.99 and no fractions of a cent. Out-of-range exponents are
// rejected before any comparison.
func ValidAmount(amount decimal.Decimal) bool {
	return check.Bounded(amount) &&
		amount.IsPositive() &&
		amount.LessThanOrEqual(check.MaxAmount) &&
		amount.Equal(amount.Round(2))
}

// SendPayment records a payment drawn on one of the issuer's accounts.
// Print deliveries succeed immediately and consume the account's next check
// number; stripe deliveries are submitted to the payout provider after the
// transaction commits. A repeated ReferenceID returns the original payment.
func (s *PaymentServiceImpl) SendPayment(ctx context.Context, req ports.SendPaymentRequest) (*domain.Transaction, error) {
	signature, err := s.validateSend(&req)
	if err != nil {
		return nil, err
	}

	idempKey := domain.BuildIdempotencyKey(req.IssuerID, req.ReferenceID)

	// Layer 1: Redis idempotency check
	cached, err := s.idempCache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return s.replay(ctx, cached)
	}

	// Layer 2: DB idempotency check
	idempLog, err := s.idempRepo.Get(ctx, idempKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog != nil {
		return s.replay(ctx, idempLog.ResponseJSON)
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, req.AccountID)
	if err != nil {
		if errors.Is(err, ports.ErrLockTimeout) {
			return nil, apperror.ErrLockTimeout(err)
		}
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	if !account.OwnedBy(req.IssuerID) {
		return nil, apperror.ErrPermissionDenied()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:             uuid.New(),
		IssuerID:       req.IssuerID,
		AccountID:      account.ID,
		ReferenceID:    req.ReferenceID,
		Amount:         domain.ToCents(req.Amount),
		Currency:       domain.CurrencyUSD,
		RecipientName:  req.RecipientName,
		Memo:           req.Memo,
		DeliveryMethod: req.DeliveryMethod,
		SignatureData:  signature,
		InitiatedAt:    now,
	}

	switch req.DeliveryMethod {
	case domain.DeliveryPrint:
		txn.CheckNumber = account.NextCheckNumber
		txn.Status = domain.TransactionStatusSuccess
		txn.ProcessedAt = &now
		if err := s.accountRepo.AdvanceCheckNumber(ctx, dbTx, account.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("advance check number: %w", err))
		}
	case domain.DeliveryStripe:
		recipientEnc, err := s.encSvc.Encrypt(req.RecipientAccountNumber)
		if err != nil {
			return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt recipient account: %w", err))
		}
		last4 := domain.LastFour(req.RecipientAccountNumber)
		txn.Status = domain.TransactionStatusPending
		txn.RecipientRoutingNumber = &req.RecipientRoutingNumber
		txn.RecipientAccountEnc = &recipientEnc
		txn.RecipientAccountLast4 = &last4
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return s.replayConcurrent(ctx, dbTx, req)
		}
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	respJSON, err := json.Marshal(txn)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}

	idempLogEntry := &domain.IdempotencyLog{
		Key:           idempKey,
		TransactionID: txn.ID,
		ResponseJSON:  respJSON,
		CreatedAt:     now,
	}
	if err := s.idempRepo.Create(ctx, dbTx, idempLogEntry); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return s.replayConcurrent(ctx, dbTx, req)
		}
		return nil, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// The payment is committed. Its follow-up work must finish even if the
	// caller disconnects, or a stripe payout would stay PENDING.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postCommitTimeout)
	defer cancel()

	// Post-process: cache in Redis (best-effort)
	if err := s.idempCache.Set(pctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("issuer_id", req.IssuerID.String()).
		Str("delivery", string(txn.DeliveryMethod)).
		Int64("amount", txn.Amount).
		Int64("check_number", txn.CheckNumber).
		Msg("payment recorded")
	s.events.Notify(pctx, domain.EventTransactionCreated, txn.IssuerID, txn.ID, txn)

	if txn.DeliveryMethod == domain.DeliveryStripe {
		s.executePayout(pctx, txn, account, req)
	}

	return txn, nil
}

// validateSend checks and normalizes req and returns the signature to store.
func (s *PaymentServiceImpl) validateSend(req *ports.SendPaymentRequest) (*string, error) {
	if !ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	req.ReferenceID = strings.TrimSpace(req.ReferenceID)
	if req.ReferenceID == "" {
		return nil, apperror.Validation("reference_id is required")
	}
	req.RecipientName = strings.TrimSpace(req.RecipientName)
	if req.RecipientName == "" {
		return nil, apperror.Validation("recipient_name is required")
	}
	req.Memo = strings.TrimSpace(req.Memo)

	switch req.DeliveryMethod {
	case domain.DeliveryPrint:
	case domain.DeliveryStripe:
		if s.payout == nil {
			return nil, apperror.ErrPayoutUnavailable()
		}
		if !check.ValidRoutingNumber(req.RecipientRoutingNumber) {
			return nil, apperror.ErrInvalidRoutingNumber()
		}
		if req.RecipientAccountNumber == "" {
			return nil, apperror.Validation("recipient_account_number is required for stripe delivery")
		}
	default:
		return nil, apperror.Validation("delivery_method must be print or stripe")
	}

	if strings.TrimSpace(req.SignatureData) == "" {
		return nil, nil
	}
	normalized, err := s.sigSvc.Normalize(req.SignatureData)
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}

// executePayout submits a committed stripe transaction and records the
// outcome. Provider failures mark the transaction FAILED; they are not
// returned to the caller.
func (s *PaymentServiceImpl) executePayout(ctx context.Context, txn *domain.Transaction, account *domain.BankAccount, req ports.SendPaymentRequest) {
	update := ports.StatusUpdate{From: domain.TransactionStatusPending}

	payerAccount, err := s.encSvc.Decrypt(account.AccountNumberEnc)
	if err != nil {
		s.log.Error().Err(err).Str("tx_id", txn.ID.String()).Msg("decrypt payer account for payout")
		reason := "payer account unavailable"
		update.To, update.FailureReason = domain.TransactionStatusFailed, &reason
	} else {
		result := s.payout.Execute(ctx, ports.PayoutRequest{
			AmountCents:            txn.Amount,
			Currency:               txn.Currency,
			PayerRoutingNumber:     account.RoutingNumber,
			PayerAccountNumber:     payerAccount,
			RecipientName:          txn.RecipientName,
			RecipientRoutingNumber: req.RecipientRoutingNumber,
			RecipientAccountNumber: req.RecipientAccountNumber,
			Description:            payoutDescription(txn),
		})
		if result.Success {
			id := result.ID
			update.To, update.ExternalID = domain.TransactionStatusSuccess, &id
		} else {
			reason := result.Error
			if reason == "" {
				reason = "payout rejected"
			}
			update.To, update.FailureReason = domain.TransactionStatusFailed, &reason
		}
	}

	changed, err := s.txRepo.UpdateStatus(ctx, txn.ID, update)
	if err != nil {
		s.log.Error().Err(err).Str("tx_id", txn.ID.String()).Msg("record payout outcome")
		return
	}
	if !changed {
		s.log.Warn().Str("tx_id", txn.ID.String()).Msg("payout outcome skipped: transaction no longer pending")
		return
	}

	now := time.Now().UTC()
	txn.Status = update.To
	txn.ExternalID = update.ExternalID
	txn.FailureReason = update.FailureReason
	txn.ProcessedAt = &now

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("status", string(txn.Status)).
		Msg("payout processed")
	s.events.Notify(ctx, domain.EventTransactionUpdated, txn.IssuerID, txn.ID, txn)
}

func payoutDescription(txn *domain.Transaction) string {
	if txn.Memo != "" {
		return txn.Memo
	}
	return "Payment to " + txn.RecipientName
}

// VoidCheck voids a printed check. Stripe payouts cannot be voided.
func (s *PaymentServiceImpl) VoidCheck(ctx context.Context, issuerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	if txn.IssuerID != issuerID {
		return nil, apperror.ErrPermissionDenied()
	}
	if !txn.IsVoidable() {
		return nil, apperror.ErrNotVoidable()
	}

	changed, err := s.txRepo.UpdateStatus(ctx, txn.ID, ports.StatusUpdate{
		From: txn.Status,
		To:   domain.TransactionStatusVoided,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("void transaction: %w", err))
	}
	if !changed {
		return nil, apperror.ErrNotVoidable()
	}

	now := time.Now().UTC()
	txn.Status = domain.TransactionStatusVoided
	txn.ProcessedAt = &now

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Int64("check_number", txn.CheckNumber).
		Msg("check voided")
	s.events.Notify(ctx, domain.EventTransactionUpdated, issuerID, txn.ID, txn)

	return txn, nil
}

// replay answers a repeated request with the current state of the payment
// it originally created.
func (s *PaymentServiceImpl) replay(ctx context.Context, data []byte) (*domain.Transaction, error) {
	cached := &domain.Transaction{}
	if err := json.Unmarshal(data, cached); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached tx: %w", err))
	}

	current, err := s.txRepo.GetByID(ctx, cached.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("tx_id", cached.ID.String()).Msg("refresh replayed transaction failed, serving cached copy")
		return cached, nil
	}
	if current == nil {
		return cached, nil
	}
	return current, nil
}

// replayConcurrent answers a request that lost the insert race to another
// request with the same reference. The losing transaction is rolled back
// first; the unique index only fails the insert once the winner commits.
func (s *PaymentServiceImpl) replayConcurrent(ctx context.Context, dbTx pgx.Tx, req ports.SendPaymentRequest) (*domain.Transaction, error) {
	if err := dbTx.Rollback(ctx); err != nil {
		s.log.Warn().Err(err).Str("reference_id", req.ReferenceID).Msg("rollback losing payment insert")
	}

	original, err := s.txRepo.GetByReference(ctx, req.IssuerID, req.ReferenceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction by reference: %w", err))
	}
	if original == nil {
		return nil, apperror.ErrDuplicateTransaction()
	}

	s.log.Info().
		Str("tx_id", original.ID.String()).
		Str("reference_id", req.ReferenceID).
		Msg("concurrent duplicate answered with original payment")
	return original, nil
}
