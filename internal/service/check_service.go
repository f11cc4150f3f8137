package service

import (
	"context"
	"fmt"
	"time"

	"echeck-gateway/internal/check"
	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckServiceImpl implements ports.CheckService.
type CheckServiceImpl struct {
	txRepo      ports.TransactionRepository
	accountRepo ports.BankAccountRepository
	issuerRepo  ports.IssuerRepository
	encSvc      ports.EncryptionService
	archive     ports.InstrumentArchive // optional
	audit       ports.AuditService
	events      *EventNotifier
	log         zerolog.Logger
}

func NewCheckService(
	txRepo ports.TransactionRepository,
	accountRepo ports.BankAccountRepository,
	issuerRepo ports.IssuerRepository,
	encSvc ports.EncryptionService,
	archive ports.InstrumentArchive,
	audit ports.AuditService,
	events *EventNotifier,
	log zerolog.Logger,
) *CheckServiceImpl {
	return &CheckServiceImpl{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		issuerRepo:  issuerRepo,
		encSvc:      encSvc,
		archive:     archive,
		audit:       audit,
		events:      events,
		log:         log,
	}
}

// GetInstrument renders the check view for a print-delivered transaction.
// Voided checks still render so they can be inspected.
func (s *CheckServiceImpl) GetInstrument(ctx context.Context, issuerID, transactionID uuid.UUID) (*check.Instrument, error) {
	txn, err := s.printTransaction(ctx, issuerID, transactionID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, txn)
}

// PrintInstrument renders the check, counts the print and archives the
// rendered view. Only issued (SUCCESS) checks can be printed.
func (s *CheckServiceImpl) PrintInstrument(ctx context.Context, issuerID, transactionID uuid.UUID) (*domain.InstrumentPrint, error) {
	txn, err := s.printTransaction(ctx, issuerID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsPrintable() {
		return nil, apperror.ErrInstrumentUnavailable()
	}

	inst, err := s.render(ctx, txn)
	if err != nil {
		return nil, err
	}

	printNumber, err := s.txRepo.IncrementPrintCount(ctx, txn.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment print count: %w", err))
	}

	record := &domain.InstrumentPrint{
		IssuerID:      issuerID,
		TransactionID: txn.ID,
		PrintNumber:   printNumber,
		Instrument:    inst,
		PrintedAt:     time.Now().UTC(),
	}
	if s.archive != nil {
		if err := s.archive.Save(ctx, record); err != nil {
			s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Int("print_number", printNumber).Msg("failed to archive printed instrument")
		}
	}

	s.audit.Log(ctx, NewAuditEntry(&issuerID, domain.AuditActionPrintCheck, "transaction", txn.ID.String(), ClientIP(ctx),
		map[string]interface{}{"check_number": txn.CheckNumber, "print_number": printNumber}))
	s.events.Notify(ctx, domain.EventCheckPrinted, issuerID, txn.ID, map[string]interface{}{
		"check_number": txn.CheckNumber,
		"print_number": printNumber,
	})

	return record, nil
}

// ListPrints returns the archived prints of a check, oldest first. Without
// an archive the list is always empty.
func (s *CheckServiceImpl) ListPrints(ctx context.Context, issuerID, transactionID uuid.UUID) ([]domain.InstrumentPrint, error) {
	txn, err := s.printTransaction(ctx, issuerID, transactionID)
	if err != nil {
		return nil, err
	}
	if s.archive == nil {
		return []domain.InstrumentPrint{}, nil
	}
	prints, err := s.archive.ListByTransaction(ctx, txn.ID)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable(fmt.Errorf("list prints: %w", err))
	}
	if prints == nil {
		prints = []domain.InstrumentPrint{}
	}
	return prints, nil
}

func (s *CheckServiceImpl) printTransaction(ctx context.Context, issuerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	txn, err := ownedTransaction(ctx, s.txRepo, issuerID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.DeliveryMethod != domain.DeliveryPrint {
		return nil, apperror.ErrNotPrintDelivery()
	}
	return txn, nil
}

func (s *CheckServiceImpl) render(ctx context.Context, txn *domain.Transaction) (*check.Instrument, error) {
	account, err := s.accountRepo.GetByID(ctx, txn.AccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrInstrumentUnavailable()
	}
	accountNumber, err := s.encSvc.Decrypt(account.AccountNumberEnc)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("decrypt account number: %w", err))
	}

	var payerName string
	issuer, err := s.issuerRepo.GetByID(ctx, txn.IssuerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get issuer: %w", err))
	}
	if issuer != nil {
		payerName = issuer.BusinessName
	}

	payment := check.Payment{
		Amount:        txn.AmountDecimal(),
		RecipientName: txn.RecipientName,
		Memo:          txn.Memo,
		CheckNumber:   txn.CheckNumberString(),
		IssuedAt:      txn.InitiatedAt,
	}
	if txn.SignatureData != nil {
		payment.SignatureData = *txn.SignatureData
	}
	acct := check.Account{
		BankName:      account.BankName,
		BankAddress:   account.BankAddress,
		RoutingNumber: account.RoutingNumber,
		AccountNumber: accountNumber,
	}
	if account.FractionalRouting != nil {
		acct.FractionalRouting = *account.FractionalRouting
	}

	inst, err := check.Render(payerName, payment, acct)
	if err != nil {
		return nil, apperror.ErrInstrumentUnavailable()
	}
	return inst, nil
}
