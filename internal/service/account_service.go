package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"echeck-gateway/internal/check"
	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo ports.BankAccountRepository
	encSvc      ports.EncryptionService
	events      *EventNotifier
	log         zerolog.Logger
}

func NewAccountService(
	accountRepo ports.BankAccountRepository,
	encSvc ports.EncryptionService,
	events *EventNotifier,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		encSvc:      encSvc,
		events:      events,
		log:         log,
	}
}

// Link stores a new checking account. The account number is encrypted and
// only its last four digits are kept in clear.
func (s *AccountServiceImpl) Link(ctx context.Context, req ports.LinkAccountRequest) (*domain.BankAccount, error) {
	if !check.ValidRoutingNumber(req.RoutingNumber) {
		return nil, apperror.ErrInvalidRoutingNumber()
	}

	next := domain.FirstCheckNumber
	if req.StartCheckNumber != nil {
		if *req.StartCheckNumber < 1 {
			return nil, apperror.Validation("start_check_number must be positive")
		}
		next = *req.StartCheckNumber
	}

	accountEnc, err := s.encSvc.Encrypt(req.AccountNumber)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt account number: %w", err))
	}

	now := time.Now().UTC()
	account := &domain.BankAccount{
		ID:                uuid.New(),
		IssuerID:          req.IssuerID,
		BankName:          strings.TrimSpace(req.BankName),
		BankAddress:       strings.TrimSpace(req.BankAddress),
		RoutingNumber:     req.RoutingNumber,
		AccountNumberEnc:  accountEnc,
		AccountLast4:      domain.LastFour(req.AccountNumber),
		FractionalRouting: trimmedOrNil(req.FractionalRouting),
		NextCheckNumber:   next,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create bank account: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("issuer_id", req.IssuerID.String()).
		Msg("bank account linked")
	s.events.Notify(ctx, domain.EventAccountLinked, account.IssuerID, account.ID, account)

	return account, nil
}

func (s *AccountServiceImpl) List(ctx context.Context, issuerID uuid.UUID) ([]domain.BankAccount, error) {
	accounts, err := s.accountRepo.ListByIssuer(ctx, issuerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list bank accounts: %w", err))
	}
	if accounts == nil {
		accounts = []domain.BankAccount{}
	}
	return accounts, nil
}

// Get returns the account if issuerID owns it.
func (s *AccountServiceImpl) Get(ctx context.Context, issuerID, accountID uuid.UUID) (*domain.BankAccount, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get bank account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	if !account.OwnedBy(issuerID) {
		return nil, apperror.ErrPermissionDenied()
	}
	return account, nil
}

// Update patches the display fields. Routing and account numbers are
// immutable once checks have been drawn on them.
func (s *AccountServiceImpl) Update(ctx context.Context, issuerID, accountID uuid.UUID, patch domain.BankAccountPatch) (*domain.BankAccount, error) {
	if patch.Empty() {
		return nil, apperror.Validation("no fields to update")
	}

	account, err := s.Get(ctx, issuerID, accountID)
	if err != nil {
		return nil, err
	}

	if patch.BankName != nil {
		account.BankName = strings.TrimSpace(*patch.BankName)
	}
	if patch.BankAddress != nil {
		account.BankAddress = strings.TrimSpace(*patch.BankAddress)
	}
	if patch.FractionalRouting != nil {
		account.FractionalRouting = trimmedOrNil(patch.FractionalRouting)
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update bank account: %w", err))
	}

	s.events.Notify(ctx, domain.EventAccountUpdated, issuerID, account.ID, account)
	return account, nil
}

// Delete unlinks an account that has never had a check drawn on it.
func (s *AccountServiceImpl) Delete(ctx context.Context, issuerID, accountID uuid.UUID) error {
	if _, err := s.Get(ctx, issuerID, accountID); err != nil {
		return err
	}

	used, err := s.accountRepo.HasTransactions(ctx, accountID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check account usage: %w", err))
	}
	if used {
		return apperror.ErrAccountInUse()
	}

	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete bank account: %w", err))
	}

	s.log.Info().Str("account_id", accountID.String()).Msg("bank account removed")
	s.events.Notify(ctx, domain.EventAccountDeleted, issuerID, accountID, nil)
	return nil
}

// trimmedOrNil maps nil and blank strings to nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
