package service

import (
	"context"
	"fmt"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/pkg/apperror"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	txRepo ports.TransactionRepository
	now    func() time.Time
}

// NewReportingService creates a new reporting service.
func NewReportingService(txRepo ports.TransactionRepository) ports.ReportingService {
	return &reportingService{txRepo: txRepo, now: time.Now}
}

// GetDashboardStats returns aggregated transaction stats for the issuer.
func (s *reportingService) GetDashboardStats(ctx context.Context, issuerID uuid.UUID, period string) (*domain.DashboardStats, error) {
	var since *time.Time
	now := s.now().UTC()

	switch period {
	case "day":
		t := now.AddDate(0, 0, -1)
		since = &t
	case "week":
		t := now.AddDate(0, 0, -7)
		since = &t
	case "month":
		t := now.AddDate(0, -1, 0)
		since = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	stats, err := s.txRepo.GetStats(ctx, issuerID, since)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get stats: %w", err))
	}
	if stats.ByDelivery == nil {
		stats.ByDelivery = map[domain.DeliveryMethod]domain.DeliveryStats{}
	}
	return stats, nil
}

// ListTransactions returns a page of the issuer's transactions, newest first.
func (s *reportingService) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = DefaultPageSize
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}
	if params.Status != nil && !params.Status.Valid() {
		return nil, 0, apperror.Validation("invalid status filter")
	}
	if params.DeliveryMethod != nil && !params.DeliveryMethod.Valid() {
		return nil, 0, apperror.Validation("invalid delivery_method filter")
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, 0, apperror.Validation("from must not be after to")
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, total, nil
}

// GetTransaction returns one of the issuer's transactions.
func (s *reportingService) GetTransaction(ctx context.Context, issuerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	return ownedTransaction(ctx, s.txRepo, issuerID, transactionID)
}

// ownedTransaction loads a transaction and checks that issuerID owns it.
func ownedTransaction(ctx context.Context, repo ports.TransactionRepository, issuerID, transactionID uuid.UUID) (*domain.Transaction, error) {
	txn, err := repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	if txn.IssuerID != issuerID {
		return nil, apperror.ErrPermissionDenied()
	}
	return txn, nil
}
