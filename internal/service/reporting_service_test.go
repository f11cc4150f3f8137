package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"echeck-gateway/internal/core/domain"
	"echeck-gateway/internal/core/ports"
	"echeck-gateway/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupReportingService(t *testing.T) (*reportingService, *mocks.MockTransactionRepository) {
	ctrl := gomock.NewController(t)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	svc := NewReportingService(txRepo).(*reportingService)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc, txRepo
}

func TestReportingService_GetDashboardStats_All(t *testing.T) {
	svc, txRepo := setupReportingService(t)
	issuerID := uuid.New()
	expected := &domain.DashboardStats{
		TotalTransactions: 10,
		Successful:        7,
		Pending:           1,
		Failed:            1,
		Voided:            1,
		TotalPaid:         500000,
		ByDelivery: map[domain.DeliveryMethod]domain.DeliveryStats{
			domain.DeliveryPrint: {Count: 8, TotalAmount: 400000},
		},
	}

	txRepo.EXPECT().GetStats(gomock.Any(), issuerID, (*time.Time)(nil)).Return(expected, nil)

	result, err := svc.GetDashboardStats(context.Background(), issuerID, "all")
	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestReportingService_GetDashboardStats_Periods(t *testing.T) {
	tests := map[string]time.Time{
		"day":   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		"week":  time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC),
		"month": time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC),
	}
	for period, since := range tests {
		t.Run(period, func(t *testing.T) {
			svc, txRepo := setupReportingService(t)
			txRepo.EXPECT().GetStats(gomock.Any(), gomock.Any(), gomock.Cond(func(got *time.Time) bool {
				return got != nil && got.Equal(since)
			})).Return(&domain.DashboardStats{}, nil)

			result, err := svc.GetDashboardStats(context.Background(), uuid.New(), period)
			require.NoError(t, err)
			assert.NotNil(t, result.ByDelivery)
		})
	}
}

func TestReportingService_GetDashboardStats_InvalidPeriod(t *testing.T) {
	svc, _ := setupReportingService(t)

	_, err := svc.GetDashboardStats(context.Background(), uuid.New(), "year")
	assertAppError(t, err, "PAY_002")
}

func TestReportingService_GetDashboardStats_RepoError(t *testing.T) {
	svc, txRepo := setupReportingService(t)
	txRepo.EXPECT().GetStats(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.GetDashboardStats(context.Background(), uuid.New(), "")
	assertAppError(t, err, "SYS_001")
}

func TestReportingService_ListTransactions_NormalizesPaging(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{3, 500, 3, MaxPageSize},
		{2, 50, 2, 50},
	}
	for _, tt := range tests {
		svc, txRepo := setupReportingService(t)
		issuerID := uuid.New()
		txRepo.EXPECT().List(gomock.Any(), ports.TransactionListParams{
			IssuerID: issuerID,
			Page:     tt.wantPage,
			PageSize: tt.wantSize,
		}).Return(nil, int64(0), nil)

		txns, total, err := svc.ListTransactions(context.Background(), ports.TransactionListParams{
			IssuerID: issuerID,
			Page:     tt.page,
			PageSize: tt.size,
		})
		require.NoError(t, err)
		assert.NotNil(t, txns)
		assert.Zero(t, total)
	}
}

func TestReportingService_ListTransactions_InvalidFilters(t *testing.T) {
	badStatus := domain.TransactionStatus("REVERSED")
	badMethod := domain.DeliveryMethod("wire")
	from := time.Now()
	to := from.Add(-time.Hour)

	for name, params := range map[string]ports.TransactionListParams{
		"status":   {Status: &badStatus},
		"delivery": {DeliveryMethod: &badMethod},
		"range":    {From: &from, To: &to},
	} {
		t.Run(name, func(t *testing.T) {
			svc, _ := setupReportingService(t)
			_, _, err := svc.ListTransactions(context.Background(), params)
			assertAppError(t, err, "PAY_002")
		})
	}
}

func TestReportingService_GetTransaction(t *testing.T) {
	issuerID := uuid.New()
	own := &domain.Transaction{ID: uuid.New(), IssuerID: issuerID}
	foreign := &domain.Transaction{ID: uuid.New(), IssuerID: uuid.New()}

	t.Run("owned", func(t *testing.T) {
		svc, txRepo := setupReportingService(t)
		txRepo.EXPECT().GetByID(gomock.Any(), own.ID).Return(own, nil)

		got, err := svc.GetTransaction(context.Background(), issuerID, own.ID)
		require.NoError(t, err)
		assert.Equal(t, own, got)
	})
	t.Run("foreign", func(t *testing.T) {
		svc, txRepo := setupReportingService(t)
		txRepo.EXPECT().GetByID(gomock.Any(), foreign.ID).Return(foreign, nil)

		_, err := svc.GetTransaction(context.Background(), issuerID, foreign.ID)
		assertAppError(t, err, "ACC_403")
	})
	t.Run("missing", func(t *testing.T) {
		svc, txRepo := setupReportingService(t)
		txRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := svc.GetTransaction(context.Background(), issuerID, uuid.New())
		assertAppError(t, err, "PAY_004")
	})
}
