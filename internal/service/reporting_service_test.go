package service

import (
	"context"
	"errors"
	"testing"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReportingService_ListEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	svc := NewReportingService(ledgerRepo)

	userID := uuid.New()
	params := ports.LedgerListParams{UserID: &userID, Page: 2, PageSize: 10}
	entries := []domain.LedgerEntry{
		{ID: uuid.New(), Reference: "TRF-1"},
		{ID: uuid.New(), Reference: "TRF-2"},
	}
	ledgerRepo.EXPECT().List(gomock.Any(), params).Return(entries, int64(12), nil)

	got, total, err := svc.ListEntries(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(12), total)
}

func TestReportingService_ListEntries_PaginationDefaults(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"zero values", 0, 0, 1, 20},
		{"negative page", -3, 10, 1, 10},
		{"oversized page", 1, 500, 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
			svc := NewReportingService(ledgerRepo)

			ledgerRepo.EXPECT().
				List(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params ports.LedgerListParams) ([]domain.LedgerEntry, int64, error) {
					assert.Equal(t, tt.wantPage, params.Page)
					assert.Equal(t, tt.wantPageSize, params.PageSize)
					return nil, 0, nil
				})

			_, _, err := svc.ListEntries(context.Background(), ports.LedgerListParams{Page: tt.page, PageSize: tt.size})
			require.NoError(t, err)
		})
	}
}

func TestReportingService_ListEntries_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	svc := NewReportingService(ledgerRepo)

	ledgerRepo.EXPECT().List(gomock.Any(), gomock.Any()).
		Return(nil, int64(0), errors.New("db error"))

	_, _, err := svc.ListEntries(context.Background(), ports.LedgerListParams{Page: 1, PageSize: 20})
	assertCode(t, err, "SYS_001")
}
