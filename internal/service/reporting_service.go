package service

import (
	"context"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	ledgerRepo ports.LedgerRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(ledgerRepo ports.LedgerRepository) ports.ReportingService {
	return &reportingService{ledgerRepo: ledgerRepo}
}

// ListEntries returns a paginated, filtered ledger listing.
func (s *reportingService) ListEntries(ctx context.Context, params ports.LedgerListParams) ([]domain.LedgerEntry, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	entries, total, err := s.ledgerRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return entries, total, nil
}
