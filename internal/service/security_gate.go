package service

import (
	"context"
	"fmt"
	"time"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SecurityGateImpl implements ports.SecurityGate. The check order is fixed:
// the first violated invariant determines the error the caller sees.
type SecurityGateImpl struct {
	accountRepo ports.AccountRepository
	log         zerolog.Logger
}

// NewSecurityGate creates a new SecurityGateImpl.
func NewSecurityGate(accountRepo ports.AccountRepository, log zerolog.Logger) *SecurityGateImpl {
	return &SecurityGateImpl{
		accountRepo: accountRepo,
		log:         log,
	}
}

// CheckSender validates the debiting side of a transfer. Order: existence,
// enabled, pnd, daily limit, blacklist, self-transfer, amount positive,
// amount strictly below balance.
func (s *SecurityGateImpl) CheckSender(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, counterpartyID *uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load sender account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrInvalidAccount()
	}
	if !account.Enabled {
		return nil, apperror.ErrAccountDisabled()
	}
	if account.PND {
		return nil, apperror.ErrPaymentRestricted()
	}
	if account.EffectiveDailyCount(time.Now().UTC()) >= account.DailyLimit {
		return nil, apperror.ErrDailyLimitExceeded()
	}
	if account.Blacklisted {
		return nil, apperror.ErrAccountBlacklisted()
	}
	if counterpartyID != nil && *counterpartyID == account.ID {
		return nil, apperror.ErrSelfTransfer()
	}
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	// Strict: a transfer of the full balance is rejected.
	if amount.GreaterThanOrEqual(account.Balance) {
		return nil, apperror.ErrInsufficientFunds()
	}
	return account, nil
}

// CheckReceiver validates the crediting side of an internal transfer.
// Order: existence, enabled, pnc.
func (s *SecurityGateImpl) CheckReceiver(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load receiver account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrInvalidAccount()
	}
	if !account.Enabled {
		return nil, apperror.ErrAccountDisabled()
	}
	if account.PNC {
		return nil, apperror.ErrReceiveRestricted()
	}
	return account, nil
}
