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

// AccountServiceImpl implements ports.AccountService. Provisioning picks the
// configured default provider once and stores it on the account; every later
// provider interaction routes through that stored value.
type AccountServiceImpl struct {
	accountRepo     ports.AccountRepository
	userRepo        ports.UserRepository
	gateways        ports.GatewaySelector
	defaultProvider domain.Provider
	dailyLimit      int
	log             zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accountRepo ports.AccountRepository,
	userRepo ports.UserRepository,
	gateways ports.GatewaySelector,
	defaultProvider domain.Provider,
	dailyLimit int,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo:     accountRepo,
		userRepo:        userRepo,
		gateways:        gateways,
		defaultProvider: defaultProvider,
		dailyLimit:      dailyLimit,
		log:             log,
	}
}

// CreateAccount provisions a wallet with a dedicated virtual account from the
// default provider. One wallet per user per currency.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, userID uuid.UUID, currency string) (*domain.Account, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	existing, err := s.accountRepo.GetByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check existing account: %w", err))
	}
	if existing != nil {
		return nil, apperror.Validation("account already exists for this currency")
	}

	gateway, err := s.gateways.ForProvider(s.defaultProvider)
	if err != nil {
		return nil, err
	}
	dedicated, err := gateway.CreateDedicatedAccount(ctx, ports.DedicatedAccountRequest{
		CustomerName: user.Name,
		Email:        user.Email,
		Currency:     currency,
	})
	if err != nil {
		return nil, apperror.ErrProviderFailure(err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:                     uuid.New(),
		UserID:                 userID,
		Currency:               currency,
		Balance:                decimal.Zero,
		DailyLimit:             s.dailyLimit,
		Enabled:                true,
		Provider:               s.defaultProvider,
		DedicatedAccountNumber: dedicated.AccountNumber,
		DedicatedBankName:      dedicated.BankName,
		ProviderCustomerID:     dedicated.ProviderCustomerID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("user_id", userID.String()).
		Str("provider", string(account.Provider)).
		Str("dedicated_account", account.DedicatedAccountNumber).
		Msg("account provisioned")
	return account, nil
}

// ListAccounts returns the caller's wallets.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

// GetProviderBalance fetches the live settlement-wallet balance from the
// account's provider.
func (s *AccountServiceImpl) GetProviderBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, apperror.InternalError(fmt.Errorf("load account: %w", err))
	}
	if account == nil {
		return decimal.Zero, apperror.ErrInvalidAccount()
	}
	gateway, err := s.gateways.ForProvider(account.Provider)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := gateway.GetWalletBalance(ctx, account.Currency)
	if err != nil {
		return decimal.Zero, apperror.ErrProviderFailure(err)
	}
	return balance, nil
}
