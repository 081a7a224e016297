package postgres

import (
	"context"
	"errors"
	"fmt"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, user_id, currency, balance, daily_count, daily_limit, last_tx_date,
	enabled, blacklisted, pnd, pnc, provider, dedicated_account_number, dedicated_bank_name,
	provider_customer_id, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, user_id, currency, balance, daily_count, daily_limit, last_tx_date,
		enabled, blacklisted, pnd, pnc, provider, dedicated_account_number, dedicated_bank_name,
		provider_customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.Currency, a.Balance, a.DailyCount, a.DailyLimit, a.LastTxDate,
		a.Enabled, a.Blacklisted, a.PND, a.PNC, a.Provider, a.DedicatedAccountNumber,
		a.DedicatedBankName, a.ProviderCustomerID, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by UUID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID fetches all accounts owned by a user.
func (r *AccountRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE user_id = $1 ORDER BY created_at`, accountColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts by user: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a := domain.Account{}
		if err := scanAccountFields(rows, &a); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// GetByUserAndCurrency fetches a user's account in a given currency.
func (r *AccountRepo) GetByUserAndCurrency(ctx context.Context, userID uuid.UUID, currency string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE user_id = $1 AND currency = $2`, accountColumns)
	return r.scanAccount(r.pool.QueryRow(ctx, query, userID, currency))
}

// GetByDedicatedNumber resolves an account from its provider-side dedicated
// virtual account number.
func (r *AccountRepo) GetByDedicatedNumber(ctx context.Context, provider domain.Provider, accountNumber string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE provider = $1 AND dedicated_account_number = $2`, accountColumns)
	return r.scanAccount(r.pool.QueryRow(ctx, query, provider, accountNumber))
}

// Debit atomically decrements the balance and bumps the daily counter within
// a transaction. The guard is strict (balance > amount): a debit equal to the
// full balance is rejected. Returns the post-mutation balance.
func (r *AccountRepo) Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE accounts
		SET balance = balance - $1,
			daily_count = CASE WHEN last_tx_date = CURRENT_DATE THEN daily_count + 1 ELSE 1 END,
			last_tx_date = CURRENT_DATE,
			updated_at = NOW()
		WHERE id = $2 AND balance > $1
		RETURNING balance`

	var newBalance decimal.Decimal
	err := tx.QueryRow(ctx, query, amount, accountID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ports.ErrInsufficientBalance
		}
		return decimal.Zero, fmt.Errorf("debit account: %w", err)
	}
	return newBalance, nil
}

// Credit atomically increments the balance within a transaction. Returns the
// post-mutation balance.
func (r *AccountRepo) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance`

	var newBalance decimal.Decimal
	err := tx.QueryRow(ctx, query, amount, accountID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("credit account %s: %w", accountID, pgx.ErrNoRows)
		}
		return decimal.Zero, fmt.Errorf("credit account: %w", err)
	}
	return newBalance, nil
}

// scanAccount scans a single row into an Account.
func (r *AccountRepo) scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	if err := scanAccountFields(row, a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}

func scanAccountFields(row pgx.Row, a *domain.Account) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.Currency, &a.Balance, &a.DailyCount, &a.DailyLimit, &a.LastTxDate,
		&a.Enabled, &a.Blacklisted, &a.PND, &a.PNC, &a.Provider, &a.DedicatedAccountNumber,
		&a.DedicatedBankName, &a.ProviderCustomerID, &a.CreatedAt, &a.UpdatedAt,
	)
}
