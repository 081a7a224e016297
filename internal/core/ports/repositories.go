package ports

import (
	"context"
	"errors"
	"time"

	"digital-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Sentinel errors translated by the storage adapters from driver-level
// failures. Services map these onto the apperror taxonomy.
var (
	// ErrInsufficientBalance is returned by Debit when the atomic guard
	// rejects the decrement (amount >= balance at execution time).
	ErrInsufficientBalance = errors.New("insufficient balance for debit")
	// ErrDuplicateReference is returned when a ledger insert hits the
	// unique constraint on reference. This is the idempotency contract.
	ErrDuplicateReference = errors.New("duplicate ledger reference")
	// ErrLockContention is returned by Acquire when the lock is already
	// held. Retryable; there is no queuing.
	ErrLockContention = errors.New("lock already held")
)

// AccountRepository defines persistence operations for wallet accounts.
// Debit and Credit are the only balance writers and are storage-level atomic
// increments, never read-then-write. Both MUST run inside a transaction.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	GetByUserAndCurrency(ctx context.Context, userID uuid.UUID, currency string) (*domain.Account, error)
	// GetByDedicatedNumber resolves a wallet from the provider-side
	// dedicated virtual account number carried by inbound webhooks.
	GetByDedicatedNumber(ctx context.Context, provider domain.Provider, accountNumber string) (*domain.Account, error)
	// Debit decrements the balance by amount and bumps the daily counter.
	// Returns the post-mutation balance. The guard is strict: the debit is
	// rejected unless amount < balance.
	Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	// Credit increments the balance by amount and returns the
	// post-mutation balance.
	Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

// LedgerRepository defines persistence for immutable ledger entries.
type LedgerRepository interface {
	// Create appends an entry. A reference collision surfaces as
	// ErrDuplicateReference.
	Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	// GetByReference returns (nil, nil) when no entry carries the reference.
	GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error)
	// UpdateStatus performs the pending -> terminal transition. Any other
	// mutation of a committed entry is forbidden.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.EntryStatus) error
	// MarkFailed fails a pending entry and rewinds its stamped new_balance
	// to previous_balance, so the row reads as zero net movement. Runs in
	// the same transaction as the compensating balance credit.
	MarkFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	List(ctx context.Context, params LedgerListParams) ([]domain.LedgerEntry, int64, error)
}

// LedgerListParams holds filter + pagination for listing ledger entries.
type LedgerListParams struct {
	AccountID *uuid.UUID
	UserID    *uuid.UUID
	Status    *domain.EntryStatus
	Type      *domain.EntryType
	From      *int64 // Unix timestamp
	To        *int64 // Unix timestamp
	Page      int
	PageSize  int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Lock is a held per-user mutual exclusion lock. Token proves ownership at
// release time.
type Lock struct {
	Key   string
	Token string
}

// TransferLock serializes balance-mutating operations per user. Acquire is
// fail-fast: a contended lock is a retryable error, not a queued wait.
type TransferLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lock, error)
	Release(ctx context.Context, lock *Lock) error
}

// TransferCodeStore issues and consumes one-time transfer validation codes.
// Consume is atomic (get-and-delete); a second consumption of the same code
// returns (nil, nil).
type TransferCodeStore interface {
	Put(ctx context.Context, userID uuid.UUID, code string, quote domain.TransferQuote, ttl time.Duration) error
	Consume(ctx context.Context, userID uuid.UUID, code string) (*domain.TransferQuote, error)
}
