package ports

import (
	"context"
	"time"

	"digital-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SecurityGate runs pre-flight invariant checks before any balance-mutating
// operation. Checks run in a fixed order so the first violated invariant
// determines the reported error.
type SecurityGate interface {
	// CheckSender validates the debiting side. counterpartyID is nil for
	// external transfers.
	CheckSender(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, counterpartyID *uuid.UUID) (*domain.Account, error)
	// CheckReceiver validates the crediting side of an internal transfer.
	CheckReceiver(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

// FeeSchedule quotes the charge for a transfer before it runs.
type FeeSchedule interface {
	Quote(transferType domain.TransferType, currency string, amount decimal.Decimal) decimal.Decimal
}

// LedgerService is the single source of truth for balance mutation. Every
// commit mutates the account balance and appends a ledger entry in one atomic
// unit; previous/new balances are stamped from the post-mutation value the
// storage layer returns.
type LedgerService interface {
	// CommitInternal debits sender and credits receiver, appending one
	// debit entry referencing both sides. Zero fee.
	CommitInternal(ctx context.Context, sender, receiver *domain.Account, amount decimal.Decimal, reference, description string) (*domain.LedgerEntry, error)
	// CommitExternalDebit debits sender and appends a debit entry with no
	// receiver. The fee is recorded on the entry; the provider carves it
	// out of the destination amount.
	CommitExternalDebit(ctx context.Context, sender *domain.Account, amount, fee decimal.Decimal, reference, description string, status domain.EntryStatus) (*domain.LedgerEntry, error)
	// CommitInboundCredit credits receiver with amount minus fee and
	// appends a credit entry with no sender.
	CommitInboundCredit(ctx context.Context, receiver *domain.Account, amount, fee decimal.Decimal, reference, description string) (*domain.LedgerEntry, error)
	// RecordFailed appends a zero-delta failed entry, preserving the audit
	// trail of provider-reported outcomes. account may be nil for events
	// that match no wallet.
	RecordFailed(ctx context.Context, account *domain.Account, entryType domain.EntryType, amount, fee decimal.Decimal, currency, reference, description string) (*domain.LedgerEntry, error)
	// FinalizeStatus transitions a pending entry to a terminal status.
	// Failing a pending debit credits the held amount back to the sender
	// in the same transaction, so the failed row nets to zero movement.
	FinalizeStatus(ctx context.Context, reference string, status domain.EntryStatus) (*domain.LedgerEntry, error)
}

// ValidateTransferRequest is the input to the transfer-validation step.
type ValidateTransferRequest struct {
	UserID             uuid.UUID
	Type               domain.TransferType
	Amount             decimal.Decimal
	SenderAccountID    uuid.UUID
	RecipientAccountID *uuid.UUID
	Beneficiary        *domain.BeneficiaryDetails
}

// ValidateTransferResponse carries the one-time code and the quoted fee.
type ValidateTransferResponse struct {
	ValidationCode string
	Fee            decimal.Decimal
	ExpiresIn      time.Duration
}

// TransferRequest is the input to the transfer execution step.
type TransferRequest struct {
	UserID         uuid.UUID
	ValidationCode string
	Type           domain.TransferType
	Amount         decimal.Decimal
}

// TransferService orchestrates outbound transfers: validation, locking,
// routing, provider calls and ledger commit.
type TransferService interface {
	Validate(ctx context.Context, req ValidateTransferRequest) (*ValidateTransferResponse, error)
	Transfer(ctx context.Context, req TransferRequest) (*domain.LedgerEntry, error)
	// Verify reconciles a reference against the provider: pending entries
	// are finalized from the provider's verdict.
	Verify(ctx context.Context, reference string) (*domain.LedgerEntry, error)
}

// ReconcileService feeds normalized provider webhooks into the ledger,
// idempotently.
type ReconcileService interface {
	Reconcile(ctx context.Context, event domain.ProviderEvent) (*domain.LedgerEntry, error)
}

// AccountService provisions wallets with dedicated virtual accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, currency string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
	// GetProviderBalance fetches the live settlement-wallet balance from
	// the account's provider.
	GetProviderBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
}

// TokenService handles JWT token operations for the authentication layer.
type TokenService interface {
	Generate(userID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// AuthService resolves the calling user.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// ReportingService serves ledger listings.
type ReportingService interface {
	ListEntries(ctx context.Context, params LedgerListParams) ([]domain.LedgerEntry, int64, error)
}

// EventPublisher fans committed ledger entries out to downstream consumers
// (notifications, analytics). Best-effort: a publish failure never fails the
// transfer.
type EventPublisher interface {
	PublishLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error
	Close()
}
