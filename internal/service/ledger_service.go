package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. It is the only writer of
// account balances: every commit runs the atomic balance update and the
// ledger append inside one database transaction, and stamps previous/new
// balances from the value the update returned.
type LedgerServiceImpl struct {
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		transactor:  transactor,
		log:         log,
	}
}

// CommitInternal moves amount from sender to receiver and appends a single
// debit entry referencing both accounts. Internal transfers carry no fee.
func (s *LedgerServiceImpl) CommitInternal(ctx context.Context, sender, receiver *domain.Account, amount decimal.Decimal, reference, description string) (*domain.LedgerEntry, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	newBalance, err := s.accountRepo.Debit(ctx, dbTx, sender.ID, amount)
	if err != nil {
		if errors.Is(err, ports.ErrInsufficientBalance) {
			return nil, apperror.ErrInsufficientFunds()
		}
		return nil, apperror.InternalError(fmt.Errorf("debit sender: %w", err))
	}
	if _, err := s.accountRepo.Credit(ctx, dbTx, receiver.ID, amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit receiver: %w", err))
	}

	entry := &domain.LedgerEntry{
		ID:                uuid.New(),
		SenderAccountID:   &sender.ID,
		ReceiverAccountID: &receiver.ID,
		Amount:            amount,
		Fee:               decimal.Zero,
		PreviousBalance:   newBalance.Add(amount),
		NewBalance:        newBalance,
		Currency:          sender.Currency,
		Status:            domain.EntryStatusSuccessful,
		EntryType:         domain.EntryTypeDebit,
		Reference:         reference,
		Description:       description,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.ledgerRepo.Create(ctx, dbTx, entry); err != nil {
		if errors.Is(err, ports.ErrDuplicateReference) {
			return nil, apperror.ErrDuplicateReference()
		}
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("reference", reference).
		Str("sender", sender.ID.String()).
		Str("receiver", receiver.ID.String()).
		Str("amount", amount.String()).
		Msg("internal transfer committed")
	return entry, nil
}

// CommitExternalDebit debits the sender's wallet for an outbound transfer
// already accepted by the provider. The fee is recorded on the entry; the
// provider deducts it from the destination amount.
func (s *LedgerServiceImpl) CommitExternalDebit(ctx context.Context, sender *domain.Account, amount, fee decimal.Decimal, reference, description string, status domain.EntryStatus) (*domain.LedgerEntry, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	newBalance, err := s.accountRepo.Debit(ctx, dbTx, sender.ID, amount)
	if err != nil {
		if errors.Is(err, ports.ErrInsufficientBalance) {
			return nil, apperror.ErrInsufficientFunds()
		}
		return nil, apperror.InternalError(fmt.Errorf("debit sender: %w", err))
	}

	entry := &domain.LedgerEntry{
		ID:              uuid.New(),
		SenderAccountID: &sender.ID,
		Amount:          amount,
		Fee:             fee,
		PreviousBalance: newBalance.Add(amount),
		NewBalance:      newBalance,
		Currency:        sender.Currency,
		Status:          status,
		EntryType:       domain.EntryTypeDebit,
		Reference:       reference,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.ledgerRepo.Create(ctx, dbTx, entry); err != nil {
		if errors.Is(err, ports.ErrDuplicateReference) {
			return nil, apperror.ErrDuplicateReference()
		}
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("reference", reference).
		Str("sender", sender.ID.String()).
		Str("amount", amount.String()).
		Str("fee", fee.String()).
		Str("status", string(status)).
		Msg("external debit committed")
	return entry, nil
}

// CommitInboundCredit credits a wallet with amount minus fee for money that
// arrived on its dedicated virtual account.
func (s *LedgerServiceImpl) CommitInboundCredit(ctx context.Context, receiver *domain.Account, amount, fee decimal.Decimal, reference, description string) (*domain.LedgerEntry, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	credited := amount.Sub(fee)
	newBalance, err := s.accountRepo.Credit(ctx, dbTx, receiver.ID, credited)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit receiver: %w", err))
	}

	entry := &domain.LedgerEntry{
		ID:                uuid.New(),
		ReceiverAccountID: &receiver.ID,
		Amount:            amount,
		Fee:               fee,
		PreviousBalance:   newBalance.Sub(credited),
		NewBalance:        newBalance,
		Currency:          receiver.Currency,
		Status:            domain.EntryStatusSuccessful,
		EntryType:         domain.EntryTypeCredit,
		Reference:         reference,
		Description:       description,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.ledgerRepo.Create(ctx, dbTx, entry); err != nil {
		if errors.Is(err, ports.ErrDuplicateReference) {
			return nil, apperror.ErrDuplicateReference()
		}
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("reference", reference).
		Str("receiver", receiver.ID.String()).
		Str("amount", amount.String()).
		Str("fee", fee.String()).
		Msg("inbound credit committed")
	return entry, nil
}

// RecordFailed appends a zero-delta failed entry. No balance is touched;
// previous and new balances are stamped equal so the row replays cleanly.
// A nil account records an event that matched no wallet.
func (s *LedgerServiceImpl) RecordFailed(ctx context.Context, account *domain.Account, entryType domain.EntryType, amount, fee decimal.Decimal, currency, reference, description string) (*domain.LedgerEntry, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entry := &domain.LedgerEntry{
		ID:              uuid.New(),
		Amount:          amount,
		Fee:             fee,
		PreviousBalance: decimal.Zero,
		NewBalance:      decimal.Zero,
		Currency:        currency,
		Status:          domain.EntryStatusFailed,
		EntryType:       entryType,
		Reference:       reference,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}
	if account != nil {
		entry.PreviousBalance = account.Balance
		entry.NewBalance = account.Balance
		if entryType == domain.EntryTypeDebit {
			entry.SenderAccountID = &account.ID
		} else {
			entry.ReceiverAccountID = &account.ID
		}
	}
	if err := s.ledgerRepo.Create(ctx, dbTx, entry); err != nil {
		if errors.Is(err, ports.ErrDuplicateReference) {
			return nil, apperror.ErrDuplicateReference()
		}
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	logEvent := s.log.Warn().
		Str("reference", reference).
		Str("amount", amount.String())
	if account != nil {
		logEvent = logEvent.Str("account", account.ID.String())
	}
	logEvent.Msg("failed transfer recorded")
	return entry, nil
}

// FinalizeStatus transitions a pending entry to a terminal status. Entries
// already terminal are returned unchanged. Failing a pending debit credits
// the held amount back to the sender in the same transaction and rewinds the
// row's stamped delta, so the failed row nets to zero movement.
func (s *LedgerServiceImpl) FinalizeStatus(ctx context.Context, reference string, status domain.EntryStatus) (*domain.LedgerEntry, error) {
	if status != domain.EntryStatusSuccessful && status != domain.EntryStatusFailed {
		return nil, apperror.Validation("finalize status must be terminal")
	}

	entry, err := s.ledgerRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load ledger entry: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if entry.IsTerminal() {
		return entry, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if status == domain.EntryStatusFailed && entry.EntryType == domain.EntryTypeDebit && entry.SenderAccountID != nil {
		// The pending debit held the funds; a failed verdict returns them.
		if _, err := s.accountRepo.Credit(ctx, dbTx, *entry.SenderAccountID, entry.Amount); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("refund failed debit: %w", err))
		}
		if err := s.ledgerRepo.MarkFailed(ctx, dbTx, entry.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("mark entry failed: %w", err))
		}
		entry.NewBalance = entry.PreviousBalance
	} else {
		if err := s.ledgerRepo.UpdateStatus(ctx, dbTx, entry.ID, status); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update entry status: %w", err))
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	entry.Status = status
	s.log.Info().
		Str("reference", reference).
		Str("status", string(status)).
		Msg("ledger entry finalized")
	return entry, nil
}
