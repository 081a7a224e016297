package service

import (
	"context"
	"fmt"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReconcileServiceImpl implements ports.ReconcileService. Inbound provider
// events mutate the ledger exactly once: replays are rejected on the unique
// reference constraint, not on a lock.
type ReconcileServiceImpl struct {
	accounts  ports.AccountRepository
	ledgers   ports.LedgerRepository
	ledger    ports.LedgerService
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewReconcileService creates a new ReconcileServiceImpl.
func NewReconcileService(
	accounts ports.AccountRepository,
	ledgers ports.LedgerRepository,
	ledger ports.LedgerService,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		accounts:  accounts,
		ledgers:   ledgers,
		ledger:    ledger,
		publisher: publisher,
		log:       log,
	}
}

// Reconcile feeds a normalized provider event into the ledger.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, event domain.ProviderEvent) (*domain.LedgerEntry, error) {
	switch event.Type {
	case domain.EventInboundCredit:
		return s.reconcileInboundCredit(ctx, event)
	case domain.EventTransferSuccess:
		return s.finalizeOutbound(ctx, event, domain.EntryStatusSuccessful)
	case domain.EventTransferFailed:
		return s.finalizeOutbound(ctx, event, domain.EntryStatusFailed)
	default:
		// No side effects for anything unrecognized.
		return nil, apperror.ErrUnhandledWebhookEvent(event.RawEventName)
	}
}

// reconcileInboundCredit credits the wallet behind the dedicated account the
// money arrived on. The pre-check on reference keeps the common replay cheap;
// the unique constraint settles concurrent races.
func (s *ReconcileServiceImpl) reconcileInboundCredit(ctx context.Context, event domain.ProviderEvent) (*domain.LedgerEntry, error) {
	account, err := s.accounts.GetByDedicatedNumber(ctx, event.Provider, event.DestinationAccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve dedicated account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrInvalidAccount()
	}

	existing, err := s.ledgers.GetByReference(ctx, event.Reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check reference: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateReference()
	}

	description := "inbound credit"
	if event.SourceAccountName != "" {
		description = "inbound credit from " + event.SourceAccountName
	}
	entry, err := s.ledger.CommitInboundCredit(ctx, account, event.Amount, event.Fee, event.Reference, description)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishLedgerEntry(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("reference", entry.Reference).Msg("ledger event publish failed")
	}
	s.log.Info().
		Str("provider", string(event.Provider)).
		Str("reference", event.Reference).
		Str("amount", event.Amount.String()).
		Msg("inbound credit reconciled")
	return entry, nil
}

// finalizeOutbound transitions the pending debit behind an outbound transfer
// to the provider-reported terminal status. Failed verdicts refund the held
// amount through FinalizeStatus. A replay of an already-terminal reference is
// a duplicate.
func (s *ReconcileServiceImpl) finalizeOutbound(ctx context.Context, event domain.ProviderEvent, status domain.EntryStatus) (*domain.LedgerEntry, error) {
	existing, err := s.ledgers.GetByReference(ctx, event.Reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check reference: %w", err))
	}
	if existing == nil {
		// Outbound debits are committed before the provider ever sees the
		// reference, so an unknown one was not initiated here. Failure
		// verdicts are still recorded as zero-delta rows for reconciliation
		// reports; the unique constraint absorbs replays.
		if status != domain.EntryStatusFailed {
			return nil, apperror.ErrNotFound("transaction")
		}
		entry, err := s.ledger.RecordFailed(ctx, nil, domain.EntryTypeDebit, event.Amount, event.Fee, event.Currency, event.Reference, "unmatched provider transfer failure")
		if err != nil {
			return nil, err
		}
		s.log.Warn().
			Str("provider", string(event.Provider)).
			Str("reference", event.Reference).
			Msg("transfer failure for unknown reference recorded")
		return entry, nil
	}
	if existing.IsTerminal() {
		return nil, apperror.ErrDuplicateReference()
	}

	entry, err := s.ledger.FinalizeStatus(ctx, event.Reference, status)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishLedgerEntry(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("reference", entry.Reference).Msg("ledger event publish failed")
	}
	s.log.Info().
		Str("provider", string(event.Provider)).
		Str("reference", event.Reference).
		Str("status", string(status)).
		Msg("outbound transfer reconciled")
	return entry, nil
}
