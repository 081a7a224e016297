package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"
	"digital-wallet-backend/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransferService: the orchestration of
// validation codes, the security gate, per-user locking, provider routing and
// the ledger commit.
type TransferServiceImpl struct {
	gate      ports.SecurityGate
	fees      ports.FeeSchedule
	ledger    ports.LedgerService
	ledgers   ports.LedgerRepository
	accounts  ports.AccountRepository
	codes     ports.TransferCodeStore
	locks     ports.TransferLock
	gateways  ports.GatewaySelector
	publisher ports.EventPublisher
	lockTTL   time.Duration
	codeTTL   time.Duration
	log       zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	gate ports.SecurityGate,
	fees ports.FeeSchedule,
	ledger ports.LedgerService,
	ledgers ports.LedgerRepository,
	accounts ports.AccountRepository,
	codes ports.TransferCodeStore,
	locks ports.TransferLock,
	gateways ports.GatewaySelector,
	publisher ports.EventPublisher,
	lockTTL, codeTTL time.Duration,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		gate:      gate,
		fees:      fees,
		ledger:    ledger,
		ledgers:   ledgers,
		accounts:  accounts,
		codes:     codes,
		locks:     locks,
		gateways:  gateways,
		publisher: publisher,
		lockTTL:   lockTTL,
		codeTTL:   codeTTL,
		log:       log,
	}
}

// newValidationCode generates a one-time transfer validation code.
func newValidationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
}

// Validate runs the pre-flight checks, quotes the fee and issues a one-time
// validation code pinning the transfer the client accepted.
func (s *TransferServiceImpl) Validate(ctx context.Context, req ports.ValidateTransferRequest) (*ports.ValidateTransferResponse, error) {
	sender, err := s.gate.CheckSender(ctx, req.SenderAccountID, req.Amount, req.RecipientAccountID)
	if err != nil {
		return nil, err
	}
	// The sender account must belong to the caller.
	if sender.UserID != req.UserID {
		return nil, apperror.ErrInvalidAccount()
	}

	switch req.Type {
	case domain.TransferTypeInternal:
		if req.RecipientAccountID == nil {
			return nil, apperror.Validation("recipient_account_id is required for internal transfers")
		}
		receiver, err := s.gate.CheckReceiver(ctx, *req.RecipientAccountID)
		if err != nil {
			return nil, err
		}
		if receiver.Currency != sender.Currency {
			return nil, apperror.ErrInvalidCurrencyExchange()
		}
	case domain.TransferTypeExternal, domain.TransferTypePayout:
		if req.Beneficiary == nil || req.Beneficiary.AccountNumber == "" || req.Beneficiary.BankCode == "" {
			return nil, apperror.Validation("beneficiary account_number and bank_code are required")
		}
	default:
		return nil, apperror.Validation("unknown transfer type")
	}

	fee := s.fees.Quote(req.Type, sender.Currency, req.Amount)
	code := newValidationCode()
	quote := domain.TransferQuote{
		UserID:             req.UserID,
		Type:               req.Type,
		Amount:             req.Amount,
		Fee:                fee,
		Currency:           sender.Currency,
		SenderAccountID:    sender.ID,
		RecipientAccountID: req.RecipientAccountID,
		Beneficiary:        req.Beneficiary,
	}
	if err := s.codes.Put(ctx, req.UserID, code, quote, s.codeTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("store validation code: %w", err))
	}

	s.log.Info().
		Str("user_id", req.UserID.String()).
		Str("type", string(req.Type)).
		Str("amount", req.Amount.String()).
		Str("fee", fee.String()).
		Msg("transfer validated")
	return &ports.ValidateTransferResponse{
		ValidationCode: code,
		Fee:            fee,
		ExpiresIn:      s.codeTTL,
	}, nil
}

// Transfer executes a previously validated transfer. The validation code is
// consumed atomically before anything else; a consumed or expired code is a
// conflict, never a retry.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.LedgerEntry, error) {
	quote, err := s.codes.Consume(ctx, req.UserID, req.ValidationCode)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("consume validation code: %w", err))
	}
	if quote == nil {
		return nil, apperror.ErrInvalidatedTransfer()
	}
	// The code pins what was validated; a mismatch means the client changed
	// the transfer after validation.
	if quote.Type != req.Type || !quote.Amount.Equal(req.Amount) {
		return nil, apperror.ErrInvalidatedTransfer()
	}

	lock, err := s.locks.Acquire(ctx, req.UserID.String(), s.lockTTL)
	if err != nil {
		if errors.Is(err, ports.ErrLockContention) {
			metrics.LockContentionTotal.Inc()
			return nil, apperror.ErrTransferInProgress()
		}
		return nil, apperror.InternalError(fmt.Errorf("acquire transfer lock: %w", err))
	}
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), lock); err != nil {
			s.log.Warn().Err(err).Str("user_id", req.UserID.String()).Msg("transfer lock release failed")
		}
	}()

	// Re-check under the lock: balances may have moved since validation.
	sender, err := s.gate.CheckSender(ctx, quote.SenderAccountID, quote.Amount, quote.RecipientAccountID)
	if err != nil {
		metrics.TransfersTotal.WithLabelValues(string(quote.Type), "rejected").Inc()
		return nil, err
	}

	var entry *domain.LedgerEntry
	switch quote.Type {
	case domain.TransferTypeInternal:
		entry, err = s.runInternal(ctx, sender, quote)
	case domain.TransferTypeExternal, domain.TransferTypePayout:
		entry, err = s.runExternal(ctx, sender, quote)
	default:
		return nil, apperror.Validation("unknown transfer type")
	}
	if err != nil {
		metrics.TransfersTotal.WithLabelValues(string(quote.Type), "error").Inc()
		return nil, err
	}

	metrics.TransfersTotal.WithLabelValues(string(quote.Type), string(entry.Status)).Inc()
	if err := s.publisher.PublishLedgerEntry(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("reference", entry.Reference).Msg("ledger event publish failed")
	}
	return entry, nil
}

func (s *TransferServiceImpl) runInternal(ctx context.Context, sender *domain.Account, quote *domain.TransferQuote) (*domain.LedgerEntry, error) {
	if quote.RecipientAccountID == nil {
		return nil, apperror.Validation("recipient_account_id is required for internal transfers")
	}
	receiver, err := s.gate.CheckReceiver(ctx, *quote.RecipientAccountID)
	if err != nil {
		return nil, err
	}
	if receiver.Currency != sender.Currency {
		return nil, apperror.ErrInvalidCurrencyExchange()
	}

	reference := domain.NewReference("TRF")
	return s.ledger.CommitInternal(ctx, sender, receiver, quote.Amount, reference, "wallet to wallet transfer")
}

func (s *TransferServiceImpl) runExternal(ctx context.Context, sender *domain.Account, quote *domain.TransferQuote) (*domain.LedgerEntry, error) {
	if quote.Beneficiary == nil {
		return nil, apperror.Validation("beneficiary is required for external transfers")
	}
	gateway, err := s.gateways.ForProvider(sender.Provider)
	if err != nil {
		return nil, err
	}

	reference := domain.NewReference("TRF")
	description := "transfer to " + quote.Beneficiary.AccountNumber

	// Debit first, provider second: every reference the provider ever sees
	// already has a pending row holding the funds, so a crash between the two
	// steps is recoverable from the ledger alone via Verify or the webhook.
	entry, err := s.ledger.CommitExternalDebit(ctx, sender, quote.Amount, quote.Fee, reference, description, domain.EntryStatusPending)
	if err != nil {
		return nil, err
	}

	result, err := gateway.RunTransfer(ctx, ports.ProviderTransferRequest{
		Reference:     reference,
		Amount:        quote.Amount.Sub(quote.Fee),
		Currency:      quote.Currency,
		AccountNumber: quote.Beneficiary.AccountNumber,
		BankCode:      quote.Beneficiary.BankCode,
		Narration:     quote.Beneficiary.AccountName,
	})
	if err != nil {
		// Provider rejection: fail the pending debit, which refunds the held
		// amount. A transfer the provider processed despite the error shows
		// up as a duplicate in its reconciliation report, never a double debit.
		if _, ferr := s.ledger.FinalizeStatus(ctx, reference, domain.EntryStatusFailed); ferr != nil {
			s.log.Error().Err(ferr).Str("reference", reference).Msg("refund of rejected transfer did not apply")
		}
		return nil, apperror.ErrProviderFailure(err)
	}
	switch result.Status {
	case domain.EntryStatusSuccessful, domain.EntryStatusFailed:
		return s.ledger.FinalizeStatus(ctx, reference, result.Status)
	default:
		// Still pending at the provider; the webhook or Verify settles it.
		return entry, nil
	}
}

// Verify reconciles a reference against the provider. Pending entries are
// finalized from the provider's verdict; terminal entries come back as-is.
func (s *TransferServiceImpl) Verify(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgers.GetByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load ledger entry: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if entry.IsTerminal() {
		return entry, nil
	}
	if entry.SenderAccountID == nil {
		return entry, nil
	}

	sender, err := s.accounts.GetByID(ctx, *entry.SenderAccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load sender account: %w", err))
	}
	if sender == nil {
		return nil, apperror.ErrInvalidAccount()
	}
	gateway, err := s.gateways.ForProvider(sender.Provider)
	if err != nil {
		return nil, err
	}

	result, err := gateway.VerifyTransfer(ctx, reference)
	if err != nil {
		return nil, apperror.ErrProviderFailure(err)
	}
	if result.Status != domain.EntryStatusSuccessful && result.Status != domain.EntryStatusFailed {
		// Still pending at the provider; nothing to finalize.
		return entry, nil
	}
	return s.ledger.FinalizeStatus(ctx, reference, result.Status)
}
