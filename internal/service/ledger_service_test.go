package service

import (
	"context"
	"errors"
	"testing"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// noopTx satisfies pgx.Tx for service-level tests; commit and rollback are
// no-ops so the mocks own all assertions.
type noopTx struct {
	pgx.Tx
}

func (noopTx) Commit(ctx context.Context) error   { return nil }
func (noopTx) Rollback(ctx context.Context) error { return nil }

type ledgerTestDeps struct {
	accounts   *mocks.MockAccountRepository
	ledgers    *mocks.MockLedgerRepository
	transactor *mocks.MockDBTransactor
}

func setupLedgerService(t *testing.T) (*LedgerServiceImpl, ledgerTestDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := ledgerTestDeps{
		accounts:   mocks.NewMockAccountRepository(ctrl),
		ledgers:    mocks.NewMockLedgerRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
	}
	deps.transactor.EXPECT().Begin(gomock.Any()).Return(noopTx{}, nil).AnyTimes()
	svc := NewLedgerService(deps.accounts, deps.ledgers, deps.transactor, zerolog.Nop())
	return svc, deps
}

func ledgerAccount(balance string) *domain.Account {
	return &domain.Account{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Currency: "NGN",
		Balance:  decimal.RequireFromString(balance),
		Enabled:  true,
	}
}

func TestLedgerService_CommitInternal(t *testing.T) {
	svc, deps := setupLedgerService(t)

	sender := ledgerAccount("10000.00")
	receiver := ledgerAccount("200.00")
	amount := decimal.RequireFromString("500")

	deps.accounts.EXPECT().
		Debit(gomock.Any(), gomock.Any(), sender.ID, amount).
		Return(decimal.RequireFromString("9500.00"), nil)
	deps.accounts.EXPECT().
		Credit(gomock.Any(), gomock.Any(), receiver.ID, amount).
		Return(decimal.RequireFromString("700.00"), nil)
	deps.ledgers.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, entry *domain.LedgerEntry) error {
			assert.Equal(t, &sender.ID, entry.SenderAccountID)
			assert.Equal(t, &receiver.ID, entry.ReceiverAccountID)
			assert.True(t, entry.Fee.IsZero())
			assert.True(t, entry.PreviousBalance.Equal(decimal.RequireFromString("10000.00")))
			assert.True(t, entry.NewBalance.Equal(decimal.RequireFromString("9500.00")))
			assert.Equal(t, domain.EntryStatusSuccessful, entry.Status)
			assert.Equal(t, domain.EntryTypeDebit, entry.EntryType)
			assert.True(t, entry.Consistent())
			return nil
		})

	entry, err := svc.CommitInternal(context.Background(), sender, receiver, amount, "TRF-1", "wallet to wallet transfer")
	require.NoError(t, err)
	assert.Equal(t, "TRF-1", entry.Reference)
}

func TestLedgerService_CommitInternal_InsufficientBalance(t *testing.T) {
	svc, deps := setupLedgerService(t)

	sender := ledgerAccount("100.00")
	receiver := ledgerAccount("0")
	amount := decimal.RequireFromString("500")

	deps.accounts.EXPECT().
		Debit(gomock.Any(), gomock.Any(), sender.ID, amount).
		Return(decimal.Zero, ports.ErrInsufficientBalance)

	_, err := svc.CommitInternal(context.Background(), sender, receiver, amount, "TRF-2", "")
	assertCode(t, err, "TRF_002")
}

func TestLedgerService_CommitExternalDebit_DuplicateReference(t *testing.T) {
	svc, deps := setupLedgerService(t)

	sender := ledgerAccount("10000.00")
	amount := decimal.RequireFromString("500")
	fee := decimal.RequireFromString("2.50")

	deps.accounts.EXPECT().
		Debit(gomock.Any(), gomock.Any(), sender.ID, amount).
		Return(decimal.RequireFromString("9500.00"), nil)
	deps.ledgers.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ports.ErrDuplicateReference)

	_, err := svc.CommitExternalDebit(context.Background(), sender, amount, fee, "TRF-DUP", "", domain.EntryStatusPending)
	assertCode(t, err, "TRF_006")
}

func TestLedgerService_CommitExternalDebit_StampsStatus(t *testing.T) {
	svc, deps := setupLedgerService(t)

	sender := ledgerAccount("10000.00")
	amount := decimal.RequireFromString("5000")
	fee := decimal.RequireFromString("25")

	deps.accounts.EXPECT().
		Debit(gomock.Any(), gomock.Any(), sender.ID, amount).
		Return(decimal.RequireFromString("5000.00"), nil)
	deps.ledgers.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, entry *domain.LedgerEntry) error {
			assert.Equal(t, domain.EntryStatusPending, entry.Status)
			assert.Nil(t, entry.ReceiverAccountID)
			assert.True(t, entry.Fee.Equal(fee))
			return nil
		})

	entry, err := svc.CommitExternalDebit(context.Background(), sender, amount, fee, "TRF-3", "transfer to 0123456789", domain.EntryStatusPending)
	require.NoError(t, err)
	assert.True(t, entry.NewBalance.Equal(decimal.RequireFromString("5000.00")))
}

func TestLedgerService_CommitInboundCredit(t *testing.T) {
	svc, deps := setupLedgerService(t)

	receiver := ledgerAccount("1000.00")
	amount := decimal.RequireFromString("5000")
	fee := decimal.RequireFromString("50")

	// Credited net of the provider fee.
	deps.accounts.EXPECT().
		Credit(gomock.Any(), gomock.Any(), receiver.ID, decimal.RequireFromString("4950")).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, _ uuid.UUID, credited decimal.Decimal) (decimal.Decimal, error) {
			return decimal.RequireFromString("1000.00").Add(credited), nil
		})
	deps.ledgers.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, entry *domain.LedgerEntry) error {
			assert.Nil(t, entry.SenderAccountID)
			assert.Equal(t, &receiver.ID, entry.ReceiverAccountID)
			assert.Equal(t, domain.EntryTypeCredit, entry.EntryType)
			assert.True(t, entry.PreviousBalance.Equal(decimal.RequireFromString("1000.00")))
			assert.True(t, entry.NewBalance.Equal(decimal.RequireFromString("5950.00")))
			assert.True(t, entry.Consistent())
			return nil
		})

	entry, err := svc.CommitInboundCredit(context.Background(), receiver, amount, fee, "PSK-REF-1", "inbound credit")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusSuccessful, entry.Status)
}

func TestLedgerService_RecordFailed_ZeroDelta(t *testing.T) {
	svc, deps := setupLedgerService(t)

	account := ledgerAccount("10000.00")
	amount := decimal.RequireFromString("5000")

	deps.ledgers.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, entry *domain.LedgerEntry) error {
			assert.Equal(t, domain.EntryStatusFailed, entry.Status)
			assert.Equal(t, &account.ID, entry.SenderAccountID)
			assert.True(t, entry.PreviousBalance.Equal(entry.NewBalance))
			assert.True(t, entry.Consistent())
			return nil
		})

	entry, err := svc.RecordFailed(context.Background(), account, domain.EntryTypeDebit, amount, decimal.RequireFromString("25"), "NGN", "TRF-FAIL", "provider rejected")
	require.NoError(t, err)
	assert.True(t, entry.NewBalance.Equal(account.Balance))
}

func TestLedgerService_RecordFailed_NoAccount(t *testing.T) {
	svc, deps := setupLedgerService(t)

	deps.ledgers.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, entry *domain.LedgerEntry) error {
			assert.Nil(t, entry.SenderAccountID)
			assert.Nil(t, entry.ReceiverAccountID)
			assert.Equal(t, "NGN", entry.Currency)
			assert.True(t, entry.PreviousBalance.IsZero())
			assert.True(t, entry.NewBalance.IsZero())
			assert.True(t, entry.Consistent())
			return nil
		})

	entry, err := svc.RecordFailed(context.Background(), nil, domain.EntryTypeDebit,
		decimal.RequireFromString("5000"), decimal.Zero, "NGN", "TRF-ALIEN", "unmatched provider transfer failure")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusFailed, entry.Status)
}

func TestLedgerService_FinalizeStatus(t *testing.T) {
	svc, deps := setupLedgerService(t)

	pending := &domain.LedgerEntry{
		ID:        uuid.New(),
		Reference: "TRF-PEND",
		Status:    domain.EntryStatusPending,
	}
	deps.ledgers.EXPECT().GetByReference(gomock.Any(), "TRF-PEND").Return(pending, nil)
	deps.ledgers.EXPECT().
		UpdateStatus(gomock.Any(), gomock.Any(), pending.ID, domain.EntryStatusSuccessful).
		Return(nil)

	entry, err := svc.FinalizeStatus(context.Background(), "TRF-PEND", domain.EntryStatusSuccessful)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusSuccessful, entry.Status)
}

func TestLedgerService_FinalizeStatus_FailedDebitRefunds(t *testing.T) {
	svc, deps := setupLedgerService(t)

	senderID := uuid.New()
	pending := &domain.LedgerEntry{
		ID:              uuid.New(),
		SenderAccountID: &senderID,
		Amount:          decimal.RequireFromString("2000"),
		Fee:             decimal.RequireFromString("10"),
		PreviousBalance: decimal.RequireFromString("10000.00"),
		NewBalance:      decimal.RequireFromString("8000.00"),
		Reference:       "TRF-REFUND",
		Status:          domain.EntryStatusPending,
		EntryType:       domain.EntryTypeDebit,
	}
	deps.ledgers.EXPECT().GetByReference(gomock.Any(), "TRF-REFUND").Return(pending, nil)
	// The held amount goes back to the sender in the same transaction as the
	// status flip; UpdateStatus alone would strand the debit.
	deps.accounts.EXPECT().
		Credit(gomock.Any(), gomock.Any(), senderID, decimal.RequireFromString("2000")).
		Return(decimal.RequireFromString("10000.00"), nil)
	deps.ledgers.EXPECT().
		MarkFailed(gomock.Any(), gomock.Any(), pending.ID).
		Return(nil)

	entry, err := svc.FinalizeStatus(context.Background(), "TRF-REFUND", domain.EntryStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusFailed, entry.Status)
	assert.True(t, entry.NewBalance.Equal(entry.PreviousBalance), "failed rows carry zero delta")
	assert.True(t, entry.Consistent())
}

func TestLedgerService_FinalizeStatus_AlreadyTerminal(t *testing.T) {
	svc, deps := setupLedgerService(t)

	terminal := &domain.LedgerEntry{
		ID:        uuid.New(),
		Reference: "TRF-DONE",
		Status:    domain.EntryStatusFailed,
	}
	deps.ledgers.EXPECT().GetByReference(gomock.Any(), "TRF-DONE").Return(terminal, nil)
	// No UpdateStatus call.

	entry, err := svc.FinalizeStatus(context.Background(), "TRF-DONE", domain.EntryStatusSuccessful)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusFailed, entry.Status)
}

func TestLedgerService_FinalizeStatus_NonTerminalTarget(t *testing.T) {
	svc, _ := setupLedgerService(t)

	_, err := svc.FinalizeStatus(context.Background(), "TRF-PEND", domain.EntryStatusPending)
	assertCode(t, err, "VAL_001")
}

func TestLedgerService_FinalizeStatus_Unknown(t *testing.T) {
	svc, deps := setupLedgerService(t)

	deps.ledgers.EXPECT().GetByReference(gomock.Any(), "TRF-NOPE").Return(nil, nil)

	_, err := svc.FinalizeStatus(context.Background(), "TRF-NOPE", domain.EntryStatusSuccessful)
	assertCode(t, err, "TRF_008")
}

func TestLedgerService_CommitInternal_BeginFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	ledgers := mocks.NewMockLedgerRepository(ctrl)
	transactor := mocks.NewMockDBTransactor(ctrl)
	transactor.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("pool exhausted"))
	svc := NewLedgerService(accounts, ledgers, transactor, zerolog.Nop())

	_, err := svc.CommitInternal(context.Background(), ledgerAccount("100"), ledgerAccount("0"), decimal.RequireFromString("10"), "TRF-X", "")
	assertCode(t, err, "SYS_001")
}
