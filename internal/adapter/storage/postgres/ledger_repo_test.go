package postgres

import (
	"context"
	"testing"
	"time"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry() *domain.LedgerEntry {
	sender := uuid.New()
	receiver := uuid.New()
	return &domain.LedgerEntry{
		ID:                uuid.New(),
		SenderAccountID:   &sender,
		ReceiverAccountID: &receiver,
		Amount:            decimal.RequireFromString("1000.00"),
		Fee:               decimal.Zero,
		PreviousBalance:   decimal.RequireFromString("5000.00"),
		NewBalance:        decimal.RequireFromString("4000.00"),
		Currency:          "NGN",
		Status:            domain.EntryStatusSuccessful,
		EntryType:         domain.EntryTypeDebit,
		Reference:         domain.NewReference("TRF"),
		Description:       "internal transfer",
		CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
}

func ledgerColumnNames() []string {
	return []string{
		"id", "sender_account_id", "receiver_account_id", "amount", "fee", "previous_balance",
		"new_balance", "currency", "status", "entry_type", "reference", "description", "created_at",
	}
}

func ledgerRow(e *domain.LedgerEntry) *pgxmock.Rows {
	return pgxmock.NewRows(ledgerColumnNames()).AddRow(
		e.ID, e.SenderAccountID, e.ReceiverAccountID, e.Amount, e.Fee,
		e.PreviousBalance, e.NewBalance, e.Currency, e.Status, e.EntryType,
		e.Reference, e.Description, e.CreatedAt,
	)
}

func TestLedgerRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	e := newTestEntry()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(e.ID, e.SenderAccountID, e.ReceiverAccountID, e.Amount, e.Fee,
			e.PreviousBalance, e.NewBalance, e.Currency, e.Status, e.EntryType,
			e.Reference, e.Description, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_Create_DuplicateReference(t *testing.T) {
	// The unique index on reference is the idempotency barrier. A 23505 from
	// postgres must map to ports.ErrDuplicateReference, never leak as raw SQL.
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	e := newTestEntry()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(e.ID, e.SenderAccountID, e.ReceiverAccountID, e.Amount, e.Fee,
			e.PreviousBalance, e.NewBalance, e.Currency, e.Status, e.EntryType,
			e.Reference, e.Description, e.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ledger_entries_reference_key"})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, e)
	assert.ErrorIs(t, err, ports.ErrDuplicateReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_GetByReference(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	e := newTestEntry()

	mock.ExpectQuery("SELECT .+ FROM ledger_entries WHERE reference").
		WithArgs(e.Reference).
		WillReturnRows(ledgerRow(e))

	result, err := repo.GetByReference(context.Background(), e.Reference)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, e.Reference, result.Reference)
	assert.True(t, e.Amount.Equal(result.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_GetByReference_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM ledger_entries WHERE reference").
		WithArgs("TRF-UNKNOWN").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByReference(context.Background(), "TRF-UNKNOWN")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE ledger_entries SET status").
		WithArgs(domain.EntryStatusSuccessful, id, domain.EntryStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.EntryStatusSuccessful)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_UpdateStatus_NotPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE ledger_entries SET status").
		WithArgs(domain.EntryStatusFailed, id, domain.EntryStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.EntryStatusFailed)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not pending")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_MarkFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	id := uuid.New()

	// The stamped delta is rewound in the same statement as the status flip.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE ledger_entries SET status = \\$1, new_balance = previous_balance").
		WithArgs(domain.EntryStatusFailed, id, domain.EntryStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.MarkFailed(context.Background(), tx, id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_MarkFailed_NotPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE ledger_entries SET status = \\$1, new_balance = previous_balance").
		WithArgs(domain.EntryStatusFailed, id, domain.EntryStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.MarkFailed(context.Background(), tx, id)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not pending")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_List_ByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	e := newTestEntry()
	status := domain.EntryStatusSuccessful

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM ledger_entries").
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM ledger_entries .+ ORDER BY created_at DESC").
		WithArgs(status, 20, 0).
		WillReturnRows(ledgerRow(e))

	entries, total, err := repo.List(context.Background(), ports.LedgerListParams{
		Status:   &status,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, e.Reference, entries[0].Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_List_PaginationDefaults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM ledger_entries").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT .+ FROM ledger_entries .+ ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(ledgerColumnNames()))

	entries, total, err := repo.List(context.Background(), ports.LedgerListParams{Page: 0, PageSize: -5})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
