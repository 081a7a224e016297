package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const ledgerColumns = `id, sender_account_id, receiver_account_id, amount, fee, previous_balance,
	new_balance, currency, status, entry_type, reference, description, created_at`

// pgUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pgUniqueViolation = "23505"

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction. The unique
// index on reference makes the insert the idempotency barrier: a collision
// surfaces as ports.ErrDuplicateReference, never a second row.
func (r *LedgerRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, sender_account_id, receiver_account_id, amount, fee,
		previous_balance, new_balance, currency, status, entry_type, reference, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.SenderAccountID, e.ReceiverAccountID, e.Amount, e.Fee,
		e.PreviousBalance, e.NewBalance, e.Currency, e.Status, e.EntryType,
		e.Reference, e.Description, e.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ports.ErrDuplicateReference
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByReference fetches an entry by its unique transaction reference.
func (r *LedgerRepo) GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE reference = $1`, ledgerColumns)
	return r.scanEntry(r.pool.QueryRow(ctx, query, reference))
}

// UpdateStatus transitions an entry's status within a database transaction.
// Only pending entries may move; committed terminal rows stay immutable.
func (r *LedgerRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.EntryStatus) error {
	query := `UPDATE ledger_entries SET status = $1 WHERE id = $2 AND status = $3`

	tag, err := tx.Exec(ctx, query, status, id, domain.EntryStatusPending)
	if err != nil {
		return fmt.Errorf("update ledger entry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger entry not pending: %s", id)
	}
	return nil
}

// MarkFailed fails a pending entry and rewinds its stamped delta: failed
// entries carry zero net movement, so new_balance is set back to
// previous_balance in the same statement.
func (r *LedgerRepo) MarkFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE ledger_entries SET status = $1, new_balance = previous_balance WHERE id = $2 AND status = $3`

	tag, err := tx.Exec(ctx, query, domain.EntryStatusFailed, id, domain.EntryStatusPending)
	if err != nil {
		return fmt.Errorf("mark ledger entry failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger entry not pending: %s", id)
	}
	return nil
}

// List fetches ledger entries with filtering and pagination.
func (r *LedgerRepo) List(ctx context.Context, params ports.LedgerListParams) ([]domain.LedgerEntry, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("(sender_account_id = $%d OR receiver_account_id = $%d)", argIdx, argIdx))
		args = append(args, *params.AccountID)
		argIdx++
	}
	if params.UserID != nil {
		conditions = append(conditions, fmt.Sprintf(
			`(sender_account_id IN (SELECT id FROM accounts WHERE user_id = $%d)
			OR receiver_account_id IN (SELECT id FROM accounts WHERE user_id = $%d))`, argIdx, argIdx))
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("entry_type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM ledger_entries %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	// Fetch page
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM ledger_entries %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		ledgerColumns, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e := domain.LedgerEntry{}
		if err := scanEntryFields(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("scan ledger row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return entries, total, nil
}

// scanEntry scans a single row into a LedgerEntry.
func (r *LedgerRepo) scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}
	if err := scanEntryFields(row, e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}
	return e, nil
}

func scanEntryFields(row pgx.Row, e *domain.LedgerEntry) error {
	var createdAt time.Time
	err := row.Scan(
		&e.ID, &e.SenderAccountID, &e.ReceiverAccountID, &e.Amount, &e.Fee,
		&e.PreviousBalance, &e.NewBalance, &e.Currency, &e.Status, &e.EntryType,
		&e.Reference, &e.Description, &createdAt,
	)
	e.CreatedAt = createdAt
	return err
}
