package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) add(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// --- In-Memory Account Repo ---

// inMemoryAccountRepo mirrors the atomic-increment contract of the postgres
// repo: Debit applies the strict balance guard under the mutex, so the same
// no-overdraft invariant holds in tests.
type inMemoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryAccountRepo) GetByUserAndCurrency(ctx context.Context, userID uuid.UUID, currency string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.UserID == userID && a.Currency == currency {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) GetByDedicatedNumber(ctx context.Context, provider domain.Provider, accountNumber string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Provider == provider && a.DedicatedAccountNumber == accountNumber {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return decimal.Zero, fmt.Errorf("account not found: %s", accountID)
	}
	if !a.Balance.GreaterThan(amount) {
		return decimal.Zero, ports.ErrInsufficientBalance
	}
	now := time.Now()
	if a.LastTxDate != nil && sameDay(*a.LastTxDate, now) {
		a.DailyCount++
	} else {
		a.DailyCount = 1
	}
	a.LastTxDate = &now
	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = now
	return a.Balance, nil
}

func (r *inMemoryAccountRepo) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return decimal.Zero, fmt.Errorf("account not found: %s", accountID)
	}
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now()
	return a.Balance, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu       sync.Mutex
	byRef    map[string]*domain.LedgerEntry
	order    []string
	accounts *inMemoryAccountRepo
}

func newInMemoryLedgerRepo(accounts *inMemoryAccountRepo) *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{
		byRef:    make(map[string]*domain.LedgerEntry),
		accounts: accounts,
	}
}

func (r *inMemoryLedgerRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byRef[e.Reference]; exists {
		return ports.ErrDuplicateReference
	}
	cp := *e
	r.byRef[e.Reference] = &cp
	r.order = append(r.order, e.Reference)
	return nil
}

func (r *inMemoryLedgerRepo) GetByReference(ctx context.Context, reference string) (*domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byRef[reference]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *inMemoryLedgerRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.EntryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byRef {
		if e.ID == id {
			if e.Status != domain.EntryStatusPending {
				return fmt.Errorf("ledger entry not pending: %s", id)
			}
			e.Status = status
			return nil
		}
	}
	return fmt.Errorf("ledger entry not found: %s", id)
}

func (r *inMemoryLedgerRepo) MarkFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byRef {
		if e.ID == id {
			if e.Status != domain.EntryStatusPending {
				return fmt.Errorf("ledger entry not pending: %s", id)
			}
			e.Status = domain.EntryStatusFailed
			e.NewBalance = e.PreviousBalance
			return nil
		}
	}
	return fmt.Errorf("ledger entry not found: %s", id)
}

func (r *inMemoryLedgerRepo) List(ctx context.Context, params ports.LedgerListParams) ([]domain.LedgerEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userAccounts := make(map[uuid.UUID]bool)
	if params.UserID != nil {
		accounts, _ := r.accounts.GetByUserID(ctx, *params.UserID)
		for _, a := range accounts {
			userAccounts[a.ID] = true
		}
	}

	var result []domain.LedgerEntry
	// Newest first, matching the postgres ORDER BY created_at DESC.
	for i := len(r.order) - 1; i >= 0; i-- {
		e := r.byRef[r.order[i]]
		if params.AccountID != nil {
			match := (e.SenderAccountID != nil && *e.SenderAccountID == *params.AccountID) ||
				(e.ReceiverAccountID != nil && *e.ReceiverAccountID == *params.AccountID)
			if !match {
				continue
			}
		}
		if params.UserID != nil {
			match := (e.SenderAccountID != nil && userAccounts[*e.SenderAccountID]) ||
				(e.ReceiverAccountID != nil && userAccounts[*e.ReceiverAccountID])
			if !match {
				continue
			}
		}
		if params.Status != nil && e.Status != *params.Status {
			continue
		}
		if params.Type != nil && e.EntryType != *params.Type {
			continue
		}
		if params.From != nil && e.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && e.CreatedAt.Unix() > *params.To {
			continue
		}
		result = append(result, *e)
	}
	total := int64(len(result))

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.LedgerEntry{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryLedgerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRef)
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

// --- Fake Provider Gateway ---

// fakeGateway implements ports.ProviderGateway with configurable outcomes and
// records the transfer requests it received.
type fakeGateway struct {
	mu             sync.Mutex
	provider       domain.Provider
	transferStatus domain.EntryStatus
	verifyStatus   domain.EntryStatus
	transfers      []ports.ProviderTransferRequest
	nextAccount    int
}

func newFakeGateway(p domain.Provider) *fakeGateway {
	return &fakeGateway{
		provider:       p,
		transferStatus: domain.EntryStatusSuccessful,
		verifyStatus:   domain.EntryStatusSuccessful,
		nextAccount:    9900000000,
	}
}

func (g *fakeGateway) Provider() domain.Provider { return g.provider }

func (g *fakeGateway) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*domain.ResolvedAccount, error) {
	return &domain.ResolvedAccount{AccountName: "RESOLVED NAME", AccountNumber: accountNumber}, nil
}

func (g *fakeGateway) GetBanks(ctx context.Context) ([]domain.Bank, error) {
	return []domain.Bank{{Name: "Test Bank", Code: "001"}}, nil
}

func (g *fakeGateway) RunTransfer(ctx context.Context, req ports.ProviderTransferRequest) (*domain.TransferResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transfers = append(g.transfers, req)
	return &domain.TransferResult{Status: g.transferStatus, Reference: req.Reference}, nil
}

func (g *fakeGateway) VerifyTransfer(ctx context.Context, reference string) (*domain.TransferResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &domain.TransferResult{Status: g.verifyStatus, Reference: reference}, nil
}

func (g *fakeGateway) CreateDedicatedAccount(ctx context.Context, req ports.DedicatedAccountRequest) (*domain.DedicatedAccount, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextAccount++
	return &domain.DedicatedAccount{
		AccountNumber:      fmt.Sprintf("%d", g.nextAccount),
		BankName:           "Test Bank",
		ProviderCustomerID: "CUS_" + uuid.NewString()[:8],
	}, nil
}

func (g *fakeGateway) GetWalletBalance(ctx context.Context, currency string) (decimal.Decimal, error) {
	return decimal.RequireFromString("1000000.00"), nil
}

func (g *fakeGateway) receivedTransfers() []ports.ProviderTransferRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ports.ProviderTransferRequest, len(g.transfers))
	copy(out, g.transfers)
	return out
}
