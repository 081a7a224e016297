package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType is the direction of a ledger entry relative to the wallet it
// stamps balances for.
type EntryType string

const (
	EntryTypeCredit EntryType = "credit"
	EntryTypeDebit  EntryType = "debit"
)

// EntryStatus is the lifecycle state of a ledger entry. Entries are immutable
// except for the pending -> terminal transition during verification.
type EntryStatus string

const (
	EntryStatusPending    EntryStatus = "pending"
	EntryStatusSuccessful EntryStatus = "successful"
	EntryStatusFailed     EntryStatus = "failed"
)

// LedgerEntry is an immutable record of one money movement. Reference is
// globally unique and doubles as the idempotency key for webhook replay and
// client retry.
type LedgerEntry struct {
	ID                uuid.UUID       `json:"id"`
	SenderAccountID   *uuid.UUID      `json:"sender_account_id,omitempty"`   // nil for external-inbound
	ReceiverAccountID *uuid.UUID      `json:"receiver_account_id,omitempty"` // nil for external-outbound
	Amount            decimal.Decimal `json:"amount"`
	Fee               decimal.Decimal `json:"fee"`
	PreviousBalance   decimal.Decimal `json:"previous_balance"`
	NewBalance        decimal.Decimal `json:"new_balance"`
	Currency          string          `json:"currency"`
	Status            EntryStatus     `json:"status"`
	EntryType         EntryType       `json:"entry_type"`
	Reference         string          `json:"reference"`
	Description       string          `json:"description"`
	CreatedAt         time.Time       `json:"created_at"`
}

// SignedDelta returns the balance movement a committed entry represents.
// Debits move the full amount out (the fee is carved out of the destination
// amount downstream); credits move the gross amount minus the provider fee in.
// Failed entries carry a zero delta regardless of direction.
func SignedDelta(entryType EntryType, status EntryStatus, amount, fee decimal.Decimal) decimal.Decimal {
	if status == EntryStatusFailed {
		return decimal.Zero
	}
	if entryType == EntryTypeDebit {
		return amount.Neg()
	}
	return amount.Sub(fee)
}

// Consistent reports whether the entry's stamped balances satisfy
// new_balance == previous_balance + SignedDelta. Ledger rows are auditable
// on their own; this is the replay property.
func (e *LedgerEntry) Consistent() bool {
	delta := SignedDelta(e.EntryType, e.Status, e.Amount, e.Fee)
	return e.NewBalance.Equal(e.PreviousBalance.Add(delta))
}

// IsTerminal reports whether the entry is in a final state.
func (e *LedgerEntry) IsTerminal() bool {
	return e.Status == EntryStatusSuccessful || e.Status == EntryStatusFailed
}

// NewReference generates a globally unique transaction reference.
func NewReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:20])
}
