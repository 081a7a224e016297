package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provider identifies the external money-movement provider an account is
// provisioned on. Selected once at account creation and stored as data.
type Provider string

const (
	ProviderPaystack    Provider = "paystack"
	ProviderFlutterwave Provider = "flutterwave"
	ProviderFincra      Provider = "fincra"
)

// Account represents a wallet with a dedicated virtual bank account.
// Balance is mutated only by the ledger service and the webhook reconciler,
// always through atomic storage-level increments.
type Account struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	DailyCount int             `json:"daily_count"`
	DailyLimit int             `json:"daily_limit"`
	LastTxDate *time.Time      `json:"-"`

	Enabled     bool `json:"enabled"`
	Blacklisted bool `json:"-"`
	PND         bool `json:"pnd"` // payment-not-debitable
	PNC         bool `json:"pnc"` // payment-not-creditable

	Provider               Provider `json:"provider"`
	DedicatedAccountNumber string   `json:"dedicated_account_number"`
	DedicatedBankName      string   `json:"dedicated_bank_name"`
	ProviderCustomerID     string   `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectiveDailyCount returns today's transaction count. The counter is lazy:
// a LastTxDate before today means it has not been touched today.
func (a *Account) EffectiveDailyCount(now time.Time) int {
	if a.LastTxDate == nil {
		return 0
	}
	y1, m1, d1 := a.LastTxDate.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return 0
	}
	return a.DailyCount
}
