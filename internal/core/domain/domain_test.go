package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		name      string
		entryType EntryType
		status    EntryStatus
		amount    string
		fee       string
		want      string
	}{
		{"successful debit moves full amount out", EntryTypeDebit, EntryStatusSuccessful, "1000", "5", "-1000"},
		{"pending debit moves full amount out", EntryTypeDebit, EntryStatusPending, "1000", "5", "-1000"},
		{"successful credit nets out the fee", EntryTypeCredit, EntryStatusSuccessful, "5000", "50", "4950"},
		{"credit with zero fee", EntryTypeCredit, EntryStatusSuccessful, "1000", "0", "1000"},
		{"failed debit carries no delta", EntryTypeDebit, EntryStatusFailed, "1000", "5", "0"},
		{"failed credit carries no delta", EntryTypeCredit, EntryStatusFailed, "5000", "50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignedDelta(tt.entryType, tt.status,
				decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.fee))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestLedgerEntry_Consistent(t *testing.T) {
	tests := []struct {
		name  string
		entry LedgerEntry
		want  bool
	}{
		{
			name: "debit stamps balance down by amount",
			entry: LedgerEntry{
				EntryType:       EntryTypeDebit,
				Status:          EntryStatusSuccessful,
				Amount:          decimal.RequireFromString("1000"),
				Fee:             decimal.RequireFromString("5"),
				PreviousBalance: decimal.RequireFromString("10000"),
				NewBalance:      decimal.RequireFromString("9000"),
			},
			want: true,
		},
		{
			name: "credit stamps balance up by amount minus fee",
			entry: LedgerEntry{
				EntryType:       EntryTypeCredit,
				Status:          EntryStatusSuccessful,
				Amount:          decimal.RequireFromString("5000"),
				Fee:             decimal.RequireFromString("50"),
				PreviousBalance: decimal.RequireFromString("100"),
				NewBalance:      decimal.RequireFromString("5050"),
			},
			want: true,
		},
		{
			name: "failed entry must stamp an unchanged balance",
			entry: LedgerEntry{
				EntryType:       EntryTypeDebit,
				Status:          EntryStatusFailed,
				Amount:          decimal.RequireFromString("1000"),
				PreviousBalance: decimal.RequireFromString("10000"),
				NewBalance:      decimal.RequireFromString("10000"),
			},
			want: true,
		},
		{
			name: "mismatched stamps are inconsistent",
			entry: LedgerEntry{
				EntryType:       EntryTypeDebit,
				Status:          EntryStatusSuccessful,
				Amount:          decimal.RequireFromString("1000"),
				PreviousBalance: decimal.RequireFromString("10000"),
				NewBalance:      decimal.RequireFromString("9500"),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Consistent())
		})
	}
}

func TestLedgerEntry_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status EntryStatus
		want   bool
	}{
		{"pending", EntryStatusPending, false},
		{"successful", EntryStatusSuccessful, true},
		{"failed", EntryStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &LedgerEntry{Status: tt.status}
			assert.Equal(t, tt.want, e.IsTerminal())
		})
	}
}

func TestAccount_EffectiveDailyCount(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	today := now.Add(-2 * time.Hour)
	yesterday := now.AddDate(0, 0, -1)

	tests := []struct {
		name       string
		lastTxDate *time.Time
		dailyCount int
		want       int
	}{
		{"never transacted", nil, 0, 0},
		{"last transaction yesterday resets the count", &yesterday, 15, 0},
		{"last transaction today keeps the count", &today, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{DailyCount: tt.dailyCount, LastTxDate: tt.lastTxDate}
			assert.Equal(t, tt.want, a.EffectiveDailyCount(now))
		})
	}
}

func TestNewReference(t *testing.T) {
	ref := NewReference("TRF")
	assert.True(t, strings.HasPrefix(ref, "TRF-"))
	assert.Len(t, ref, 24)
	assert.Equal(t, strings.ToUpper(ref), ref)

	// References must be unique across calls.
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		r := NewReference("TRF")
		_, dup := seen[r]
		assert.False(t, dup, "duplicate reference %s", r)
		seen[r] = struct{}{}
	}
}

func TestEntryConstants(t *testing.T) {
	assert.Equal(t, EntryType("credit"), EntryTypeCredit)
	assert.Equal(t, EntryType("debit"), EntryTypeDebit)
	assert.Equal(t, EntryStatus("pending"), EntryStatusPending)
	assert.Equal(t, EntryStatus("successful"), EntryStatusSuccessful)
	assert.Equal(t, EntryStatus("failed"), EntryStatusFailed)
}

func TestTransferTypeConstants(t *testing.T) {
	assert.Equal(t, TransferType("internal"), TransferTypeInternal)
	assert.Equal(t, TransferType("external"), TransferTypeExternal)
	assert.Equal(t, TransferType("payout"), TransferTypePayout)
}
