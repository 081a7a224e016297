package service

import (
	"digital-wallet-backend/internal/core/domain"

	"github.com/shopspring/decimal"
)

var percentDivisor = decimal.NewFromInt(100)

// FeeScheduleImpl implements ports.FeeSchedule: internal transfers are free,
// external and payout transfers pay a capped percentage.
type FeeScheduleImpl struct {
	percent decimal.Decimal
	cap     decimal.Decimal
}

// NewFeeSchedule builds a fee schedule from percent and cap expressed in
// major currency units (percent "0.5" means 0.5%).
func NewFeeSchedule(percent, cap decimal.Decimal) *FeeScheduleImpl {
	return &FeeScheduleImpl{percent: percent, cap: cap}
}

// Quote returns the fee for a transfer. The fee is carved out of the
// destination amount; the sender is always debited the gross amount.
func (f *FeeScheduleImpl) Quote(transferType domain.TransferType, currency string, amount decimal.Decimal) decimal.Decimal {
	if transferType == domain.TransferTypeInternal {
		return decimal.Zero
	}
	fee := amount.Mul(f.percent).Div(percentDivisor).Round(2)
	if fee.GreaterThan(f.cap) {
		return f.cap
	}
	return fee
}
