package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferType selects the routing path for an outbound transfer.
type TransferType string

const (
	// TransferTypeInternal moves money wallet-to-wallet without touching a
	// provider. Currencies must match exactly.
	TransferTypeInternal TransferType = "internal"
	// TransferTypeExternal is a same-currency payout to an external bank
	// account through the sender's provider.
	TransferTypeExternal TransferType = "external"
	// TransferTypePayout is a cross-currency payout through the sender's
	// provider.
	TransferTypePayout TransferType = "payout"
)

// BeneficiaryDetails identifies an external destination bank account.
type BeneficiaryDetails struct {
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	AccountName   string `json:"account_name,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// TransferQuote is the short-lived, one-time-consumable validation issued
// before a transfer. It pins the type, amount and fee the client accepted.
type TransferQuote struct {
	UserID             uuid.UUID           `json:"user_id"`
	Type               TransferType        `json:"type"`
	Amount             decimal.Decimal     `json:"amount"`
	Fee                decimal.Decimal     `json:"fee"`
	Currency           string              `json:"currency"`
	SenderAccountID    uuid.UUID           `json:"sender_account_id"`
	RecipientAccountID *uuid.UUID          `json:"recipient_account_id,omitempty"`
	Beneficiary        *BeneficiaryDetails `json:"beneficiary,omitempty"`
}
