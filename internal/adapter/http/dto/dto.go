package dto

import (
	"github.com/shopspring/decimal"
)

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateAccountRequest is the request body for wallet provisioning.
type CreateAccountRequest struct {
	Currency string `json:"currency" binding:"required,currency_code"`
}

// AccountResponse is the public view of a wallet account.
type AccountResponse struct {
	ID                     string          `json:"id"`
	Currency               string          `json:"currency"`
	Balance                decimal.Decimal `json:"balance"`
	Enabled                bool            `json:"enabled"`
	Provider               string          `json:"provider"`
	DedicatedAccountNumber string          `json:"dedicated_account_number"`
	DedicatedBankName      string          `json:"dedicated_bank_name"`
	CreatedAt              string          `json:"created_at"`
}

// ProviderBalanceResponse is the live settlement-wallet balance.
type ProviderBalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// BeneficiaryRequest identifies an external destination account.
type BeneficiaryRequest struct {
	AccountNumber string `json:"account_number" binding:"required,numeric,min=10,max=10"`
	BankCode      string `json:"bank_code" binding:"required"`
	AccountName   string `json:"account_name,omitempty"`
}

// ValidateTransferRequest is the request body for the transfer pre-flight.
type ValidateTransferRequest struct {
	Type               string              `json:"type" binding:"required,oneof=internal external payout"`
	Amount             decimal.Decimal     `json:"amount" binding:"required"`
	SenderAccountID    string              `json:"sender_account_id" binding:"required,uuid"`
	RecipientAccountID *string             `json:"recipient_account_id,omitempty" binding:"omitempty,uuid"`
	Beneficiary        *BeneficiaryRequest `json:"beneficiary,omitempty"`
}

// ValidateTransferResponse carries the one-time code and quoted fee.
type ValidateTransferResponse struct {
	ValidationCode string          `json:"validation_code"`
	Fee            decimal.Decimal `json:"fee"`
	ExpiresIn      int64           `json:"expires_in"` // seconds
}

// TransferRequest is the request body for transfer execution.
type TransferRequest struct {
	ValidationCode string          `json:"validation_code" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=internal external payout"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
}

// ResolveAccountRequest is the request body for bank account resolution.
type ResolveAccountRequest struct {
	AccountNumber string `json:"account_number" binding:"required,numeric,min=10,max=10"`
	BankCode      string `json:"bank_code" binding:"required"`
	Provider      string `json:"provider" binding:"required,oneof=paystack flutterwave fincra"`
}

// ResolvedAccountResponse is the provider's answer to an account lookup.
type ResolvedAccountResponse struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// BankResponse is one entry of a provider's bank list.
type BankResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// LedgerEntryResponse is the public view of one ledger entry.
type LedgerEntryResponse struct {
	ID                string          `json:"id"`
	Reference         string          `json:"reference"`
	SenderAccountID   *string         `json:"sender_account_id,omitempty"`
	ReceiverAccountID *string         `json:"receiver_account_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Fee               decimal.Decimal `json:"fee"`
	PreviousBalance   decimal.Decimal `json:"previous_balance"`
	NewBalance        decimal.Decimal `json:"new_balance"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	EntryType         string          `json:"entry_type"`
	Description       string          `json:"description"`
	CreatedAt         string          `json:"created_at"`
}

// LedgerListResponse wraps a paginated ledger listing.
type LedgerListResponse struct {
	Items      []LedgerEntryResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
