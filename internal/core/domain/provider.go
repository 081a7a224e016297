package domain

import "github.com/shopspring/decimal"

// Bank is one entry of a provider's bank list.
type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ResolvedAccount is the provider's answer to an account lookup.
type ResolvedAccount struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// TransferResult is the provider's synchronous answer to a transfer request.
type TransferResult struct {
	Status    EntryStatus `json:"status"`
	Reference string      `json:"reference"`
}

// DedicatedAccount is a virtual bank account number issued by a provider and
// mapped 1:1 to an internal wallet.
type DedicatedAccount struct {
	AccountNumber      string `json:"account_number"`
	BankName           string `json:"bank_name"`
	ProviderCustomerID string `json:"provider_customer_id"`
}

// ProviderEventType classifies a normalized inbound webhook.
type ProviderEventType string

const (
	// EventInboundCredit is money arriving on a dedicated virtual account.
	EventInboundCredit ProviderEventType = "inbound_credit"
	// EventTransferSuccess confirms an outbound transfer previously submitted.
	EventTransferSuccess ProviderEventType = "transfer_success"
	// EventTransferFailed reports an outbound transfer the provider rejected.
	EventTransferFailed ProviderEventType = "transfer_failed"
	// EventUnknown is anything the normalizer does not recognize. Handled
	// without side effects.
	EventUnknown ProviderEventType = "unknown"
)

// ProviderEvent is the canonical shape every provider webhook is normalized
// into before reconciliation.
type ProviderEvent struct {
	Provider             Provider          `json:"provider"`
	Type                 ProviderEventType `json:"type"`
	Reference            string            `json:"reference"`
	Status               EntryStatus       `json:"status"`
	Amount               decimal.Decimal   `json:"amount"`
	Fee                  decimal.Decimal   `json:"fee"`
	Currency             string            `json:"currency"`
	SourceAccountName    string            `json:"source_account_name,omitempty"`
	SourceAccountNumber  string            `json:"source_account_number,omitempty"`
	SourceBankName       string            `json:"source_bank_name,omitempty"`
	DestinationAccountID string            `json:"destination_account_id,omitempty"`
	RawEventName         string            `json:"raw_event_name,omitempty"`
}
