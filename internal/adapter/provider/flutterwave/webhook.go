package flutterwave

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"digital-wallet-backend/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Normalizer implements ports.WebhookNormalizer for Flutterwave webhooks.
// Flutterwave does not sign the body; it echoes a pre-shared secret in the
// verif-hash header, compared in constant time.
type Normalizer struct {
	secret string
}

// NewNormalizer creates a Flutterwave webhook normalizer.
func NewNormalizer(secret string) *Normalizer {
	return &Normalizer{secret: secret}
}

// Provider returns the provider identity.
func (n *Normalizer) Provider() domain.Provider {
	return domain.ProviderFlutterwave
}

// VerifySignature compares the verif-hash header to the configured secret.
func (n *Normalizer) VerifySignature(signature string, _ []byte) bool {
	if n.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(n.secret), []byte(signature)) == 1
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Status    string          `json:"status"`
		Amount    decimal.Decimal `json:"amount"`
		AppFee    decimal.Decimal `json:"app_fee"`
		Currency  string          `json:"currency"`
		Reference string          `json:"tx_ref"`
		Account   struct {
			AccountNumber string `json:"account_number"`
		} `json:"account"`
		Customer struct {
			FullName string `json:"full_name"`
		} `json:"customer"`
		Meta struct {
			OriginatorName          string `json:"originatorname"`
			OriginatorAccountNumber string `json:"originatoraccountnumber"`
			BankName                string `json:"bankname"`
		} `json:"meta"`
	} `json:"data"`
}

// Normalize maps a Flutterwave event onto the canonical ProviderEvent.
func (n *Normalizer) Normalize(body []byte) (*domain.ProviderEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode flutterwave webhook: %w", err)
	}

	event := &domain.ProviderEvent{
		Provider:     domain.ProviderFlutterwave,
		Reference:    p.Data.Reference,
		Amount:       p.Data.Amount,
		Fee:          p.Data.AppFee,
		Currency:     p.Data.Currency,
		RawEventName: p.Event,
	}

	switch p.Event {
	case "charge.completed":
		if p.Data.Status != "successful" {
			event.Type = domain.EventUnknown
			return event, nil
		}
		event.Type = domain.EventInboundCredit
		event.Status = domain.EntryStatusSuccessful
		event.DestinationAccountID = p.Data.Account.AccountNumber
		event.SourceAccountName = p.Data.Meta.OriginatorName
		event.SourceAccountNumber = p.Data.Meta.OriginatorAccountNumber
		event.SourceBankName = p.Data.Meta.BankName
	case "transfer.completed":
		if p.Data.Status == "SUCCESSFUL" {
			event.Type = domain.EventTransferSuccess
			event.Status = domain.EntryStatusSuccessful
		} else {
			event.Type = domain.EventTransferFailed
			event.Status = domain.EntryStatusFailed
		}
	default:
		event.Type = domain.EventUnknown
	}
	return event, nil
}
