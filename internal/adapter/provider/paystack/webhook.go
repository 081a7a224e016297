package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"digital-wallet-backend/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Normalizer implements ports.WebhookNormalizer for Paystack webhooks.
// Signature: HMAC-SHA512 of the raw body with the secret key, hex encoded,
// sent in the x-paystack-signature header.
type Normalizer struct {
	secret string
}

// NewNormalizer creates a Paystack webhook normalizer.
func NewNormalizer(secret string) *Normalizer {
	return &Normalizer{secret: secret}
}

// Provider returns the provider identity.
func (n *Normalizer) Provider() domain.Provider {
	return domain.ProviderPaystack
}

// VerifySignature authenticates the raw body against the signature header.
func (n *Normalizer) VerifySignature(signature string, body []byte) bool {
	mac := hmac.New(sha512.New, []byte(n.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Amount    int64  `json:"amount"` // kobo
		Fees      int64  `json:"fees"`   // kobo
		Reference string `json:"reference"`
		Currency  string `json:"currency"`
		Channel   string `json:"channel"`
		Metadata  struct {
			ReceiverAccountNumber string `json:"receiver_account_number"`
		} `json:"metadata"`
		Authorization struct {
			SenderName          string `json:"sender_name"`
			SenderBank          string `json:"sender_bank"`
			SenderBankAccountNo string `json:"sender_bank_account_number"`
		} `json:"authorization"`
	} `json:"data"`
}

// Normalize maps a Paystack event onto the canonical ProviderEvent. Events
// outside the handled set come back as EventUnknown with the raw event name
// preserved for logging.
func (n *Normalizer) Normalize(body []byte) (*domain.ProviderEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode paystack webhook: %w", err)
	}

	event := &domain.ProviderEvent{
		Provider:     domain.ProviderPaystack,
		Reference:    p.Data.Reference,
		Amount:       decimal.NewFromInt(p.Data.Amount).Div(minorUnits),
		Fee:          decimal.NewFromInt(p.Data.Fees).Div(minorUnits),
		Currency:     p.Data.Currency,
		RawEventName: p.Event,
	}

	switch p.Event {
	case "charge.success":
		if p.Data.Channel != "dedicated_nuban" {
			event.Type = domain.EventUnknown
			return event, nil
		}
		event.Type = domain.EventInboundCredit
		event.Status = domain.EntryStatusSuccessful
		event.DestinationAccountID = p.Data.Metadata.ReceiverAccountNumber
		event.SourceAccountName = p.Data.Authorization.SenderName
		event.SourceAccountNumber = p.Data.Authorization.SenderBankAccountNo
		event.SourceBankName = p.Data.Authorization.SenderBank
	case "transfer.success":
		event.Type = domain.EventTransferSuccess
		event.Status = domain.EntryStatusSuccessful
	case "transfer.failed", "transfer.reversed":
		event.Type = domain.EventTransferFailed
		event.Status = domain.EntryStatusFailed
	default:
		event.Type = domain.EventUnknown
	}
	return event, nil
}
