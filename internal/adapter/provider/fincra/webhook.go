package fincra

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"digital-wallet-backend/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Normalizer implements ports.WebhookNormalizer for Fincra webhooks.
// Signature: HMAC-SHA256 of the raw body with the webhook secret, hex
// encoded, sent in the signature header.
type Normalizer struct {
	secret string
}

// NewNormalizer creates a Fincra webhook normalizer.
func NewNormalizer(secret string) *Normalizer {
	return &Normalizer{secret: secret}
}

// Provider returns the provider identity.
func (n *Normalizer) Provider() domain.Provider {
	return domain.ProviderFincra
}

// VerifySignature authenticates the raw body against the signature header.
func (n *Normalizer) VerifySignature(signature string, body []byte) bool {
	mac := hmac.New(sha256.New, []byte(n.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Amount            decimal.Decimal `json:"amount"`
		Fee               decimal.Decimal `json:"fee"`
		Currency          string          `json:"currency"`
		CustomerReference string          `json:"customerReference"`
		VirtualAccount    struct {
			AccountNumber string `json:"accountNumber"`
		} `json:"virtualAccount"`
		Sender struct {
			Name          string `json:"name"`
			AccountNumber string `json:"accountNumber"`
			BankName      string `json:"bankName"`
		} `json:"sender"`
	} `json:"data"`
}

// Normalize maps a Fincra event onto the canonical ProviderEvent.
func (n *Normalizer) Normalize(body []byte) (*domain.ProviderEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode fincra webhook: %w", err)
	}

	event := &domain.ProviderEvent{
		Provider:     domain.ProviderFincra,
		Reference:    p.Data.CustomerReference,
		Amount:       p.Data.Amount,
		Fee:          p.Data.Fee,
		Currency:     p.Data.Currency,
		RawEventName: p.Event,
	}

	switch p.Event {
	case "collection.successful":
		event.Type = domain.EventInboundCredit
		event.Status = domain.EntryStatusSuccessful
		event.DestinationAccountID = p.Data.VirtualAccount.AccountNumber
		event.SourceAccountName = p.Data.Sender.Name
		event.SourceAccountNumber = p.Data.Sender.AccountNumber
		event.SourceBankName = p.Data.Sender.BankName
	case "payout.successful":
		event.Type = domain.EventTransferSuccess
		event.Status = domain.EntryStatusSuccessful
	case "payout.failed":
		event.Type = domain.EventTransferFailed
		event.Status = domain.EntryStatusFailed
	default:
		event.Type = domain.EventUnknown
	}
	return event, nil
}
