package fincra

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"digital-wallet-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNormalizer_VerifySignature(t *testing.T) {
	n := NewNormalizer("fincra-webhook-secret")
	body := []byte(`{"event":"collection.successful"}`)

	assert.True(t, n.VerifySignature(sign("fincra-webhook-secret", body), body))
	assert.False(t, n.VerifySignature(sign("other-secret", body), body))
}

func TestNormalizer_Normalize_InboundCredit(t *testing.T) {
	n := NewNormalizer("fincra-webhook-secret")
	body := []byte(`{
		"event": "collection.successful",
		"data": {
			"amount": 5000,
			"fee": 25,
			"currency": "NGN",
			"customerReference": "FCR-REF-1",
			"virtualAccount": {"accountNumber": "9900112233"},
			"sender": {
				"name": "ADA OBI",
				"accountNumber": "0123456789",
				"bankName": "GTBank"
			}
		}
	}`)

	event, err := n.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, domain.EventInboundCredit, event.Type)
	assert.Equal(t, domain.ProviderFincra, event.Provider)
	assert.Equal(t, "FCR-REF-1", event.Reference)
	assert.Equal(t, "5000", event.Amount.String())
	assert.Equal(t, "9900112233", event.DestinationAccountID)
	assert.Equal(t, "GTBank", event.SourceBankName)
}

func TestNormalizer_Normalize_PayoutOutcomes(t *testing.T) {
	n := NewNormalizer("fincra-webhook-secret")

	success := []byte(`{"event":"payout.successful","data":{"customerReference":"TRF-1"}}`)
	event, err := n.Normalize(success)
	require.NoError(t, err)
	assert.Equal(t, domain.EventTransferSuccess, event.Type)
	assert.Equal(t, domain.EntryStatusSuccessful, event.Status)

	failed := []byte(`{"event":"payout.failed","data":{"customerReference":"TRF-2"}}`)
	event, err = n.Normalize(failed)
	require.NoError(t, err)
	assert.Equal(t, domain.EventTransferFailed, event.Type)
	assert.Equal(t, domain.EntryStatusFailed, event.Status)
}

func TestNormalizer_Normalize_UnknownEvent(t *testing.T) {
	n := NewNormalizer("fincra-webhook-secret")
	event, err := n.Normalize([]byte(`{"event":"conversion.successful","data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.EventUnknown, event.Type)
	assert.Equal(t, "conversion.successful", event.RawEventName)
}
