package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"digital-wallet-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNormalizer_VerifySignature(t *testing.T) {
	n := NewNormalizer("sk_test_secret")
	body := []byte(`{"event":"charge.success"}`)

	assert.True(t, n.VerifySignature(sign("sk_test_secret", body), body))
	assert.False(t, n.VerifySignature(sign("wrong_secret", body), body))
	assert.False(t, n.VerifySignature("not-a-signature", body))
}

func TestNormalizer_VerifySignature_TamperedBody(t *testing.T) {
	n := NewNormalizer("sk_test_secret")
	body := []byte(`{"event":"charge.success","data":{"amount":100000}}`)
	sig := sign("sk_test_secret", body)

	tampered := []byte(`{"event":"charge.success","data":{"amount":900000}}`)
	assert.False(t, n.VerifySignature(sig, tampered))
}

func TestNormalizer_Normalize_InboundCredit(t *testing.T) {
	n := NewNormalizer("sk_test_secret")
	body := []byte(`{
		"event": "charge.success",
		"data": {
			"amount": 500000,
			"fees": 2500,
			"reference": "PSK-REF-1",
			"currency": "NGN",
			"channel": "dedicated_nuban",
			"metadata": {"receiver_account_number": "9900112233"},
			"authorization": {
				"sender_name": "ADA OBI",
				"sender_bank": "GTBank",
				"sender_bank_account_number": "0123456789"
			}
		}
	}`)

	event, err := n.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, domain.EventInboundCredit, event.Type)
	assert.Equal(t, domain.ProviderPaystack, event.Provider)
	assert.Equal(t, "PSK-REF-1", event.Reference)
	assert.Equal(t, "5000", event.Amount.String())
	assert.Equal(t, "25", event.Fee.String())
	assert.Equal(t, "9900112233", event.DestinationAccountID)
	assert.Equal(t, "ADA OBI", event.SourceAccountName)
}

func TestNormalizer_Normalize_CardChargeIgnored(t *testing.T) {
	n := NewNormalizer("sk_test_secret")
	body := []byte(`{"event":"charge.success","data":{"channel":"card","reference":"PSK-REF-2"}}`)

	event, err := n.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, domain.EventUnknown, event.Type)
}

func TestNormalizer_Normalize_TransferOutcomes(t *testing.T) {
	n := NewNormalizer("sk_test_secret")

	tests := []struct {
		event    string
		wantType domain.ProviderEventType
		wantStat domain.EntryStatus
	}{
		{"transfer.success", domain.EventTransferSuccess, domain.EntryStatusSuccessful},
		{"transfer.failed", domain.EventTransferFailed, domain.EntryStatusFailed},
		{"transfer.reversed", domain.EventTransferFailed, domain.EntryStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			body := []byte(`{"event":"` + tt.event + `","data":{"reference":"TRF-1","amount":10000}}`)
			event, err := n.Normalize(body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, event.Type)
			assert.Equal(t, tt.wantStat, event.Status)
			assert.Equal(t, "TRF-1", event.Reference)
		})
	}
}

func TestNormalizer_Normalize_UnknownEvent(t *testing.T) {
	n := NewNormalizer("sk_test_secret")
	body := []byte(`{"event":"subscription.create","data":{}}`)

	event, err := n.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, domain.EventUnknown, event.Type)
	assert.Equal(t, "subscription.create", event.RawEventName)
}

func TestNormalizer_Normalize_MalformedBody(t *testing.T) {
	n := NewNormalizer("sk_test_secret")
	_, err := n.Normalize([]byte(`{not json`))
	assert.Error(t, err)
}
