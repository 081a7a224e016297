// Package paystack implements the provider gateway and webhook normalizer
// for Paystack. Amounts cross the wire in kobo (minor units).
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"digital-wallet-backend/config"
	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var minorUnits = decimal.NewFromInt(100)

// Gateway implements ports.ProviderGateway against the Paystack REST API.
type Gateway struct {
	baseURL string
	secret  string
	client  *http.Client
	log     zerolog.Logger
}

// NewGateway creates a Paystack gateway from provider config.
func NewGateway(cfg config.ProviderConfig, log zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL: cfg.BaseURL,
		secret:  cfg.SecretKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "paystack_gateway").Logger(),
	}
}

// Provider returns the provider identity.
func (g *Gateway) Provider() domain.Provider {
	return domain.ProviderPaystack
}

// envelope is Paystack's uniform response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do executes an authenticated request and unmarshals the data payload into
// out. Non-2xx and status=false responses surface as errors; the body is
// logged, never returned to callers.
func (g *Gateway) do(ctx context.Context, operation, method, path string, body, out any) error {
	timer := prometheus.NewTimer(metrics.ProviderCallDuration.WithLabelValues("paystack", operation))
	defer timer.ObserveDuration()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack %s: %w", operation, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.log.Warn().Str("op", operation).Int("status", resp.StatusCode).Msg("unparsable paystack response")
		return fmt.Errorf("decode %s response (status %d): %w", operation, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		g.log.Warn().
			Str("op", operation).
			Int("status", resp.StatusCode).
			Str("message", env.Message).
			Msg("paystack request rejected")
		return fmt.Errorf("paystack %s rejected (status %d): %s", operation, resp.StatusCode, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s data: %w", operation, err)
		}
	}
	return nil
}

// ResolveAccount looks up the account name behind an account number.
func (g *Gateway) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*domain.ResolvedAccount, error) {
	var data struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	}
	path := "/bank/resolve?account_number=" + url.QueryEscape(accountNumber) + "&bank_code=" + url.QueryEscape(bankCode)
	if err := g.do(ctx, "resolve_account", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return &domain.ResolvedAccount{
		AccountName:   data.AccountName,
		AccountNumber: data.AccountNumber,
	}, nil
}

// GetBanks lists the supported banks.
func (g *Gateway) GetBanks(ctx context.Context) ([]domain.Bank, error) {
	var data []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := g.do(ctx, "get_banks", http.MethodGet, "/bank?currency=NGN", nil, &data); err != nil {
		return nil, err
	}
	banks := make([]domain.Bank, 0, len(data))
	for _, b := range data {
		banks = append(banks, domain.Bank{Name: b.Name, Code: b.Code})
	}
	return banks, nil
}

// RunTransfer submits an outbound transfer. Paystack requires a transfer
// recipient to exist first, so this is a two-call sequence.
func (g *Gateway) RunTransfer(ctx context.Context, req ports.ProviderTransferRequest) (*domain.TransferResult, error) {
	var recipient struct {
		RecipientCode string `json:"recipient_code"`
	}
	recipientReq := map[string]string{
		"type":           "nuban",
		"name":           req.Narration,
		"account_number": req.AccountNumber,
		"bank_code":      req.BankCode,
		"currency":       req.Currency,
	}
	if err := g.do(ctx, "create_recipient", http.MethodPost, "/transferrecipient", recipientReq, &recipient); err != nil {
		return nil, err
	}

	var data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
	}
	transferReq := map[string]any{
		"source":    "balance",
		"amount":    req.Amount.Mul(minorUnits).IntPart(),
		"currency":  req.Currency,
		"reference": req.Reference,
		"recipient": recipient.RecipientCode,
		"reason":    req.Narration,
	}
	if err := g.do(ctx, "run_transfer", http.MethodPost, "/transfer", transferReq, &data); err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Status:    mapTransferStatus(data.Status),
		Reference: data.Reference,
	}, nil
}

// VerifyTransfer fetches the authoritative state of a submitted transfer.
func (g *Gateway) VerifyTransfer(ctx context.Context, reference string) (*domain.TransferResult, error) {
	var data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
	}
	if err := g.do(ctx, "verify_transfer", http.MethodGet, "/transfer/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Status:    mapTransferStatus(data.Status),
		Reference: data.Reference,
	}, nil
}

// CreateDedicatedAccount issues a dedicated virtual account number. Paystack
// binds dedicated accounts to a customer record, so the customer is created
// first.
func (g *Gateway) CreateDedicatedAccount(ctx context.Context, req ports.DedicatedAccountRequest) (*domain.DedicatedAccount, error) {
	var customer struct {
		CustomerCode string `json:"customer_code"`
	}
	customerReq := map[string]string{
		"email":      req.Email,
		"first_name": req.CustomerName,
	}
	if err := g.do(ctx, "create_customer", http.MethodPost, "/customer", customerReq, &customer); err != nil {
		return nil, err
	}

	var data struct {
		AccountNumber string `json:"account_number"`
		Bank          struct {
			Name string `json:"name"`
		} `json:"bank"`
	}
	dedicatedReq := map[string]string{
		"customer":       customer.CustomerCode,
		"preferred_bank": "wema-bank",
	}
	if err := g.do(ctx, "create_dedicated_account", http.MethodPost, "/dedicated_account", dedicatedReq, &data); err != nil {
		return nil, err
	}
	return &domain.DedicatedAccount{
		AccountNumber:      data.AccountNumber,
		BankName:           data.Bank.Name,
		ProviderCustomerID: customer.CustomerCode,
	}, nil
}

// GetWalletBalance fetches the settlement wallet balance for a currency.
func (g *Gateway) GetWalletBalance(ctx context.Context, currency string) (decimal.Decimal, error) {
	var data []struct {
		Currency string `json:"currency"`
		Balance  int64  `json:"balance"`
	}
	if err := g.do(ctx, "get_balance", http.MethodGet, "/balance", nil, &data); err != nil {
		return decimal.Zero, err
	}
	for _, b := range data {
		if b.Currency == currency {
			return decimal.NewFromInt(b.Balance).Div(minorUnits), nil
		}
	}
	return decimal.Zero, fmt.Errorf("paystack balance: no wallet for currency %s", currency)
}

// mapTransferStatus maps Paystack transfer statuses onto the ledger enum.
// Anything not explicitly terminal stays pending for webhook reconciliation.
func mapTransferStatus(s string) domain.EntryStatus {
	switch s {
	case "success":
		return domain.EntryStatusSuccessful
	case "failed", "reversed":
		return domain.EntryStatusFailed
	default:
		return domain.EntryStatusPending
	}
}
