// Package fincra implements the provider gateway and webhook normalizer for
// Fincra. Amounts cross the wire in major units; auth uses an api-key header.
package fincra

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

// Gateway implements ports.ProviderGateway against the Fincra REST API.
type Gateway struct {
	baseURL string
	secret  string
	client  *http.Client
	log     zerolog.Logger
}

// NewGateway creates a Fincra gateway from provider config.
func NewGateway(cfg config.ProviderConfig, log zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL: cfg.BaseURL,
		secret:  cfg.SecretKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "fincra_gateway").Logger(),
	}
}

// Provider returns the provider identity.
func (g *Gateway) Provider() domain.Provider {
	return domain.ProviderFincra
}

// envelope is Fincra's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *Gateway) do(ctx context.Context, operation, method, path string, body, out any) error {
	timer := prometheus.NewTimer(metrics.ProviderCallDuration.WithLabelValues("fincra", operation))
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
	req.Header.Set("api-key", g.secret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("fincra %s: %w", operation, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.log.Warn().Str("op", operation).Int("status", resp.StatusCode).Msg("unparsable fincra response")
		return fmt.Errorf("decode %s response (status %d): %w", operation, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		g.log.Warn().
			Str("op", operation).
			Int("status", resp.StatusCode).
			Str("message", env.Message).
			Msg("fincra request rejected")
		return fmt.Errorf("fincra %s rejected (status %d): %s", operation, resp.StatusCode, env.Message)
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
		AccountName   string `json:"accountName"`
		AccountNumber string `json:"accountNumber"`
	}
	body := map[string]string{
		"accountNumber": accountNumber,
		"bankCode":      bankCode,
	}
	if err := g.do(ctx, "resolve_account", http.MethodPost, "/core/accounts/resolve", body, &data); err != nil {
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
	if err := g.do(ctx, "get_banks", http.MethodGet, "/core/banks?currency=NGN&country=NG", nil, &data); err != nil {
		return nil, err
	}
	banks := make([]domain.Bank, 0, len(data))
	for _, b := range data {
		banks = append(banks, domain.Bank{Name: b.Name, Code: b.Code})
	}
	return banks, nil
}

// RunTransfer submits an outbound payout.
func (g *Gateway) RunTransfer(ctx context.Context, req ports.ProviderTransferRequest) (*domain.TransferResult, error) {
	var data struct {
		Status            string `json:"status"`
		CustomerReference string `json:"customerReference"`
	}
	body := map[string]any{
		"sourceCurrency":      req.Currency,
		"destinationCurrency": req.Currency,
		"amount":              req.Amount,
		"customerReference":   req.Reference,
		"description":         req.Narration,
		"paymentDestination":  "bank_account",
		"beneficiary": map[string]string{
			"accountNumber": req.AccountNumber,
			"bankCode":      req.BankCode,
			"type":          "individual",
		},
	}
	if err := g.do(ctx, "run_transfer", http.MethodPost, "/disbursements/payouts", body, &data); err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Status:    mapPayoutStatus(data.Status),
		Reference: data.CustomerReference,
	}, nil
}

// VerifyTransfer fetches the authoritative state of a submitted payout.
func (g *Gateway) VerifyTransfer(ctx context.Context, reference string) (*domain.TransferResult, error) {
	var data struct {
		Status            string `json:"status"`
		CustomerReference string `json:"customerReference"`
	}
	if err := g.do(ctx, "verify_transfer", http.MethodGet, "/disbursements/payouts/reference/"+url.PathEscape(reference), nil, &data); err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Status:    mapPayoutStatus(data.Status),
		Reference: data.CustomerReference,
	}, nil
}

// CreateDedicatedAccount requests a virtual account number.
func (g *Gateway) CreateDedicatedAccount(ctx context.Context, req ports.DedicatedAccountRequest) (*domain.DedicatedAccount, error) {
	var data struct {
		ID                 string `json:"id"`
		AccountInformation struct {
			AccountNumber string `json:"accountNumber"`
			BankName      string `json:"bankName"`
		} `json:"accountInformation"`
	}
	body := map[string]any{
		"currency":    req.Currency,
		"accountType": "individual",
		"KYCInformation": map[string]string{
			"name":  req.CustomerName,
			"email": req.Email,
		},
	}
	if err := g.do(ctx, "create_dedicated_account", http.MethodPost, "/profile/virtual-accounts/requests", body, &data); err != nil {
		return nil, err
	}
	return &domain.DedicatedAccount{
		AccountNumber:      data.AccountInformation.AccountNumber,
		BankName:           data.AccountInformation.BankName,
		ProviderCustomerID: data.ID,
	}, nil
}

// GetWalletBalance fetches the settlement wallet balance for a currency.
func (g *Gateway) GetWalletBalance(ctx context.Context, currency string) (decimal.Decimal, error) {
	var data []struct {
		Currency         string          `json:"currency"`
		AvailableBalance decimal.Decimal `json:"availableBalance"`
	}
	if err := g.do(ctx, "get_balance", http.MethodGet, "/profile/wallets?currency="+url.QueryEscape(currency), nil, &data); err != nil {
		return decimal.Zero, err
	}
	for _, w := range data {
		if w.Currency == currency {
			return w.AvailableBalance, nil
		}
	}
	return decimal.Zero, fmt.Errorf("fincra balance: no wallet for currency %s", currency)
}

// mapPayoutStatus maps Fincra payout statuses onto the ledger enum.
func mapPayoutStatus(s string) domain.EntryStatus {
	switch s {
	case "successful":
		return domain.EntryStatusSuccessful
	case "failed":
		return domain.EntryStatusFailed
	default:
		return domain.EntryStatusPending
	}
}
