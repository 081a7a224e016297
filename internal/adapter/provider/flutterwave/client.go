// Package flutterwave implements the provider gateway and webhook normalizer
// for Flutterwave. Amounts cross the wire in major units.
package flutterwave

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

// Gateway implements ports.ProviderGateway against the Flutterwave v3 API.
type Gateway struct {
	baseURL string
	secret  string
	client  *http.Client
	log     zerolog.Logger
}

// NewGateway creates a Flutterwave gateway from provider config.
func NewGateway(cfg config.ProviderConfig, log zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL: cfg.BaseURL,
		secret:  cfg.SecretKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     log.With().Str("component", "flutterwave_gateway").Logger(),
	}
}

// Provider returns the provider identity.
func (g *Gateway) Provider() domain.Provider {
	return domain.ProviderFlutterwave
}

// envelope is Flutterwave's uniform response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *Gateway) do(ctx context.Context, operation, method, path string, body, out any) error {
	timer := prometheus.NewTimer(metrics.ProviderCallDuration.WithLabelValues("flutterwave", operation))
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
		return fmt.Errorf("flutterwave %s: %w", operation, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.log.Warn().Str("op", operation).Int("status", resp.StatusCode).Msg("unparsable flutterwave response")
		return fmt.Errorf("decode %s response (status %d): %w", operation, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.Status != "success" {
		g.log.Warn().
			Str("op", operation).
			Int("status", resp.StatusCode).
			Str("message", env.Message).
			Msg("flutterwave request rejected")
		return fmt.Errorf("flutterwave %s rejected (status %d): %s", operation, resp.StatusCode, env.Message)
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
	body := map[string]string{
		"account_number": accountNumber,
		"account_bank":   bankCode,
	}
	if err := g.do(ctx, "resolve_account", http.MethodPost, "/accounts/resolve", body, &data); err != nil {
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
	if err := g.do(ctx, "get_banks", http.MethodGet, "/banks/NG", nil, &data); err != nil {
		return nil, err
	}
	banks := make([]domain.Bank, 0, len(data))
	for _, b := range data {
		banks = append(banks, domain.Bank{Name: b.Name, Code: b.Code})
	}
	return banks, nil
}

// RunTransfer submits an outbound transfer.
func (g *Gateway) RunTransfer(ctx context.Context, req ports.ProviderTransferRequest) (*domain.TransferResult, error) {
	var data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
	}
	body := map[string]any{
		"account_bank":   req.BankCode,
		"account_number": req.AccountNumber,
		"amount":         req.Amount,
		"currency":       req.Currency,
		"reference":      req.Reference,
		"narration":      req.Narration,
	}
	if err := g.do(ctx, "run_transfer", http.MethodPost, "/transfers", body, &data); err != nil {
		return nil, err
	}
	return &domain.TransferResult{
		Status:    mapTransferStatus(data.Status),
		Reference: data.Reference,
	}, nil
}

// VerifyTransfer fetches the authoritative state of a submitted transfer.
func (g *Gateway) VerifyTransfer(ctx context.Context, reference string) (*domain.TransferResult, error) {
	var data []struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
	}
	if err := g.do(ctx, "verify_transfer", http.MethodGet, "/transfers?reference="+url.QueryEscape(reference), nil, &data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("flutterwave verify: no transfer with reference %s", reference)
	}
	return &domain.TransferResult{
		Status:    mapTransferStatus(data[0].Status),
		Reference: data[0].Reference,
	}, nil
}

// CreateDedicatedAccount issues a permanent virtual account number.
func (g *Gateway) CreateDedicatedAccount(ctx context.Context, req ports.DedicatedAccountRequest) (*domain.DedicatedAccount, error) {
	var data struct {
		AccountNumber string `json:"account_number"`
		BankName      string `json:"bank_name"`
		OrderRef      string `json:"order_ref"`
	}
	body := map[string]any{
		"email":        req.Email,
		"is_permanent": true,
		"narration":    req.CustomerName,
	}
	if err := g.do(ctx, "create_dedicated_account", http.MethodPost, "/virtual-account-numbers", body, &data); err != nil {
		return nil, err
	}
	return &domain.DedicatedAccount{
		AccountNumber:      data.AccountNumber,
		BankName:           data.BankName,
		ProviderCustomerID: data.OrderRef,
	}, nil
}

// GetWalletBalance fetches the settlement wallet balance for a currency.
func (g *Gateway) GetWalletBalance(ctx context.Context, currency string) (decimal.Decimal, error) {
	var data struct {
		Currency         string          `json:"currency"`
		AvailableBalance decimal.Decimal `json:"available_balance"`
	}
	if err := g.do(ctx, "get_balance", http.MethodGet, "/balances/"+url.PathEscape(currency), nil, &data); err != nil {
		return decimal.Zero, err
	}
	return data.AvailableBalance, nil
}

// mapTransferStatus maps Flutterwave transfer statuses onto the ledger enum.
func mapTransferStatus(s string) domain.EntryStatus {
	switch s {
	case "SUCCESSFUL":
		return domain.EntryStatusSuccessful
	case "FAILED":
		return domain.EntryStatusFailed
	default:
		// NEW and PENDING both await webhook reconciliation.
		return domain.EntryStatusPending
	}
}
