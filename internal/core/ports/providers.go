package ports

import (
	"context"

	"digital-wallet-backend/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ProviderGateway is the uniform contract over heterogeneous bank/payment
// providers. Concrete implementations live under internal/adapter/provider.
// Any non-success provider response surfaces as an opaque provider error;
// provider-specific failure shapes never leak past this boundary.
type ProviderGateway interface {
	Provider() domain.Provider
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*domain.ResolvedAccount, error)
	GetBanks(ctx context.Context) ([]domain.Bank, error)
	RunTransfer(ctx context.Context, req ProviderTransferRequest) (*domain.TransferResult, error)
	VerifyTransfer(ctx context.Context, reference string) (*domain.TransferResult, error)
	CreateDedicatedAccount(ctx context.Context, req DedicatedAccountRequest) (*domain.DedicatedAccount, error)
	GetWalletBalance(ctx context.Context, currency string) (decimal.Decimal, error)
}

// ProviderTransferRequest is the payload for an outbound provider transfer.
type ProviderTransferRequest struct {
	Reference     string
	Amount        decimal.Decimal
	Currency      string
	AccountNumber string
	BankCode      string
	Narration     string
}

// DedicatedAccountRequest carries the KYC subset providers need to issue a
// dedicated virtual account.
type DedicatedAccountRequest struct {
	CustomerName string
	Email        string
	Currency     string
}

// GatewaySelector resolves the gateway for an account's assigned provider.
type GatewaySelector interface {
	ForProvider(p domain.Provider) (ProviderGateway, error)
}

// WebhookNormalizer turns a provider-specific webhook payload into the
// canonical ProviderEvent, after authenticating it.
type WebhookNormalizer interface {
	Provider() domain.Provider
	// VerifySignature authenticates the raw body against the signature
	// header the provider sent.
	VerifySignature(signature string, body []byte) bool
	Normalize(body []byte) (*domain.ProviderEvent, error)
}
