package handler

import (
	"digital-wallet-backend/internal/adapter/http/dto"
	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"
	"digital-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// BankHandler handles bank lookup endpoints backed by the provider gateways.
type BankHandler struct {
	gateways ports.GatewaySelector
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(gateways ports.GatewaySelector) *BankHandler {
	return &BankHandler{gateways: gateways}
}

// List handles GET /api/v1/banks?provider=paystack.
func (h *BankHandler) List(c *gin.Context) {
	provider := c.DefaultQuery("provider", string(domain.ProviderPaystack))
	gateway, err := h.gateways.ForProvider(domain.Provider(provider))
	if err != nil {
		response.Error(c, err)
		return
	}

	banks, err := gateway.GetBanks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BankResponse, 0, len(banks))
	for _, b := range banks {
		items = append(items, dto.BankResponse{Name: b.Name, Code: b.Code})
	}
	response.OK(c, items)
}

// Resolve handles POST /api/v1/banks/resolve.
func (h *BankHandler) Resolve(c *gin.Context) {
	var req dto.ResolveAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	gateway, err := h.gateways.ForProvider(domain.Provider(req.Provider))
	if err != nil {
		response.Error(c, err)
		return
	}

	resolved, err := gateway.ResolveAccount(c.Request.Context(), req.AccountNumber, req.BankCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ResolvedAccountResponse{
		AccountName:   resolved.AccountName,
		AccountNumber: resolved.AccountNumber,
	})
}
