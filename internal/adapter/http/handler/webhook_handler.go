package handler

import (
	"errors"
	"io"
	"net/http"

	"digital-wallet-backend/internal/core/domain"
	"digital-wallet-backend/internal/core/ports"
	"digital-wallet-backend/pkg/apperror"
	"digital-wallet-backend/pkg/metrics"
	"digital-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// signatureHeaders maps each provider to the header its webhooks are signed
// under.
var signatureHeaders = map[domain.Provider]string{
	domain.ProviderPaystack:    "x-paystack-signature",
	domain.ProviderFlutterwave: "verif-hash",
	domain.ProviderFincra:      "signature",
}

// WebhookHandler receives provider webhooks, authenticates them and feeds the
// normalized events into reconciliation.
type WebhookHandler struct {
	normalizers  map[domain.Provider]ports.WebhookNormalizer
	reconcileSvc ports.ReconcileService
	log          zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(reconcileSvc ports.ReconcileService, log zerolog.Logger, normalizers ...ports.WebhookNormalizer) *WebhookHandler {
	byProvider := make(map[domain.Provider]ports.WebhookNormalizer, len(normalizers))
	for _, n := range normalizers {
		byProvider[n.Provider()] = n
	}
	return &WebhookHandler{
		normalizers:  byProvider,
		reconcileSvc: reconcileSvc,
		log:          log,
	}
}

// Receive handles POST /webhooks/:provider.
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := domain.Provider(c.Param("provider"))
	normalizer, ok := h.normalizers[provider]
	if !ok {
		// A typo'd inbound URL, not a server fault. 404 stops provider retries.
		response.Error(c, apperror.ErrNotFound("webhook provider"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	signature := c.GetHeader(signatureHeaders[provider])
	if !normalizer.VerifySignature(signature, body) {
		metrics.WebhookEventsTotal.WithLabelValues(string(provider), "invalid_signature").Inc()
		h.log.Warn().Str("provider", string(provider)).Msg("webhook signature rejected")
		response.Error(c, apperror.ErrInvalidWebhookSignature())
		return
	}

	event, err := normalizer.Normalize(body)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(string(provider), "malformed").Inc()
		response.Error(c, apperror.Validation("malformed webhook payload"))
		return
	}

	entry, err := h.reconcileSvc.Reconcile(c.Request.Context(), *event)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "TRF_006" {
			// Replays are expected; acknowledged so the provider stops retrying.
			metrics.WebhookEventsTotal.WithLabelValues(string(provider), "duplicate").Inc()
		} else {
			metrics.WebhookEventsTotal.WithLabelValues(string(provider), "error").Inc()
		}
		response.Error(c, err)
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(string(provider), "processed").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "processed", "reference": entry.Reference})
}
