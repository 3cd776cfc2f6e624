package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doc-check.backend/internal/domain/entities"
	"doc-check.backend/internal/interfaces/http/response"
	"doc-check.backend/internal/usecases"
)

// WebhookHandler handles payment-provider webhook endpoints
type WebhookHandler struct {
	webhookUsecase *usecases.WebhookUsecase
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookUsecase *usecases.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

// HandleAsaasWebhook handles incoming payment events from Asaas
// POST /api/v1/webhooks/asaas
//
// Every successfully evaluated delivery answers 200, including idempotent
// no-ops and unknown references; anything else triggers provider retries.
func (h *WebhookHandler) HandleAsaasWebhook(c *gin.Context) {
	var event entities.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed webhook payload"})
		return
	}

	outcome, err := h.webhookUsecase.ProcessPaymentWebhook(c.Request.Context(), &event)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"applied": outcome.Applied,
		"outcome": outcome.Outcome,
	})
}
