package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"donate/internal/service"
)

const signatureHeader = "Stripe-Signature"

// WebhookHandler handles processor webhook deliveries.
type WebhookHandler struct {
	webhooks *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhooks *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// HandleWebhook handles POST /api/stripe/webhook
//
// The body is read raw, before any parsing, because signature verification
// runs over the exact bytes the processor signed.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid payload"})
		return
	}

	sig := c.GetHeader(signatureHeader)
	if sig == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing signature"})
		return
	}

	if err := h.webhooks.HandleEvent(c.Request.Context(), payload, sig); err != nil {
		// Invalid signatures are rejected outright; anything else is a
		// handler failure returned as 500 so the processor redelivers.
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"received": true})
}
