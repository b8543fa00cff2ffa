package handlers

import (
	"log/slog"
	"net/http"

	"gostay/internal/metrics"
	"gostay/internal/models"

	"github.com/gin-gonic/gin"
)

// Payments handlers

// PaymentWebhook - POST /api/payments/webhook
// Принимать уведомления от платежного шлюза
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	var payload models.PaymentWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics.WebhooksProcessed.WithLabelValues(payload.Event).Inc()

	if err := h.services.Payments.HandleWebhook(c.Request.Context(), &payload); err != nil {
		slog.Error("Failed to handle payment webhook",
			"error", err,
			"event", payload.Event,
			"payment_id", payload.Object.ID)
		respondError(c, err)
		return
	}

	// Шлюз повторяет доставку при не-2xx, тело ответа ему не нужно
	c.Status(http.StatusOK)
}
