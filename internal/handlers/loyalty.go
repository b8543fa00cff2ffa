package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"gostay/internal/models"

	"github.com/gin-gonic/gin"
)

// Loyalty handlers

// GetLoyalty - GET /api/loyalty
// Баланс, уровень и прогресс до следующего уровня
func (h *Handlers) GetLoyalty(c *gin.Context) {
	userID := requesterID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Loyalty.Profile(c.Request.Context(), *userID)
	if err != nil {
		slog.Error("Failed to get loyalty profile", "error", err, "user_id", *userID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBonusTransactions - GET /api/loyalty/transactions
// История бонусных операций пользователя
func (h *Handlers) GetBonusTransactions(c *gin.Context) {
	userID := requesterID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Loyalty.Transactions(c.Request.Context(), *userID)
	if err != nil {
		slog.Error("Failed to get bonus transactions", "error", err, "user_id", *userID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AdjustBonus - POST /api/admin/users/:userId/bonus
// Ручная корректировка бонусного баланса администратором
func (h *Handlers) AdjustBonus(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req models.AdjustBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Loyalty.AdjustBalance(c.Request.Context(), targetID, req.Amount, req.Description); err != nil {
		slog.Error("Failed to adjust bonus balance", "error", err, "target_user_id", targetID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
