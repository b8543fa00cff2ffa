package handlers

import (
	"log/slog"
	"net/http"

	"gostay/internal/models"

	"github.com/gin-gonic/gin"
)

// Register - POST /api/auth/register
// Зарегистрировать пользователя
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Users.Register(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to register user", "error", err, "email", req.Email)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Me - GET /api/auth/me
// Данные текущего пользователя
func (h *Handlers) Me(c *gin.Context) {
	userID := requesterID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.services.Users.GetByID(c.Request.Context(), *userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
