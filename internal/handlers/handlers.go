package handlers

import (
	"errors"
	"net/http"

	"gostay/internal/cache"
	"gostay/internal/database"
	apperrors "gostay/internal/errors"
	"gostay/internal/middleware"
	"gostay/internal/search"
	"gostay/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
	db           *database.DB
	es           *search.ElasticsearchClient
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient, db *database.DB, es *search.ElasticsearchClient) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
		db:           db,
		es:           es,
	}
}

// Health - GET /health
// Проверка доступности сервиса и его зависимостей
func (h *Handlers) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if h.db != nil {
		dbHealth := h.db.HealthCheck(c.Request.Context())
		checks["database"] = dbHealth
		if dbHealth.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
	}

	if h.es != nil {
		if err := h.es.HealthCheck(c.Request.Context()); err != nil {
			checks["elasticsearch"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["elasticsearch"] = "ok"
		}
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
}

// requesterID returns the authenticated user id, nil for guests
func requesterID(c *gin.Context) *int64 {
	if id, ok := middleware.UserIDFromContext(c.Request.Context()); ok {
		return &id
	}
	return nil
}

func isAdmin(c *gin.Context) bool {
	role, ok := c.Get("user_role")
	return ok && role == "admin"
}

// respondError maps service errors onto HTTP status codes. Business-rule
// rejections keep their message so the client can show the numbers.
func respondError(c *gin.Context, err error) {
	var limitErr *apperrors.BonusLimitError
	var balanceErr *apperrors.InsufficientBalanceError

	switch {
	case errors.As(err, &limitErr), errors.As(err, &balanceErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
