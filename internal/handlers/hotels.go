package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"gostay/internal/models"

	"github.com/gin-gonic/gin"
)

// Hotels handlers

// SearchHotels - GET /api/hotels
// Поиск отелей по тексту, городу и диапазону цен
func (h *Handlers) SearchHotels(c *gin.Context) {
	query := c.Query("query")
	city := c.Query("city")

	minPrice, _ := strconv.ParseInt(c.DefaultQuery("minPrice", "0"), 10, 64)
	maxPrice, _ := strconv.ParseInt(c.DefaultQuery("maxPrice", "0"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return
	}

	response, err := h.services.Hotels.Search(c.Request.Context(), query, city, minPrice, maxPrice, page, pageSize)
	if err != nil {
		slog.Error("Failed to search hotels", "error", err, "query", query)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetHotel - GET /api/hotels/:slug
// Карточка отеля
func (h *Handlers) GetHotel(c *gin.Context) {
	hotel, err := h.services.Hotels.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hotel)
}

// ListHotelReviews - GET /api/hotels/:slug/reviews
// Отзывы об отеле
func (h *Handlers) ListHotelReviews(c *gin.Context) {
	reviews, err := h.services.Reviews.ListByHotel(c.Request.Context(), c.Param("slug"))
	if err != nil {
		slog.Error("Failed to list reviews", "error", err, "hotel_slug", c.Param("slug"))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview - POST /api/reviews
// Оставить отзыв, один на отель от пользователя
func (h *Handlers) CreateReview(c *gin.Context) {
	userID := requesterID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.services.Reviews.Create(c.Request.Context(), *userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}
