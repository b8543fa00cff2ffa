package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"gostay/internal/metrics"
	"gostay/internal/models"

	"github.com/gin-gonic/gin"
)

// Bookings handlers

// CreateBooking - POST /api/bookings
// Создать бронирование, гостевое или от имени пользователя
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Bookings.Create(c.Request.Context(), requesterID(c), &req)
	if err != nil {
		slog.Error("Failed to create booking", "error", err, "hotel_slug", req.HotelSlug)
		respondError(c, err)
		return
	}

	if response.Message == "created" {
		metrics.BookingsCreated.Inc()
		c.JSON(http.StatusCreated, response)
		return
	}

	// Повторная отправка той же брони выглядит для клиента как успех
	c.JSON(http.StatusOK, response)
}

// ListMyBookings - GET /api/bookings
// Получить бронирования текущего пользователя
func (h *Handlers) ListMyBookings(c *gin.Context) {
	userID := requesterID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Bookings.ListByUser(c.Request.Context(), *userID)
	if err != nil {
		slog.Error("Failed to list bookings", "error", err, "user_id", *userID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking - GET /api/bookings/:bookingId
// Получить бронирование по идентификатору
func (h *Handlers) GetBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")

	response, err := h.services.Bookings.Get(c.Request.Context(), bookingID, requesterID(c), isAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// InitiatePayment - POST /api/bookings/:bookingId/pay
// Зарегистрировать платеж в шлюзе и получить ссылку на оплату
func (h *Handlers) InitiatePayment(c *gin.Context) {
	bookingID := c.Param("bookingId")

	response, err := h.services.Bookings.InitiatePayment(c.Request.Context(), bookingID, requesterID(c), isAdmin(c))
	if err != nil {
		slog.Error("Failed to initiate payment", "error", err, "booking_id", bookingID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Admin handlers

// ListAllBookings - GET /api/admin/bookings
// Получить все бронирования с пагинацией
func (h *Handlers) ListAllBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	response, err := h.services.Bookings.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		slog.Error("Failed to list all bookings", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateBookingStatus - PATCH /api/admin/bookings/:bookingId/status
// Сменить статус бронирования вручную
func (h *Handlers) UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("bookingId")

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Bookings.UpdateStatus(c.Request.Context(), bookingID, req.Status); err != nil {
		slog.Error("Failed to update booking status", "error", err, "booking_id", bookingID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
