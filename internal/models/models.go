package models

// RegisterRequest - модель для регистрации пользователя
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterResponse - модель ответа при регистрации
type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// CreateBookingRequest - модель для создания бронирования.
// BookingID опционален: клиент может передать свой идентификатор,
// чтобы повторная отправка формы не создала дубликат.
type CreateBookingRequest struct {
	BookingID     string `json:"booking_id,omitempty"`
	HotelName     string `json:"hotel_name" binding:"required"`
	HotelSlug     string `json:"hotel_slug" binding:"required"`
	RoomName      string `json:"room_name" binding:"required"`
	CheckIn       string `json:"check_in" binding:"required"`
	CheckOut      string `json:"check_out" binding:"required"`
	Guests        int    `json:"guests" binding:"required,gt=0"`
	PricePerNight int64  `json:"price_per_night" binding:"required,gt=0"`
	TotalPrice    int64  `json:"total_price" binding:"required,gt=0"`
	Discount      int64  `json:"discount"`
	PaymentMethod string `json:"payment_method"`
	BonusSpent    int64  `json:"bonus_spent"`
}

// CreateBookingResponse - модель ответа при создании бронирования
type CreateBookingResponse struct {
	BookingID  string `json:"booking_id"`
	FinalPrice int64  `json:"final_price"`
	Message    string `json:"message"`
}

// BookingResponseItem - элемент списка бронирований
type BookingResponseItem struct {
	BookingID     string `json:"booking_id"`
	HotelName     string `json:"hotel_name"`
	HotelSlug     string `json:"hotel_slug"`
	RoomName      string `json:"room_name"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Nights        int    `json:"nights"`
	Guests        int    `json:"guests"`
	TotalPrice    int64  `json:"total_price"`
	Discount      int64  `json:"discount"`
	FinalPrice    int64  `json:"final_price"`
	BonusSpent    int64  `json:"bonus_spent"`
	BonusEarned   int64  `json:"bonus_earned"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Status        string `json:"status"`
}

// InitiatePaymentResponse - модель ответа при инициации платежа
type InitiatePaymentResponse struct {
	PaymentID       string `json:"payment_id"`
	ConfirmationURL string `json:"confirmation_url"`
}

// PaymentWebhookMetadata - метаданные платежа, проброшенные при инициации
type PaymentWebhookMetadata struct {
	BookingID string `json:"bookingId,omitempty"`
}

// PaymentWebhookObject - объект платежа в уведомлении шлюза
type PaymentWebhookObject struct {
	ID       string                 `json:"id"`
	Status   string                 `json:"status"`
	Metadata PaymentWebhookMetadata `json:"metadata,omitempty"`
}

// PaymentWebhookPayload - модель для webhook уведомлений от платежного шлюза
type PaymentWebhookPayload struct {
	Event  string               `json:"event"`
	Object PaymentWebhookObject `json:"object"`
}

// NextTierInfo - прогресс до следующего уровня лояльности
type NextTierInfo struct {
	Name      string `json:"name"`
	Remaining int64  `json:"remaining"`
}

// LoyaltyResponse - модель ответа профиля лояльности
type LoyaltyResponse struct {
	Balance         int64         `json:"balance"`
	TotalSpent      int64         `json:"total_spent"`
	Tier            string        `json:"tier"`
	CashbackPercent int64         `json:"cashback_percent"`
	NextTier        *NextTierInfo `json:"next_tier,omitempty"`
}

// BonusTransactionItem - элемент истории бонусных операций
type BonusTransactionItem struct {
	Amount      int64  `json:"amount"`
	Type        string `json:"type"`
	BookingID   string `json:"booking_id,omitempty"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// AdjustBonusRequest - модель ручной корректировки баланса администратором
type AdjustBonusRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdateBookingStatusRequest - модель смены статуса бронирования администратором
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled payment_failed"`
}

// CreateReviewRequest - модель для создания отзыва
type CreateReviewRequest struct {
	HotelSlug string `json:"hotel_slug" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// HotelSearchResponse - результат поиска отелей
type HotelSearchResponse struct {
	Total  int64   `json:"total"`
	Hotels []Hotel `json:"hotels"`
}
