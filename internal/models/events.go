package models

import "time"

// NATS event types
const (
	EventBookingCreated  = "booking.created"
	EventBonusSpent      = "bonus.spent"
	EventBonusAccrued    = "bonus.accrued"
	EventPaymentApplied  = "payment.applied"
	EventBookingReminder = "booking.reminder"
)

// BookingCreatedEvent is published after a booking row is persisted.
// Delivery is best effort: the booking is already committed when this
// event is emitted and a publish failure never rolls it back.
type BookingCreatedEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    *int64    `json:"user_id"`
	HotelName string    `json:"hotel_name"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Timestamp time.Time `json:"timestamp"`
}

// BonusSpentEvent records a redemption applied at booking creation
type BonusSpentEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// BonusAccruedEvent records cashback credited after a completed stay
type BonusAccruedEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	Tier      string    `json:"tier"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentAppliedEvent records a webhook-driven status transition
type PaymentAppliedEvent struct {
	BookingID     string    `json:"booking_id"`
	PaymentID     string    `json:"payment_id"`
	PaymentStatus string    `json:"payment_status"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingReminderEvent asks the worker to send a check-in reminder
type BookingReminderEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    *int64    `json:"user_id"`
	HotelName string    `json:"hotel_name"`
	CheckIn   string    `json:"check_in"`
	Timestamp time.Time `json:"timestamp"`
}
