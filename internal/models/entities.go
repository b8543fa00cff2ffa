package models

import (
	"time"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Booking statuses
const (
	BookingStatusConfirmed     = "confirmed"
	BookingStatusCancelled     = "cancelled"
	BookingStatusPaymentFailed = "payment_failed"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusCanceled  = "canceled"
)

// Payment methods
const (
	PaymentMethodCard = "card"
	PaymentMethodSBP  = "sbp"
	PaymentMethodCash = "cash"
)

// Bonus transaction types
const (
	BonusTypeEarn  = "earn"
	BonusTypeSpend = "spend"
)

// User represents an account in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"` // nil for OAuth-only accounts
	Role         string    `json:"role" db:"role"`
	BonusBalance int64     `json:"bonus_balance" db:"bonus_balance"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Booking represents one hotel reservation
type Booking struct {
	ID                int64     `json:"id" db:"id"`
	BookingID         string    `json:"booking_id" db:"booking_id"`
	UserID            *int64    `json:"user_id" db:"user_id"`
	HotelName         string    `json:"hotel_name" db:"hotel_name"`
	HotelSlug         string    `json:"hotel_slug" db:"hotel_slug"`
	RoomName          string    `json:"room_name" db:"room_name"`
	CheckIn           time.Time `json:"check_in" db:"check_in"`
	CheckOut          time.Time `json:"check_out" db:"check_out"`
	Nights            int       `json:"nights" db:"nights"`
	Guests            int       `json:"guests" db:"guests"`
	PricePerNight     int64     `json:"price_per_night" db:"price_per_night"`
	TotalPrice        int64     `json:"total_price" db:"total_price"`
	Discount          int64     `json:"discount" db:"discount"`
	FinalPrice        int64     `json:"final_price" db:"final_price"`
	BonusSpent        int64     `json:"bonus_spent" db:"bonus_spent"`
	BonusEarned       int64     `json:"bonus_earned" db:"bonus_earned"`
	PaymentMethod     string    `json:"payment_method" db:"payment_method"`
	PaymentID         *string   `json:"payment_id" db:"payment_id"`
	PaymentStatus     *string   `json:"payment_status" db:"payment_status"`
	Status            string    `json:"status" db:"status"`
	NotificationsSent string    `json:"-" db:"notifications_sent"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// BonusTransaction is one append-only ledger entry. Positive amounts are
// earns, negative amounts are spends; the sum over a user equals their
// current bonus balance.
type BonusTransaction struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Amount      int64     `json:"amount" db:"amount"`
	Type        string    `json:"type" db:"type"`
	BookingID   *string   `json:"booking_id" db:"booking_id"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Review represents a user's review for a hotel, one per (user, hotel)
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	HotelSlug string    `json:"hotel_slug" db:"hotel_slug"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Hotel is a catalog document stored in the search index, not in Postgres
type Hotel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	City          string   `json:"city"`
	Description   string   `json:"description"`
	Stars         int      `json:"stars"`
	PricePerNight int64    `json:"price_per_night"`
	Amenities     []string `json:"amenities,omitempty"`
}
