package service

import (
	"context"
	"fmt"
	"time"

	apperrors "gostay/internal/errors"
	"gostay/internal/external"
	"gostay/internal/logger"
	"gostay/internal/loyalty"
	"gostay/internal/models"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type bookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	CreateWithBonusSpend(ctx context.Context, booking *models.Booking, description string) error
	GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error)
	List(ctx context.Context, page, pageSize int) ([]models.Booking, error)
	SetPaymentInitiated(ctx context.Context, bookingID, paymentID string) error
	UpdateStatus(ctx context.Context, bookingID, status string) error
}

type userGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type eventPublisher interface {
	Publish(subject string, data interface{}) error
}

type paymentGateway interface {
	CreatePayment(amount int64, bookingID, description string) (*external.PaymentCreateResponse, error)
}

type BookingService struct {
	bookings bookingStore
	users    userGetter
	loyalty  *loyalty.Engine
	payments paymentGateway
	nats     eventPublisher
}

func NewBookingService(bookings bookingStore, users userGetter, engine *loyalty.Engine, payments paymentGateway, nats eventPublisher) *BookingService {
	return &BookingService{
		bookings: bookings,
		users:    users,
		loyalty:  engine,
		payments: payments,
		nats:     nats,
	}
}

// Create validates the request, applies the bonus redemption rules and
// persists the booking. A repeated submission with the same booking_id is
// reported as already saved instead of failing, so client retries are safe.
func (s *BookingService) Create(ctx context.Context, userID *int64, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("invalid check_in date: %w", apperrors.ErrValidation)
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("invalid check_out date: %w", apperrors.ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("check_out must be after check_in: %w", apperrors.ErrValidation)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCard
	}
	switch paymentMethod {
	case models.PaymentMethodCard, models.PaymentMethodSBP, models.PaymentMethodCash:
	default:
		return nil, fmt.Errorf("unknown payment method %q: %w", paymentMethod, apperrors.ErrValidation)
	}

	if req.Discount < 0 || req.BonusSpent < 0 {
		return nil, fmt.Errorf("negative amounts are not allowed: %w", apperrors.ErrValidation)
	}

	// Idempotency: a known booking_id short-circuits before any mutation
	if req.BookingID != "" {
		existing, err := s.bookings.GetByBookingID(ctx, req.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing booking: %w", err)
		}
		if existing != nil {
			return &models.CreateBookingResponse{
				BookingID:  existing.BookingID,
				FinalPrice: existing.FinalPrice,
				Message:    "already saved",
			}, nil
		}
	}

	finalPrice := req.TotalPrice - req.Discount - req.BonusSpent
	if finalPrice <= 0 {
		return nil, fmt.Errorf("final price must be positive: %w", apperrors.ErrValidation)
	}

	if req.BonusSpent > 0 {
		ceiling := s.loyalty.BonusSpendCeiling(req.TotalPrice)
		if req.BonusSpent > ceiling {
			return nil, &apperrors.BonusLimitError{Requested: req.BonusSpent, Max: ceiling}
		}

		if userID == nil {
			return nil, fmt.Errorf("guest checkout cannot spend bonuses: %w", apperrors.ErrUnauthorized)
		}
		user, err := s.users.GetByID(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("user %d: %w", *userID, apperrors.ErrNotFound)
		}
		if req.BonusSpent > user.BonusBalance {
			return nil, &apperrors.InsufficientBalanceError{Requested: req.BonusSpent, Balance: user.BonusBalance}
		}
	}

	bookingID := req.BookingID
	if bookingID == "" {
		bookingID = generateBookingID()
	}

	booking := &models.Booking{
		BookingID:     bookingID,
		UserID:        userID,
		HotelName:     req.HotelName,
		HotelSlug:     req.HotelSlug,
		RoomName:      req.RoomName,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Nights:        int(checkOut.Sub(checkIn).Hours() / 24),
		Guests:        req.Guests,
		PricePerNight: req.PricePerNight,
		TotalPrice:    req.TotalPrice,
		Discount:      req.Discount,
		FinalPrice:    finalPrice,
		BonusSpent:    req.BonusSpent,
		PaymentMethod: paymentMethod,
		Status:        models.BookingStatusConfirmed,
	}

	if req.BonusSpent > 0 {
		err = s.bookings.CreateWithBonusSpend(ctx, booking, fmt.Sprintf("Списание бонусов при бронировании %s", bookingID))
	} else {
		err = s.bookings.Create(ctx, booking)
	}
	if err != nil {
		// A concurrent retry may have inserted the same booking_id first
		existing, lookupErr := s.bookings.GetByBookingID(ctx, bookingID)
		if lookupErr == nil && existing != nil {
			return &models.CreateBookingResponse{
				BookingID:  existing.BookingID,
				FinalPrice: existing.FinalPrice,
				Message:    "already saved",
			}, nil
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	event := models.BookingCreatedEvent{
		BookingID: booking.BookingID,
		UserID:    booking.UserID,
		HotelName: booking.HotelName,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Timestamp: time.Now(),
	}
	if err := s.nats.Publish(models.EventBookingCreated, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err,
			"booking_id", booking.BookingID,
			"event_type", models.EventBookingCreated)
	}

	if booking.BonusSpent > 0 {
		spent := models.BonusSpentEvent{
			BookingID: booking.BookingID,
			UserID:    *booking.UserID,
			Amount:    booking.BonusSpent,
			Timestamp: time.Now(),
		}
		if err := s.nats.Publish(models.EventBonusSpent, spent); err != nil {
			logger.WithContext(ctx).Error("Failed to publish bonus spent event",
				"error", err,
				"booking_id", booking.BookingID,
				"event_type", models.EventBonusSpent)
		}
	}

	return &models.CreateBookingResponse{
		BookingID:  booking.BookingID,
		FinalPrice: booking.FinalPrice,
		Message:    "created",
	}, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]models.BookingResponseItem, error) {
	bookings, err := s.bookings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	result := make([]models.BookingResponseItem, len(bookings))
	for i := range bookings {
		result[i] = toBookingItem(&bookings[i])
	}
	return result, nil
}

func (s *BookingService) ListAll(ctx context.Context, page, pageSize int) ([]models.BookingResponseItem, error) {
	bookings, err := s.bookings.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	result := make([]models.BookingResponseItem, len(bookings))
	for i := range bookings {
		result[i] = toBookingItem(&bookings[i])
	}
	return result, nil
}

// Get returns a booking visible to the requester. Guest bookings have no
// owner and are addressable by booking_id alone.
func (s *BookingService) Get(ctx context.Context, bookingID string, requesterID *int64, isAdmin bool) (*models.BookingResponseItem, error) {
	booking, err := s.load(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	item := toBookingItem(booking)
	return &item, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, status string) error {
	if err := s.bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}

// InitiatePayment registers the booking's final price with the payment
// gateway and stores the returned payment id for webhook reconciliation.
func (s *BookingService) InitiatePayment(ctx context.Context, bookingID string, requesterID *int64, isAdmin bool) (*models.InitiatePaymentResponse, error) {
	booking, err := s.load(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus != nil && *booking.PaymentStatus == models.PaymentStatusSucceeded {
		return nil, fmt.Errorf("booking is already paid: %w", apperrors.ErrValidation)
	}

	description := fmt.Sprintf("Бронирование %s, %s", booking.HotelName, booking.RoomName)
	payment, err := s.payments.CreatePayment(booking.FinalPrice, booking.BookingID, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if err := s.bookings.SetPaymentInitiated(ctx, booking.BookingID, payment.PaymentID); err != nil {
		return nil, fmt.Errorf("failed to save payment id: %w", err)
	}

	return &models.InitiatePaymentResponse{
		PaymentID:       payment.PaymentID,
		ConfirmationURL: payment.ConfirmationURL,
	}, nil
}

func (s *BookingService) load(ctx context.Context, bookingID string, requesterID *int64, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookings.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperrors.ErrNotFound)
	}
	if booking.UserID != nil && !isAdmin {
		if requesterID == nil || *requesterID != *booking.UserID {
			return nil, fmt.Errorf("booking %s: %w", bookingID, apperrors.ErrForbidden)
		}
	}
	return booking, nil
}

func toBookingItem(b *models.Booking) models.BookingResponseItem {
	item := models.BookingResponseItem{
		BookingID:     b.BookingID,
		HotelName:     b.HotelName,
		HotelSlug:     b.HotelSlug,
		RoomName:      b.RoomName,
		CheckIn:       b.CheckIn.Format(dateLayout),
		CheckOut:      b.CheckOut.Format(dateLayout),
		Nights:        b.Nights,
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		Discount:      b.Discount,
		FinalPrice:    b.FinalPrice,
		BonusSpent:    b.BonusSpent,
		BonusEarned:   b.BonusEarned,
		PaymentMethod: b.PaymentMethod,
		Status:        b.Status,
	}
	if b.PaymentStatus != nil {
		item.PaymentStatus = *b.PaymentStatus
	}
	return item
}

func generateBookingID() string {
	id := uuid.New()
	return "GOS-" + fmt.Sprintf("%08X", id[:4])
}
