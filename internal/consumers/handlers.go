package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gostay/internal/models"
	"gostay/internal/repository"

	"github.com/nats-io/stan.go"
)

type natsHandler = stan.MsgHandler

// mailSender is satisfied by the Mailjet client
type mailSender interface {
	Send(toEmail, toName, subject, textBody, htmlBody string) error
}

type Handlers struct {
	repos  *repository.Repositories
	mailer mailSender
}

func NewHandlers(repos *repository.Repositories, mailer mailSender) *Handlers {
	return &Handlers{
		repos:  repos,
		mailer: mailer,
	}
}

// HandleBookingCreated sends the booking confirmation email. Guest bookings
// carry no user and are only logged.
func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	ctx := context.Background()
	slog.Info("Processing booking created event", "booking_id", event.BookingID)

	if event.UserID == nil {
		slog.Info("Guest booking, skipping confirmation email", "booking_id", event.BookingID)
		m.Ack()
		return
	}

	user, err := h.repos.Users.GetByID(ctx, *event.UserID)
	if err != nil || user == nil {
		slog.Error("Failed to resolve booking user", "booking_id", event.BookingID, "error", err)
		return
	}

	subject := fmt.Sprintf("Бронирование %s подтверждено", event.BookingID)
	text := fmt.Sprintf("Ваше бронирование %s в отеле %s с %s по %s подтверждено.",
		event.BookingID, event.HotelName, event.CheckIn, event.CheckOut)

	if err := h.mailer.Send(user.Email, user.Name, subject, text, ""); err != nil {
		slog.Error("Failed to send confirmation email",
			"booking_id", event.BookingID,
			"error", err)
		// Письмо не критично, бронь уже сохранена
		m.Ack()
		return
	}

	if err := h.repos.Bookings.MarkNotificationSent(ctx, event.BookingID, "confirmation"); err != nil {
		slog.Error("Failed to mark confirmation as sent", "booking_id", event.BookingID, "error", err)
	}

	m.Ack()
}

// HandlePaymentApplied sends a receipt or a payment failure notice
func (h *Handlers) HandlePaymentApplied(m *stan.Msg) {
	var event models.PaymentAppliedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment applied event", "error", err)
		return
	}

	ctx := context.Background()

	booking, err := h.lookupBooking(ctx, event.BookingID, event.PaymentID)
	if err != nil || booking == nil {
		slog.Error("Failed to resolve booking for payment event",
			"booking_id", event.BookingID,
			"payment_id", event.PaymentID,
			"error", err)
		return
	}
	if booking.UserID == nil {
		m.Ack()
		return
	}

	user, err := h.repos.Users.GetByID(ctx, *booking.UserID)
	if err != nil || user == nil {
		slog.Error("Failed to resolve user for payment event", "booking_id", booking.BookingID, "error", err)
		return
	}

	var subject, text string
	if event.PaymentStatus == models.PaymentStatusSucceeded {
		subject = fmt.Sprintf("Оплата брони %s получена", booking.BookingID)
		text = fmt.Sprintf("Оплата %d за бронирование %s прошла успешно.", booking.FinalPrice, booking.BookingID)
	} else {
		subject = fmt.Sprintf("Оплата брони %s не прошла", booking.BookingID)
		text = fmt.Sprintf("Платеж за бронирование %s отклонен. Попробуйте оплатить еще раз.", booking.BookingID)
	}

	if err := h.mailer.Send(user.Email, user.Name, subject, text, ""); err != nil {
		slog.Error("Failed to send payment email", "booking_id", booking.BookingID, "error", err)
	}

	m.Ack()
}

// HandleBookingReminder sends the day-before-check-in reminder and tags the
// booking so it is not reminded twice.
func (h *Handlers) HandleBookingReminder(m *stan.Msg) {
	var event models.BookingReminderEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking reminder event", "error", err)
		return
	}

	ctx := context.Background()

	if event.UserID == nil {
		m.Ack()
		return
	}

	user, err := h.repos.Users.GetByID(ctx, *event.UserID)
	if err != nil || user == nil {
		slog.Error("Failed to resolve user for reminder", "booking_id", event.BookingID, "error", err)
		return
	}

	subject := fmt.Sprintf("Завтра заезд: %s", event.HotelName)
	text := fmt.Sprintf("Напоминаем о заезде %s в отель %s, бронь %s.",
		event.CheckIn, event.HotelName, event.BookingID)

	if err := h.mailer.Send(user.Email, user.Name, subject, text, ""); err != nil {
		slog.Error("Failed to send reminder email", "booking_id", event.BookingID, "error", err)
		return
	}

	if err := h.repos.Bookings.MarkNotificationSent(ctx, event.BookingID, "reminder"); err != nil {
		slog.Error("Failed to mark reminder as sent", "booking_id", event.BookingID, "error", err)
		return
	}

	m.Ack()
}

// HandleBonusAccrued is analytics only for now
func (h *Handlers) HandleBonusAccrued(m *stan.Msg) {
	var event models.BonusAccruedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal bonus accrued event", "error", err)
		return
	}

	slog.Info("Cashback credited",
		"booking_id", event.BookingID,
		"user_id", event.UserID,
		"amount", event.Amount,
		"tier", event.Tier)

	m.Ack()
}

func (h *Handlers) lookupBooking(ctx context.Context, bookingID, paymentID string) (*models.Booking, error) {
	if bookingID != "" {
		return h.repos.Bookings.GetByBookingID(ctx, bookingID)
	}
	return h.repos.Bookings.GetByPaymentID(ctx, paymentID)
}
