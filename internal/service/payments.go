package service

import (
	"context"
	"fmt"
	"time"

	apperrors "gostay/internal/errors"
	"gostay/internal/logger"
	"gostay/internal/models"
)

type paymentApplier interface {
	ApplyPaymentStatusByBookingID(ctx context.Context, bookingID, paymentStatus, status string) (int64, error)
	ApplyPaymentStatusByPaymentID(ctx context.Context, paymentID, paymentStatus, status string) (int64, error)
}

type PaymentService struct {
	bookings paymentApplier
	nats     eventPublisher
}

func NewPaymentService(bookings paymentApplier, nats eventPublisher) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		nats:     nats,
	}
}

// HandleWebhook applies a gateway notification to the matching booking.
// The transition is a blind set, so redelivered events land on the same
// final state. Unrecognized event types are acknowledged without mutation
// because gateways retry on non-2xx responses.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload *models.PaymentWebhookPayload) error {
	if payload.Object.ID == "" {
		return fmt.Errorf("missing payment id in webhook payload: %w", apperrors.ErrValidation)
	}

	var paymentStatus, status string
	switch payload.Event {
	case "payment.succeeded":
		paymentStatus = models.PaymentStatusSucceeded
		status = models.BookingStatusConfirmed
	case "payment.canceled":
		paymentStatus = models.PaymentStatusCanceled
		status = models.BookingStatusPaymentFailed
	default:
		logger.WithContext(ctx).Info("Ignoring unhandled webhook event",
			"event", payload.Event,
			"payment_id", payload.Object.ID)
		return nil
	}

	// The booking id is assigned before the gateway payment exists, so it
	// always resolves; the payment id covers flows without metadata.
	bookingID := payload.Object.Metadata.BookingID
	var affected int64
	var err error
	if bookingID != "" {
		affected, err = s.bookings.ApplyPaymentStatusByBookingID(ctx, bookingID, paymentStatus, status)
	} else {
		affected, err = s.bookings.ApplyPaymentStatusByPaymentID(ctx, payload.Object.ID, paymentStatus, status)
	}
	if err != nil {
		return fmt.Errorf("failed to apply payment status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no booking matched webhook: %w", apperrors.ErrNotFound)
	}

	event := models.PaymentAppliedEvent{
		BookingID:     bookingID,
		PaymentID:     payload.Object.ID,
		PaymentStatus: paymentStatus,
		Status:        status,
		Timestamp:     time.Now(),
	}
	if err := s.nats.Publish(models.EventPaymentApplied, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment applied event",
			"error", err,
			"payment_id", payload.Object.ID,
			"event_type", models.EventPaymentApplied)
	}

	return nil
}
