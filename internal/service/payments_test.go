package service

import (
	"context"
	"testing"
	"time"

	apperrors "gostay/internal/errors"
	"gostay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookPayload(event, paymentID, bookingID string) *models.PaymentWebhookPayload {
	return &models.PaymentWebhookPayload{
		Event: event,
		Object: models.PaymentWebhookObject{
			ID:     paymentID,
			Status: "whatever",
			Metadata: models.PaymentWebhookMetadata{
				BookingID: bookingID,
			},
		},
	}
}

func TestWebhookSucceededByBookingID(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-PAY00001", 10000, 1, time.Now().AddDate(0, 0, 3))
	svc := NewPaymentService(store, &fakePublisher{})

	payload := webhookPayload("payment.succeeded", "pay-123", "GOS-PAY00001")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload))

	booking := store.bookings["GOS-PAY00001"]
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	require.NotNil(t, booking.PaymentStatus)
	assert.Equal(t, models.PaymentStatusSucceeded, *booking.PaymentStatus)

	// Redelivery ends on the same state
	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, models.PaymentStatusSucceeded, *booking.PaymentStatus)
}

func TestWebhookCanceledByPaymentID(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-PAY00002", 10000, 1, time.Now().AddDate(0, 0, 3))
	paymentID := "pay-456"
	store.bookings["GOS-PAY00002"].PaymentID = &paymentID
	svc := NewPaymentService(store, &fakePublisher{})

	payload := webhookPayload("payment.canceled", paymentID, "")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload))

	booking := store.bookings["GOS-PAY00002"]
	assert.Equal(t, models.BookingStatusPaymentFailed, booking.Status)
	require.NotNil(t, booking.PaymentStatus)
	assert.Equal(t, models.PaymentStatusCanceled, *booking.PaymentStatus)
}

func TestWebhookUnknownEventIsAcknowledged(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-PAY00003", 10000, 1, time.Now().AddDate(0, 0, 3))
	pub := &fakePublisher{}
	svc := NewPaymentService(store, pub)

	payload := webhookPayload("payment.waiting_for_capture", "pay-789", "GOS-PAY00003")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload))

	booking := store.bookings["GOS-PAY00003"]
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Nil(t, booking.PaymentStatus)
	assert.Empty(t, pub.subjects)
}

func TestWebhookMissingPaymentID(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, &fakePublisher{})

	payload := webhookPayload("payment.succeeded", "", "GOS-PAY00001")
	err := svc.HandleWebhook(context.Background(), payload)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestWebhookUnknownBooking(t *testing.T) {
	store := newFakeStore()
	svc := NewPaymentService(store, &fakePublisher{})

	payload := webhookPayload("payment.succeeded", "pay-000", "GOS-MISSING1")
	err := svc.HandleWebhook(context.Background(), payload)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWebhookPublishesAppliedEvent(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-PAY00004", 10000, 1, time.Now().AddDate(0, 0, 3))
	pub := &fakePublisher{}
	svc := NewPaymentService(store, pub)

	payload := webhookPayload("payment.succeeded", "pay-111", "GOS-PAY00004")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	assert.Equal(t, []string{models.EventPaymentApplied}, pub.subjects)
}
