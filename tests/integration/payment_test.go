package integration

import (
	"net/http"
	"testing"

	"gostay/internal/models"
)

func succeededWebhook(bookingID string) models.PaymentWebhookPayload {
	return models.PaymentWebhookPayload{
		Event: "payment.succeeded",
		Object: models.PaymentWebhookObject{
			ID:     "it-pay-" + bookingID,
			Status: "succeeded",
			Metadata: models.PaymentWebhookMetadata{
				BookingID: bookingID,
			},
		},
	}
}

func TestPayment_WebhookConfirmsBooking(t *testing.T) {
	client := NewTestClient(t)

	booking, code := client.CreateBooking(t, sampleBooking())
	if code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", code)
	}

	if code := client.SendWebhook(t, succeededWebhook(booking.BookingID)); code != http.StatusOK {
		t.Fatalf("Expected 200 from webhook, got %d", code)
	}

	saved := client.GetBooking(t, booking.BookingID)
	if saved.PaymentStatus != "succeeded" {
		t.Fatalf("Expected payment_status succeeded, got %q", saved.PaymentStatus)
	}
	if saved.Status != "confirmed" {
		t.Fatalf("Expected status confirmed, got %q", saved.Status)
	}
}

func TestPayment_WebhookRedeliveryIsIdempotent(t *testing.T) {
	client := NewTestClient(t)

	booking, code := client.CreateBooking(t, sampleBooking())
	if code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", code)
	}

	payload := succeededWebhook(booking.BookingID)
	for i := 0; i < 2; i++ {
		if code := client.SendWebhook(t, payload); code != http.StatusOK {
			t.Fatalf("Delivery %d: expected 200, got %d", i+1, code)
		}
	}

	saved := client.GetBooking(t, booking.BookingID)
	if saved.PaymentStatus != "succeeded" || saved.Status != "confirmed" {
		t.Fatalf("Unexpected state after redelivery: %q/%q", saved.Status, saved.PaymentStatus)
	}
}

func TestPayment_WebhookCanceledMarksFailure(t *testing.T) {
	client := NewTestClient(t)

	booking, code := client.CreateBooking(t, sampleBooking())
	if code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", code)
	}

	payload := succeededWebhook(booking.BookingID)
	payload.Event = "payment.canceled"

	if code := client.SendWebhook(t, payload); code != http.StatusOK {
		t.Fatalf("Expected 200 from webhook, got %d", code)
	}

	saved := client.GetBooking(t, booking.BookingID)
	if saved.Status != "payment_failed" {
		t.Fatalf("Expected status payment_failed, got %q", saved.Status)
	}
}

func TestPayment_WebhookUnknownEventAccepted(t *testing.T) {
	client := NewTestClient(t)

	payload := succeededWebhook("GOS-WHATEVER")
	payload.Event = "payment.waiting_for_capture"

	if code := client.SendWebhook(t, payload); code != http.StatusOK {
		t.Fatalf("Expected 200 for unknown event, got %d", code)
	}
}

func TestPayment_WebhookWithoutIDRejected(t *testing.T) {
	client := NewTestClient(t)

	payload := succeededWebhook("GOS-WHATEVER")
	payload.Object.ID = ""

	if code := client.SendWebhook(t, payload); code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing payment id, got %d", code)
	}
}
