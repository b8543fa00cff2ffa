package jobs

import (
	"context"
	"log/slog"
	"time"

	"gostay/internal/models"
	"gostay/internal/repository"
)

type reminderPublisher interface {
	Publish(subject string, data interface{}) error
}

// CheckinReminderJob finds bookings that check in tomorrow and hands them to
// the worker queue. The notifications_sent tag keeps redeliveries from
// emailing twice.
type CheckinReminderJob struct {
	bookings *repository.BookingRepository
	nats     reminderPublisher
	interval time.Duration
}

func NewCheckinReminderJob(bookings *repository.BookingRepository, nats reminderPublisher, interval time.Duration) *CheckinReminderJob {
	return &CheckinReminderJob{
		bookings: bookings,
		nats:     nats,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled
func (j *CheckinReminderJob) Run(ctx context.Context) {
	slog.Info("Check-in reminder job started", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Check-in reminder job stopped")
			return
		case <-ticker.C:
			j.pass(ctx)
		}
	}
}

func (j *CheckinReminderJob) pass(ctx context.Context) {
	candidates, err := j.bookings.GetReminderCandidates(ctx, "reminder")
	if err != nil {
		slog.Error("Failed to query reminder candidates", "error", err)
		return
	}

	for i := range candidates {
		booking := &candidates[i]
		event := models.BookingReminderEvent{
			BookingID: booking.BookingID,
			UserID:    booking.UserID,
			HotelName: booking.HotelName,
			CheckIn:   booking.CheckIn.Format("2006-01-02"),
			Timestamp: time.Now(),
		}

		if err := j.nats.Publish(models.EventBookingReminder, event); err != nil {
			slog.Error("Failed to publish reminder event",
				"error", err,
				"booking_id", booking.BookingID)
		}
	}

	if len(candidates) > 0 {
		slog.Info("Published check-in reminders", "count", len(candidates))
	}
}
