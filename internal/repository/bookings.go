package repository

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "gostay/internal/errors"

	"gostay/internal/database"
	"gostay/internal/models"
)

const bookingColumns = `id, booking_id, user_id, hotel_name, hotel_slug, room_name,
	       check_in, check_out, nights, guests, price_per_night, total_price,
	       discount, final_price, bonus_spent, bonus_earned, payment_method,
	       payment_id, payment_status, status, notifications_sent, created_at, updated_at`

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner, b *models.Booking) error {
	return row.Scan(
		&b.ID,
		&b.BookingID,
		&b.UserID,
		&b.HotelName,
		&b.HotelSlug,
		&b.RoomName,
		&b.CheckIn,
		&b.CheckOut,
		&b.Nights,
		&b.Guests,
		&b.PricePerNight,
		&b.TotalPrice,
		&b.Discount,
		&b.FinalPrice,
		&b.BonusSpent,
		&b.BonusEarned,
		&b.PaymentMethod,
		&b.PaymentID,
		&b.PaymentStatus,
		&b.Status,
		&b.NotificationsSent,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (booking_id, user_id, hotel_name, hotel_slug, room_name,
		                      check_in, check_out, nights, guests, price_per_night,
		                      total_price, discount, final_price, bonus_spent,
		                      payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		booking.BookingID,
		booking.UserID,
		booking.HotelName,
		booking.HotelSlug,
		booking.RoomName,
		booking.CheckIn,
		booking.CheckOut,
		booking.Nights,
		booking.Guests,
		booking.PricePerNight,
		booking.TotalPrice,
		booking.Discount,
		booking.FinalPrice,
		booking.BonusSpent,
		booking.PaymentMethod,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

// CreateWithBonusSpend inserts the booking, decrements the user's bonus
// balance and appends the matching spend ledger row as one transaction.
// The balance check repeats inside the UPDATE guard so that two concurrent
// redemptions cannot both pass against a stale read.
func (r *BookingRepository) CreateWithBonusSpend(ctx context.Context, booking *models.Booking, description string) error {
	if booking.UserID == nil {
		return fmt.Errorf("bonus redemption requires an authenticated user: %w", apperrors.ErrValidation)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	insertBooking := `
		INSERT INTO bookings (booking_id, user_id, hotel_name, hotel_slug, room_name,
		                      check_in, check_out, nights, guests, price_per_night,
		                      total_price, discount, final_price, bonus_spent,
		                      payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, insertBooking,
		booking.BookingID,
		booking.UserID,
		booking.HotelName,
		booking.HotelSlug,
		booking.RoomName,
		booking.CheckIn,
		booking.CheckOut,
		booking.Nights,
		booking.Guests,
		booking.PricePerNight,
		booking.TotalPrice,
		booking.Discount,
		booking.FinalPrice,
		booking.BonusSpent,
		booking.PaymentMethod,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	decrement := `
		UPDATE users
		SET bonus_balance = bonus_balance - $1, updated_at = NOW()
		WHERE id = $2 AND bonus_balance >= $1`

	res, err := tx.ExecContext(ctx, decrement, booking.BonusSpent, *booking.UserID)
	if err != nil {
		return fmt.Errorf("decrement balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement balance: %w", err)
	}
	if affected == 0 {
		var balance int64
		err := tx.QueryRowContext(ctx, `SELECT bonus_balance FROM users WHERE id = $1`, *booking.UserID).Scan(&balance)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %d: %w", *booking.UserID, apperrors.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read balance: %w", err)
		}
		return &apperrors.InsufficientBalanceError{Requested: booking.BonusSpent, Balance: balance}
	}

	insertLedger := `
		INSERT INTO bonus_transactions (user_id, amount, type, booking_id, description)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.ExecContext(ctx, insertLedger,
		*booking.UserID,
		-booking.BonusSpent,
		models.BonusTypeSpend,
		booking.BookingID,
		description,
	)
	if err != nil {
		return fmt.Errorf("insert ledger row: %w", err)
	}

	return tx.Commit()
}

func (r *BookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`

	err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_id = $1`

	err := scanBooking(r.db.QueryRowContext(ctx, query, paymentID), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) List(ctx context.Context, page, pageSize int) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// SetPaymentInitiated records the gateway payment id for a booking and marks
// the payment pending.
func (r *BookingRepository) SetPaymentInitiated(ctx context.Context, bookingID, paymentID string) error {
	query := `
		UPDATE bookings
		SET payment_id = $1, payment_status = $2, updated_at = NOW()
		WHERE booking_id = $3`

	res, err := r.db.ExecContext(ctx, query, paymentID, models.PaymentStatusPending, bookingID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, apperrors.ErrNotFound)
	}
	return nil
}

// ApplyPaymentStatusByBookingID blindly sets both status fields; applying the
// same transition twice leaves the row unchanged.
func (r *BookingRepository) ApplyPaymentStatusByBookingID(ctx context.Context, bookingID, paymentStatus, status string) (int64, error) {
	query := `
		UPDATE bookings
		SET payment_status = $1, status = $2, updated_at = NOW()
		WHERE booking_id = $3`

	res, err := r.db.ExecContext(ctx, query, paymentStatus, status, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BookingRepository) ApplyPaymentStatusByPaymentID(ctx context.Context, paymentID, paymentStatus, status string) (int64, error) {
	query := `
		UPDATE bookings
		SET payment_status = $1, status = $2, updated_at = NOW()
		WHERE payment_id = $3`

	res, err := r.db.ExecContext(ctx, query, paymentStatus, status, paymentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID, status string) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE booking_id = $2`

	res, err := r.db.ExecContext(ctx, query, status, bookingID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("booking %s: %w", bookingID, apperrors.ErrNotFound)
	}
	return nil
}

// TotalConfirmedSpend sums final prices over the user's confirmed bookings
func (r *BookingRepository) TotalConfirmedSpend(ctx context.Context, userID int64) (int64, error) {
	var total int64
	query := `
		SELECT COALESCE(SUM(final_price), 0)
		FROM bookings
		WHERE user_id = $1 AND status = $2`

	err := r.db.QueryRowContext(ctx, query, userID, models.BookingStatusConfirmed).Scan(&total)
	return total, err
}

// GetAccrualEligible returns confirmed, not-yet-credited bookings whose stay
// has completed.
func (r *BookingRepository) GetAccrualEligible(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND status = $2 AND bonus_earned = 0 AND check_out < CURRENT_DATE
		ORDER BY check_out ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, models.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetAccrualCandidateUsers returns the distinct users that currently have at
// least one accrual-eligible booking. Used by the worker job.
func (r *BookingRepository) GetAccrualCandidateUsers(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT user_id
		FROM bookings
		WHERE user_id IS NOT NULL AND status = $1 AND bonus_earned = 0 AND check_out < CURRENT_DATE`

	rows, err := r.db.QueryContext(ctx, query, models.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, rows.Err()
}

// GetReminderCandidates returns confirmed bookings checking in tomorrow that
// have not yet been sent the given notification tag.
func (r *BookingRepository) GetReminderCandidates(ctx context.Context, tag string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1
		  AND check_in = CURRENT_DATE + INTERVAL '1 day'
		  AND position($2 in notifications_sent) = 0`

	rows, err := r.db.QueryContext(ctx, query, models.BookingStatusConfirmed, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// MarkNotificationSent appends a tag to the booking's comma-joined
// notification list so the same reminder is not sent twice.
func (r *BookingRepository) MarkNotificationSent(ctx context.Context, bookingID, tag string) error {
	query := `
		UPDATE bookings
		SET notifications_sent = CASE
		        WHEN notifications_sent = '' THEN $1
		        ELSE notifications_sent || ',' || $1
		    END,
		    updated_at = NOW()
		WHERE booking_id = $2 AND position($1 in notifications_sent) = 0`

	_, err := r.db.ExecContext(ctx, query, tag, bookingID)
	return err
}
