package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gostay/internal/database"
	apperrors "gostay/internal/errors"
	"gostay/internal/models"
)

// BonusRepository owns the append-only bonus ledger. Every balance mutation
// it performs writes the matching ledger row in the same transaction.
type BonusRepository struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) *BonusRepository {
	return &BonusRepository{db: db}
}

// CreditEarned credits cashback for a completed stay: sets the booking's
// bonus_earned, increments the user's balance and appends the earn ledger
// row atomically. The bonus_earned = 0 guard makes a concurrent or repeated
// credit a no-op; (credited, nil) reports whether this call did the write.
func (r *BonusRepository) CreditEarned(ctx context.Context, userID int64, bookingID string, amount int64, description string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	markBooking := `
		UPDATE bookings
		SET bonus_earned = $1, updated_at = NOW()
		WHERE booking_id = $2 AND bonus_earned = 0`

	res, err := tx.ExecContext(ctx, markBooking, amount, bookingID)
	if err != nil {
		return false, fmt.Errorf("mark booking credited: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark booking credited: %w", err)
	}
	if affected == 0 {
		// already credited elsewhere
		return false, nil
	}

	increment := `
		UPDATE users
		SET bonus_balance = bonus_balance + $1, updated_at = NOW()
		WHERE id = $2`

	res, err = tx.ExecContext(ctx, increment, amount, userID)
	if err != nil {
		return false, fmt.Errorf("increment balance: %w", err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment balance: %w", err)
	}
	if affected == 0 {
		return false, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}

	insertLedger := `
		INSERT INTO bonus_transactions (user_id, amount, type, booking_id, description)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.ExecContext(ctx, insertLedger, userID, amount, models.BonusTypeEarn, bookingID, description)
	if err != nil {
		return false, fmt.Errorf("insert ledger row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// Adjust applies a manual balance delta (admin path). The guard keeps the
// balance non-negative; the ledger row lands in the same transaction.
func (r *BonusRepository) Adjust(ctx context.Context, userID, delta int64, description string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	update := `
		UPDATE users
		SET bonus_balance = bonus_balance + $1, updated_at = NOW()
		WHERE id = $2 AND bonus_balance + $1 >= 0`

	res, err := tx.ExecContext(ctx, update, delta, userID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if affected == 0 {
		var balance int64
		err := tx.QueryRowContext(ctx, `SELECT bonus_balance FROM users WHERE id = $1`, userID).Scan(&balance)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read balance: %w", err)
		}
		return &apperrors.InsufficientBalanceError{Requested: -delta, Balance: balance}
	}

	txType := models.BonusTypeEarn
	if delta < 0 {
		txType = models.BonusTypeSpend
	}

	insertLedger := `
		INSERT INTO bonus_transactions (user_id, amount, type, description)
		VALUES ($1, $2, $3, $4)`

	_, err = tx.ExecContext(ctx, insertLedger, userID, delta, txType, description)
	if err != nil {
		return fmt.Errorf("insert ledger row: %w", err)
	}

	return tx.Commit()
}

func (r *BonusRepository) ListByUser(ctx context.Context, userID int64) ([]models.BonusTransaction, error) {
	query := `
		SELECT id, user_id, amount, type, booking_id, description, created_at
		FROM bonus_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.BonusTransaction
	for rows.Next() {
		var t models.BonusTransaction
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Amount,
			&t.Type,
			&t.BookingID,
			&t.Description,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// SumByUser returns the ledger total; it must always equal the user's
// current bonus_balance.
func (r *BonusRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM bonus_transactions WHERE user_id = $1`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&total)
	return total, err
}
