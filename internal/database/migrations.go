package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createBookingsTable,
		createBonusTransactionsTable,
		createReviewsTable,
		createBookingsCheckoutIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64),
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    bonus_balance BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('user', 'admin')),
    CHECK (bonus_balance >= 0)
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    booking_id VARCHAR(20) UNIQUE NOT NULL,
    user_id INTEGER REFERENCES users(id),
    hotel_name VARCHAR(500) NOT NULL,
    hotel_slug VARCHAR(255) NOT NULL,
    room_name VARCHAR(255) NOT NULL,
    check_in DATE NOT NULL,
    check_out DATE NOT NULL,
    nights INTEGER NOT NULL,
    guests INTEGER NOT NULL,
    price_per_night BIGINT NOT NULL,
    total_price BIGINT NOT NULL,
    discount BIGINT NOT NULL DEFAULT 0,
    final_price BIGINT NOT NULL,
    bonus_spent BIGINT NOT NULL DEFAULT 0,
    bonus_earned BIGINT NOT NULL DEFAULT 0,
    payment_method VARCHAR(10) NOT NULL DEFAULT 'card',
    payment_id VARCHAR(255),
    payment_status VARCHAR(20),
    status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
    notifications_sent TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (payment_method IN ('card', 'sbp', 'cash')),
    CHECK (payment_status IN ('pending', 'succeeded', 'canceled')),
    CHECK (status IN ('confirmed', 'cancelled', 'payment_failed'))
);`

const createBonusTransactionsTable = `
CREATE TABLE IF NOT EXISTS bonus_transactions (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    amount BIGINT NOT NULL,
    type VARCHAR(10) NOT NULL,
    booking_id VARCHAR(20),
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (type IN ('earn', 'spend'))
);`

const createReviewsTable = `
CREATE TABLE IF NOT EXISTS reviews (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    hotel_slug VARCHAR(255) NOT NULL,
    rating INTEGER NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE (user_id, hotel_slug),
    CHECK (rating BETWEEN 1 AND 5)
);`

const createBookingsCheckoutIndex = `
CREATE INDEX IF NOT EXISTS bookings_accrual_idx
ON bookings (user_id, check_out)
WHERE status = 'confirmed' AND bonus_earned = 0;`
