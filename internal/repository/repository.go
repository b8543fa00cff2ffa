package repository

import (
	"gostay/internal/database"
)

type Repositories struct {
	Users    *UserRepository
	Bookings *BookingRepository
	Bonus    *BonusRepository
	Reviews  *ReviewRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Bookings: NewBookingRepository(db),
		Bonus:    NewBonusRepository(db),
		Reviews:  NewReviewRepository(db),
	}
}
