package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "gostay/internal/errors"
	"gostay/internal/external"
	"gostay/internal/models"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. It keeps
// users, bookings and the bonus ledger together so the multi-write operations
// can be checked for all-or-nothing behavior.
type fakeStore struct {
	users    map[int64]*models.User
	bookings map[string]*models.Booking
	ledger   []models.BonusTransaction

	failLedger bool            // abort the spend transaction at the ledger write
	failCredit map[string]bool // abort CreditEarned for these booking ids
	nextID     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int64]*models.User),
		bookings:   make(map[string]*models.Booking),
		failCredit: make(map[string]bool),
	}
}

func (f *fakeStore) addUser(id int64, balance int64) *models.User {
	u := &models.User{
		ID:           id,
		Name:         fmt.Sprintf("user-%d", id),
		Email:        fmt.Sprintf("user%d@example.com", id),
		Role:         models.RoleUser,
		BonusBalance: balance,
	}
	f.users[id] = u
	return u
}

func (f *fakeStore) ledgerSum(userID int64) int64 {
	var sum int64
	for _, tx := range f.ledger {
		if tx.UserID == userID {
			sum += tx.Amount
		}
	}
	return sum
}

func (f *fakeStore) Create(_ context.Context, booking *models.Booking) error {
	if _, ok := f.bookings[booking.BookingID]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	f.nextID++
	booking.ID = f.nextID
	cp := *booking
	f.bookings[booking.BookingID] = &cp
	return nil
}

func (f *fakeStore) CreateWithBonusSpend(_ context.Context, booking *models.Booking, description string) error {
	if _, ok := f.bookings[booking.BookingID]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	if booking.UserID == nil {
		return errors.New("bonus spend requires a user")
	}
	user, ok := f.users[*booking.UserID]
	if !ok {
		return fmt.Errorf("user %d: %w", *booking.UserID, apperrors.ErrNotFound)
	}
	if user.BonusBalance < booking.BonusSpent {
		return &apperrors.InsufficientBalanceError{Requested: booking.BonusSpent, Balance: user.BonusBalance}
	}
	if f.failLedger {
		return errors.New("ledger insert failed, transaction rolled back")
	}

	f.nextID++
	booking.ID = f.nextID
	cp := *booking
	f.bookings[booking.BookingID] = &cp
	user.BonusBalance -= booking.BonusSpent
	id := booking.BookingID
	f.ledger = append(f.ledger, models.BonusTransaction{
		UserID:      user.ID,
		Amount:      -booking.BonusSpent,
		Type:        models.BonusTypeSpend,
		BookingID:   &id,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (f *fakeStore) GetByBookingID(_ context.Context, bookingID string) (*models.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) GetByUserID(_ context.Context, userID int64) ([]models.Booking, error) {
	var result []models.Booking
	for _, b := range f.bookings {
		if b.UserID != nil && *b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (f *fakeStore) List(_ context.Context, _, _ int) ([]models.Booking, error) {
	var result []models.Booking
	for _, b := range f.bookings {
		result = append(result, *b)
	}
	return result, nil
}

func (f *fakeStore) SetPaymentInitiated(_ context.Context, bookingID, paymentID string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", bookingID, apperrors.ErrNotFound)
	}
	status := models.PaymentStatusPending
	b.PaymentID = &paymentID
	b.PaymentStatus = &status
	return nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, bookingID, status string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", bookingID, apperrors.ErrNotFound)
	}
	b.Status = status
	return nil
}

func (f *fakeStore) ApplyPaymentStatusByBookingID(_ context.Context, bookingID, paymentStatus, status string) (int64, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return 0, nil
	}
	b.PaymentStatus = &paymentStatus
	b.Status = status
	return 1, nil
}

func (f *fakeStore) ApplyPaymentStatusByPaymentID(_ context.Context, paymentID, paymentStatus, status string) (int64, error) {
	var affected int64
	for _, b := range f.bookings {
		if b.PaymentID != nil && *b.PaymentID == paymentID {
			b.PaymentStatus = &paymentStatus
			b.Status = status
			affected++
		}
	}
	return affected, nil
}

func (f *fakeStore) TotalConfirmedSpend(_ context.Context, userID int64) (int64, error) {
	var total int64
	for _, b := range f.bookings {
		if b.UserID != nil && *b.UserID == userID && b.Status == models.BookingStatusConfirmed {
			total += b.FinalPrice
		}
	}
	return total, nil
}

func (f *fakeStore) GetAccrualEligible(_ context.Context, userID int64) ([]models.Booking, error) {
	today := time.Now().Truncate(24 * time.Hour)
	var result []models.Booking
	for _, b := range f.bookings {
		if b.UserID != nil && *b.UserID == userID &&
			b.Status == models.BookingStatusConfirmed &&
			b.BonusEarned == 0 &&
			b.CheckOut.Before(today) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (f *fakeStore) GetAccrualCandidateUsers(_ context.Context) ([]int64, error) {
	seen := make(map[int64]bool)
	var result []int64
	for _, b := range f.bookings {
		if b.UserID == nil || seen[*b.UserID] {
			continue
		}
		if b.Status == models.BookingStatusConfirmed && b.BonusEarned == 0 {
			seen[*b.UserID] = true
			result = append(result, *b.UserID)
		}
	}
	return result, nil
}

func (f *fakeStore) CreditEarned(_ context.Context, userID int64, bookingID string, amount int64, description string) (bool, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return false, fmt.Errorf("booking %s: %w", bookingID, apperrors.ErrNotFound)
	}
	if b.BonusEarned != 0 {
		return false, nil
	}
	if f.failCredit[bookingID] {
		return false, errors.New("credit transaction rolled back")
	}
	user, ok := f.users[userID]
	if !ok {
		return false, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}

	b.BonusEarned = amount
	user.BonusBalance += amount
	id := bookingID
	f.ledger = append(f.ledger, models.BonusTransaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.BonusTypeEarn,
		BookingID:   &id,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return true, nil
}

func (f *fakeStore) Adjust(_ context.Context, userID, delta int64, description string) error {
	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	if user.BonusBalance+delta < 0 {
		return &apperrors.InsufficientBalanceError{Requested: -delta, Balance: user.BonusBalance}
	}

	user.BonusBalance += delta
	txType := models.BonusTypeEarn
	if delta < 0 {
		txType = models.BonusTypeSpend
	}
	f.ledger = append(f.ledger, models.BonusTransaction{
		UserID:      userID,
		Amount:      delta,
		Type:        txType,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID int64) ([]models.BonusTransaction, error) {
	var result []models.BonusTransaction
	for i := len(f.ledger) - 1; i >= 0; i-- {
		if f.ledger[i].UserID == userID {
			result = append(result, f.ledger[i])
		}
	}
	return result, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

// fakePublisher records published subjects and can be forced to fail
type fakePublisher struct {
	subjects []string
	err      error
}

func (p *fakePublisher) Publish(subject string, _ interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	return nil
}

// fakeGateway returns canned payment registrations
type fakeGateway struct {
	lastBookingID string
	err           error
}

func (g *fakeGateway) CreatePayment(amount int64, bookingID, _ string) (*external.PaymentCreateResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.lastBookingID = bookingID
	return &external.PaymentCreateResponse{
		Success:         true,
		PaymentID:       "pay-" + bookingID,
		Status:          models.PaymentStatusPending,
		Amount:          amount,
		ConfirmationURL: "https://gateway.example/confirm/" + bookingID,
	}, nil
}
