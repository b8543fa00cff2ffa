package service

import (
	"context"
	"testing"
	"time"

	apperrors "gostay/internal/errors"
	"gostay/internal/loyalty"
	"gostay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoyaltyService(store *fakeStore, pub *fakePublisher) *LoyaltyService {
	if pub == nil {
		pub = &fakePublisher{}
	}
	return NewLoyaltyService(store, store, store, loyalty.NewEngine(loyalty.DefaultTiers()), pub)
}

// addConfirmedBooking inserts a confirmed booking directly into the store
func addConfirmedBooking(store *fakeStore, userID int64, bookingID string, finalPrice, bonusEarned int64, checkOut time.Time) {
	store.nextID++
	store.bookings[bookingID] = &models.Booking{
		ID:          store.nextID,
		BookingID:   bookingID,
		UserID:      &userID,
		HotelName:   "Отель Тест",
		HotelSlug:   "hotel-test",
		RoomName:    "Номер",
		CheckIn:     checkOut.AddDate(0, 0, -3),
		CheckOut:    checkOut,
		Nights:      3,
		Guests:      2,
		TotalPrice:  finalPrice,
		FinalPrice:  finalPrice,
		BonusEarned: bonusEarned,
		Status:      models.BookingStatusConfirmed,
	}
}

func TestRunAccrualCreditsCompletedStay(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	past := time.Now().AddDate(0, 0, -10)

	// Prior spend of 40000 keeps the user on the 5% tier
	addConfirmedBooking(store, 1, "GOS-OLD00001", 40000, 1, past.AddDate(0, -2, 0))
	addConfirmedBooking(store, 1, "GOS-NEW00001", 10000, 0, past)

	svc := newLoyaltyService(store, nil)
	require.NoError(t, svc.RunAccrual(context.Background(), 1))

	assert.Equal(t, int64(500), store.bookings["GOS-NEW00001"].BonusEarned)
	assert.Equal(t, int64(500), store.users[1].BonusBalance)
	require.Len(t, store.ledger, 1)
	assert.Equal(t, int64(500), store.ledger[0].Amount)
	assert.Equal(t, models.BonusTypeEarn, store.ledger[0].Type)
}

func TestRunAccrualIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-NEW00001", 10000, 0, time.Now().AddDate(0, 0, -5))

	svc := newLoyaltyService(store, nil)
	require.NoError(t, svc.RunAccrual(context.Background(), 1))
	require.NoError(t, svc.RunAccrual(context.Background(), 1))

	assert.Equal(t, int64(500), store.users[1].BonusBalance)
	assert.Len(t, store.ledger, 1)
}

func TestRunAccrualUniformTierPerPass(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	past := time.Now().AddDate(0, 0, -5)

	// 40000 prior spend plus two 10000 stays in one pass: both are credited
	// at 5%, the tier is not re-evaluated between them
	addConfirmedBooking(store, 1, "GOS-OLD00001", 40000, 1, past.AddDate(0, -3, 0))
	addConfirmedBooking(store, 1, "GOS-NEW00001", 10000, 0, past)
	addConfirmedBooking(store, 1, "GOS-NEW00002", 10000, 0, past.AddDate(0, 0, 1))

	svc := newLoyaltyService(store, nil)
	require.NoError(t, svc.RunAccrual(context.Background(), 1))

	assert.Equal(t, int64(500), store.bookings["GOS-NEW00001"].BonusEarned)
	assert.Equal(t, int64(500), store.bookings["GOS-NEW00002"].BonusEarned)
	assert.Equal(t, int64(1000), store.users[1].BonusBalance)
}

func TestRunAccrualFailureIsolation(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	past := time.Now().AddDate(0, 0, -5)
	addConfirmedBooking(store, 1, "GOS-FAIL0001", 10000, 0, past)
	addConfirmedBooking(store, 1, "GOS-GOOD0001", 10000, 0, past)
	store.failCredit["GOS-FAIL0001"] = true

	svc := newLoyaltyService(store, nil)
	err := svc.RunAccrual(context.Background(), 1)
	require.Error(t, err)

	assert.Equal(t, int64(0), store.bookings["GOS-FAIL0001"].BonusEarned)
	assert.Equal(t, int64(500), store.bookings["GOS-GOOD0001"].BonusEarned)
	assert.Equal(t, int64(500), store.users[1].BonusBalance)
}

func TestRunAccrualSkipsFutureCheckouts(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-FUTURE01", 10000, 0, time.Now().AddDate(0, 0, 5))

	svc := newLoyaltyService(store, nil)
	require.NoError(t, svc.RunAccrual(context.Background(), 1))

	assert.Equal(t, int64(0), store.users[1].BonusBalance)
	assert.Empty(t, store.ledger)
}

func TestProfile(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 1200)
	addConfirmedBooking(store, 1, "GOS-OLD00001", 60000, 1, time.Now().AddDate(0, -1, 0))

	svc := newLoyaltyService(store, nil)
	resp, err := svc.Profile(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "silver", resp.Tier)
	assert.Equal(t, int64(7), resp.CashbackPercent)
	assert.Equal(t, int64(60000), resp.TotalSpent)
	assert.Equal(t, int64(1200), resp.Balance)
	require.NotNil(t, resp.NextTier)
	assert.Equal(t, "gold", resp.NextTier.Name)
	assert.Equal(t, int64(90000), resp.NextTier.Remaining)
}

func TestProfileTopTierHasNoNext(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-OLD00001", 200000, 1, time.Now().AddDate(0, -1, 0))

	svc := newLoyaltyService(store, nil)
	resp, err := svc.Profile(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "gold", resp.Tier)
	assert.Nil(t, resp.NextTier)
}

func TestProfileAccruesPendingCashback(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	addConfirmedBooking(store, 1, "GOS-NEW00001", 10000, 0, time.Now().AddDate(0, 0, -2))

	svc := newLoyaltyService(store, nil)
	resp, err := svc.Profile(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(500), resp.Balance)
}

func TestProfileUnknownUser(t *testing.T) {
	store := newFakeStore()
	svc := newLoyaltyService(store, nil)

	_, err := svc.Profile(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAdjustBalance(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 1000)
	svc := newLoyaltyService(store, nil)

	require.NoError(t, svc.AdjustBalance(context.Background(), 1, 500, "компенсация за задержку заселения"))
	assert.Equal(t, int64(1500), store.users[1].BonusBalance)

	require.NoError(t, svc.AdjustBalance(context.Background(), 1, -300, "корректировка"))
	assert.Equal(t, int64(1200), store.users[1].BonusBalance)

	err := svc.AdjustBalance(context.Background(), 1, -5000, "списание")
	var balanceErr *apperrors.InsufficientBalanceError
	require.ErrorAs(t, err, &balanceErr)
	assert.Equal(t, int64(1200), store.users[1].BonusBalance)

	err = svc.AdjustBalance(context.Background(), 1, 0, "пусто")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// Ledger conservation: after any mix of spends, earns and adjustments the
// transaction amounts for a user sum to the user's balance.
func TestLedgerConservation(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	userID := int64(1)

	loyaltySvc := newLoyaltyService(store, nil)
	bookingSvc := newBookingService(store, nil, nil)

	require.NoError(t, loyaltySvc.AdjustBalance(context.Background(), 1, 4000, "приветственные бонусы"))

	req := validRequest()
	req.BonusSpent = 1500
	_, err := bookingSvc.Create(context.Background(), &userID, req)
	require.NoError(t, err)

	addConfirmedBooking(store, 1, "GOS-DONE0001", 20000, 0, time.Now().AddDate(0, 0, -7))
	require.NoError(t, loyaltySvc.RunAccrual(context.Background(), 1))

	require.NoError(t, loyaltySvc.AdjustBalance(context.Background(), 1, -500, "корректировка"))

	assert.Equal(t, store.users[1].BonusBalance, store.ledgerSum(1))
	assert.Equal(t, int64(4000-1500+1000-500), store.users[1].BonusBalance)
}

func TestTransactions(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	svc := newLoyaltyService(store, nil)

	require.NoError(t, svc.AdjustBalance(context.Background(), 1, 1000, "приветственные бонусы"))
	require.NoError(t, svc.AdjustBalance(context.Background(), 1, -200, "корректировка"))

	items, err := svc.Transactions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// newest first
	assert.Equal(t, int64(-200), items[0].Amount)
	assert.Equal(t, models.BonusTypeSpend, items[0].Type)
	assert.Equal(t, int64(1000), items[1].Amount)
	assert.Equal(t, models.BonusTypeEarn, items[1].Type)
}
