package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	apperrors "gostay/internal/errors"
	"gostay/internal/loyalty"
	"gostay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(store *fakeStore, pub *fakePublisher, gw *fakeGateway) *BookingService {
	if pub == nil {
		pub = &fakePublisher{}
	}
	if gw == nil {
		gw = &fakeGateway{}
	}
	return NewBookingService(store, store, loyalty.NewEngine(loyalty.DefaultTiers()), gw, pub)
}

func validRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		HotelName:     "Гранд Отель Москва",
		HotelSlug:     "grand-hotel-moscow",
		RoomName:      "Стандартный номер",
		CheckIn:       "2026-10-01",
		CheckOut:      "2026-10-05",
		Guests:        2,
		PricePerNight: 2500,
		TotalPrice:    10000,
	}
}

func TestCreateBookingWithBonusSpend(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 5000)
	svc := newBookingService(store, nil, nil)
	userID := int64(1)

	req := validRequest()
	req.BonusSpent = 2000

	resp, err := svc.Create(context.Background(), &userID, req)
	require.NoError(t, err)
	assert.Equal(t, "created", resp.Message)
	assert.Equal(t, int64(8000), resp.FinalPrice)

	booking := store.bookings[resp.BookingID]
	require.NotNil(t, booking)
	assert.Equal(t, int64(2000), booking.BonusSpent)
	assert.Equal(t, int64(8000), booking.FinalPrice)
	assert.Equal(t, 4, booking.Nights)

	assert.Equal(t, int64(3000), store.users[1].BonusBalance)
	require.Len(t, store.ledger, 1)
	assert.Equal(t, int64(-2000), store.ledger[0].Amount)
	assert.Equal(t, models.BonusTypeSpend, store.ledger[0].Type)
}

func TestCreateBookingBonusCeiling(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 20000)
	svc := newBookingService(store, nil, nil)
	userID := int64(1)

	req := validRequest()
	req.BonusSpent = 8000

	_, err := svc.Create(context.Background(), &userID, req)
	var limitErr *apperrors.BonusLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, int64(5000), limitErr.Max)
	assert.Equal(t, int64(8000), limitErr.Requested)

	assert.Empty(t, store.bookings)
	assert.Equal(t, int64(20000), store.users[1].BonusBalance)
	assert.Empty(t, store.ledger)
}

func TestCreateBookingInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 100)
	svc := newBookingService(store, nil, nil)
	userID := int64(1)

	req := validRequest()
	req.BonusSpent = 3000

	_, err := svc.Create(context.Background(), &userID, req)
	var balanceErr *apperrors.InsufficientBalanceError
	require.ErrorAs(t, err, &balanceErr)
	assert.Equal(t, int64(100), balanceErr.Balance)

	assert.Empty(t, store.bookings)
	assert.Equal(t, int64(100), store.users[1].BonusBalance)
}

func TestCreateBookingDuplicateID(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 5000)
	svc := newBookingService(store, nil, nil)
	userID := int64(1)

	req := validRequest()
	req.BookingID = "GOS-AAAA1111"
	req.BonusSpent = 2000

	first, err := svc.Create(context.Background(), &userID, req)
	require.NoError(t, err)
	assert.Equal(t, "created", first.Message)

	second, err := svc.Create(context.Background(), &userID, req)
	require.NoError(t, err)
	assert.Equal(t, "already saved", second.Message)
	assert.Equal(t, first.FinalPrice, second.FinalPrice)

	assert.Len(t, store.bookings, 1)
	assert.Equal(t, int64(3000), store.users[1].BonusBalance)
	assert.Len(t, store.ledger, 1)
}

func TestCreateBookingGeneratesID(t *testing.T) {
	store := newFakeStore()
	svc := newBookingService(store, nil, nil)

	resp, err := svc.Create(context.Background(), nil, validRequest())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^GOS-[0-9A-F]{8}$`), resp.BookingID)
}

func TestCreateBookingValidation(t *testing.T) {
	store := newFakeStore()
	svc := newBookingService(store, nil, nil)

	cases := []struct {
		name   string
		mutate func(*models.CreateBookingRequest)
	}{
		{"bad check_in", func(r *models.CreateBookingRequest) { r.CheckIn = "01.10.2026" }},
		{"bad check_out", func(r *models.CreateBookingRequest) { r.CheckOut = "not-a-date" }},
		{"check_out before check_in", func(r *models.CreateBookingRequest) { r.CheckIn, r.CheckOut = r.CheckOut, r.CheckIn }},
		{"same day", func(r *models.CreateBookingRequest) { r.CheckOut = r.CheckIn }},
		{"unknown payment method", func(r *models.CreateBookingRequest) { r.PaymentMethod = "crypto" }},
		{"negative discount", func(r *models.CreateBookingRequest) { r.Discount = -100 }},
		{"discount eats the price", func(r *models.CreateBookingRequest) { r.Discount = 10000 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			_, err := svc.Create(context.Background(), nil, req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Empty(t, store.bookings)
		})
	}
}

func TestCreateBookingGuestCannotSpendBonus(t *testing.T) {
	store := newFakeStore()
	svc := newBookingService(store, nil, nil)

	req := validRequest()
	req.BonusSpent = 1000

	_, err := svc.Create(context.Background(), nil, req)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Empty(t, store.bookings)
}

func TestCreateBookingAtomicityUnderFailure(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 5000)
	store.failLedger = true
	svc := newBookingService(store, nil, nil)
	userID := int64(1)

	req := validRequest()
	req.BonusSpent = 2000

	_, err := svc.Create(context.Background(), &userID, req)
	require.Error(t, err)

	assert.Empty(t, store.bookings)
	assert.Equal(t, int64(5000), store.users[1].BonusBalance)
	assert.Empty(t, store.ledger)
}

func TestCreateBookingPublishFailureSwallowed(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("nats is down")}
	svc := newBookingService(store, pub, nil)

	resp, err := svc.Create(context.Background(), nil, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "created", resp.Message)
	assert.Len(t, store.bookings, 1)
}

func TestCreateBookingPublishesEvents(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 5000)
	pub := &fakePublisher{}
	svc := newBookingService(store, pub, nil)
	userID := int64(1)

	req := validRequest()
	req.BonusSpent = 1000

	_, err := svc.Create(context.Background(), &userID, req)
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventBookingCreated, models.EventBonusSpent}, pub.subjects)
}

func TestInitiatePayment(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	gw := &fakeGateway{}
	svc := newBookingService(store, nil, gw)
	userID := int64(1)

	created, err := svc.Create(context.Background(), &userID, validRequest())
	require.NoError(t, err)

	resp, err := svc.InitiatePayment(context.Background(), created.BookingID, &userID, false)
	require.NoError(t, err)
	assert.Equal(t, "pay-"+created.BookingID, resp.PaymentID)
	assert.NotEmpty(t, resp.ConfirmationURL)
	assert.Equal(t, created.BookingID, gw.lastBookingID)

	booking := store.bookings[created.BookingID]
	require.NotNil(t, booking.PaymentID)
	assert.Equal(t, resp.PaymentID, *booking.PaymentID)
	require.NotNil(t, booking.PaymentStatus)
	assert.Equal(t, models.PaymentStatusPending, *booking.PaymentStatus)
}

func TestInitiatePaymentNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newBookingService(store, nil, nil)

	_, err := svc.InitiatePayment(context.Background(), "GOS-MISSING1", nil, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInitiatePaymentForbiddenForOtherUser(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	svc := newBookingService(store, nil, nil)
	owner := int64(1)
	stranger := int64(2)

	created, err := svc.Create(context.Background(), &owner, validRequest())
	require.NoError(t, err)

	_, err = svc.InitiatePayment(context.Background(), created.BookingID, &stranger, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.InitiatePayment(context.Background(), created.BookingID, &stranger, true)
	assert.NoError(t, err)
}

func TestGetBookingOwnership(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, 0)
	svc := newBookingService(store, nil, nil)
	owner := int64(1)
	stranger := int64(2)

	created, err := svc.Create(context.Background(), &owner, validRequest())
	require.NoError(t, err)

	item, err := svc.Get(context.Background(), created.BookingID, &owner, false)
	require.NoError(t, err)
	assert.Equal(t, created.BookingID, item.BookingID)
	assert.Equal(t, "2026-10-01", item.CheckIn)

	_, err = svc.Get(context.Background(), created.BookingID, &stranger, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
