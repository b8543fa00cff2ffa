package service

import (
	"gostay/internal/cache"
	"gostay/internal/external"
	"gostay/internal/loyalty"
	"gostay/internal/messaging"
	"gostay/internal/repository"
	"gostay/internal/search"
)

type Services struct {
	Users    *UserService
	Bookings *BookingService
	Loyalty  *LoyaltyService
	Payments *PaymentService
	Reviews  *ReviewService
	Hotels   *HotelService
}

func NewServices(repos *repository.Repositories, es *search.ElasticsearchClient, engine *loyalty.Engine, paymentClient *external.PaymentClient, valkeyClient *cache.ValkeyClient, natsClient *messaging.NATSClient) *Services {
	var auth authCache
	if valkeyClient != nil {
		auth = valkeyClient
	}

	return &Services{
		Users:    NewUserService(repos.Users, auth),
		Bookings: NewBookingService(repos.Bookings, repos.Users, engine, paymentClient, natsClient),
		Loyalty:  NewLoyaltyService(repos.Bookings, repos.Bonus, repos.Users, engine, natsClient),
		Payments: NewPaymentService(repos.Bookings, natsClient),
		Reviews:  NewReviewService(repos.Reviews),
		Hotels:   NewHotelService(es),
	}
}
