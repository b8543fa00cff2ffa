package api

import (
	"fmt"

	"gostay/internal/cache"
	"gostay/internal/config"
	"gostay/internal/database"
	"gostay/internal/external"
	"gostay/internal/handlers"
	"gostay/internal/logger"
	"gostay/internal/loyalty"
	"gostay/internal/messaging"
	"gostay/internal/metrics"
	"gostay/internal/middleware"
	"gostay/internal/repository"
	"gostay/internal/search"
	"gostay/internal/service"

	"github.com/gin-gonic/gin"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	es       *search.ElasticsearchClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	// Кеш не критичен, при недоступности авторизация идет через БД
	valkeyClient, err := cache.NewValkeyClient(cache.Config{
		Addr:         cfg.Valkey.Addr,
		Password:     cfg.Valkey.Password,
		UsersHashKey: cfg.Valkey.UsersHashKey,
	})
	if err != nil {
		logger.Get().Warn("Valkey is unavailable, auth falls back to database", "error", err)
		valkeyClient = nil
	}

	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		logger.Fatal("Failed to connect to Elasticsearch", "error", err)
	}

	paymentClient := external.NewPaymentClient(cfg.Payment)

	repos := repository.NewRepositories(db)
	engine := loyalty.NewEngine(loyalty.DefaultTiers())
	services := service.NewServices(repos, esClient, engine, paymentClient, valkeyClient, natsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		es:       esClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey, s.db, s.es)

	api := s.router.Group("/api")
	{
		// Публичные роуты
		api.POST("/auth/register", h.Register)

		hotels := api.Group("/hotels")
		{
			hotels.GET("", h.SearchHotels)
			hotels.GET("/:slug", h.GetHotel)
			hotels.GET("/:slug/reviews", h.ListHotelReviews)
		}

		// Вебхук шлюза аутентифицируется содержимым, не пользователем
		api.POST("/payments/webhook", h.PaymentWebhook)

		// Бронирование доступно и гостям
		bookings := api.Group("/bookings")
		bookings.Use(middleware.OptionalBasicAuth(s.repos.Users, s.valkey))
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("/:bookingId", h.GetBooking)
			bookings.POST("/:bookingId/pay", h.InitiatePayment)
		}

		// Роуты, требующие авторизации
		authed := api.Group("")
		authed.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
		{
			authed.GET("/auth/me", h.Me)
			authed.GET("/bookings", h.ListMyBookings)
			authed.POST("/reviews", h.CreateReview)
			authed.GET("/loyalty", h.GetLoyalty)
			authed.GET("/loyalty/transactions", h.GetBonusTransactions)
		}

		// Админка
		admin := api.Group("/admin")
		admin.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
		admin.Use(middleware.RequireAdmin(s.repos.Users))
		{
			admin.GET("/bookings", h.ListAllBookings)
			admin.PATCH("/bookings/:bookingId/status", h.UpdateBookingStatus)
			admin.POST("/users/:userId/bonus", h.AdjustBonus)
		}
	}

	s.router.GET("/health", h.Health)
	s.router.GET("/metrics", metrics.Handler())
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
