package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gostay/internal/config"
	"gostay/internal/consumers"
	"gostay/internal/database"
	"gostay/internal/jobs"
	"gostay/internal/logger"
	"gostay/internal/loyalty"
	"gostay/internal/messaging"
	"gostay/internal/repository"
	"gostay/internal/service"
)

func main() {
	cfg := config.Load()
	cfg.NATS.ClientID = "gostay-worker"

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	log.Info("Starting worker...")

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	// Отдельные подключения для фоновых задач
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}
	defer natsClient.Close()

	repos := repository.NewRepositories(db)
	engine := loyalty.NewEngine(loyalty.DefaultTiers())
	loyaltyService := service.NewLoyaltyService(repos.Bookings, repos.Bonus, repos.Users, engine, natsClient)

	ctx, cancel := context.WithCancel(context.Background())

	accrualJob := jobs.NewBonusAccrualJob(loyaltyService, cfg.AccrualInterval)
	reminderJob := jobs.NewCheckinReminderJob(repos.Bookings, natsClient, cfg.ReminderInterval)

	go accrualJob.Run(ctx)
	go reminderJob.Run(ctx)

	log.Info("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", "error", err)
	}

	log.Info("Worker stopped")
}
