package consumers

import (
	"context"
	"log/slog"

	"gostay/internal/config"
	"gostay/internal/database"
	"gostay/internal/external"
	"gostay/internal/messaging"
	"gostay/internal/models"
	"gostay/internal/repository"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	mailer := external.NewMailerClient(cfg.Mailer)
	handlers := NewHandlers(repos, mailer)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	subjects := map[string]func(*Handlers) natsHandler{
		models.EventBookingCreated:  func(h *Handlers) natsHandler { return h.HandleBookingCreated },
		models.EventPaymentApplied:  func(h *Handlers) natsHandler { return h.HandlePaymentApplied },
		models.EventBookingReminder: func(h *Handlers) natsHandler { return h.HandleBookingReminder },
		models.EventBonusAccrued:    func(h *Handlers) natsHandler { return h.HandleBonusAccrued },
	}

	for subject, pick := range subjects {
		if _, err := cs.nats.SubscribeQueue(subject, "workers", pick(cs.handlers)); err != nil {
			return err
		}
		slog.Info("Subscribed to subject", "subject", subject)
	}

	return nil
}

func (cs *ConsumerService) Shutdown(_ context.Context) error {
	slog.Info("Shutting down consumers...")

	if err := cs.nats.Close(); err != nil {
		slog.Error("Error closing NATS connection", "error", err)
	}
	return cs.db.Close()
}
