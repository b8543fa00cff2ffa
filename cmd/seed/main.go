package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gostay/internal/config"
	"gostay/internal/database"
	"gostay/internal/models"
	"gostay/internal/repository"
	"gostay/internal/search"
	"gostay/internal/service"
)

var (
	dryRun     = flag.Bool("dry-run", false, "Show what would be seeded without making changes")
	skipHotels = flag.Bool("skip-hotels", false, "Do not touch the hotel index")
	skipUsers  = flag.Bool("skip-users", false, "Do not create demo users")
)

func main() {
	flag.Parse()

	slog.Info("Starting seeder...")

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if !*skipUsers {
		if err := seedUsers(ctx, db); err != nil {
			slog.Error("Failed to seed users", "error", err)
			os.Exit(1)
		}
	}

	if !*skipHotels {
		if err := seedHotels(ctx); err != nil {
			slog.Error("Failed to seed hotels", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Seeding completed")
}

func seedUsers(ctx context.Context, db *database.DB) error {
	repos := repository.NewRepositories(db)

	demo := []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"Администратор", "admin@gostay.example", "admin12345", models.RoleAdmin},
		{"Иван Петров", "ivan@gostay.example", "demo12345", models.RoleUser},
		{"Мария Смирнова", "maria@gostay.example", "demo12345", models.RoleUser},
	}

	for _, d := range demo {
		existing, err := repos.Users.GetByEmail(ctx, d.email)
		if err != nil {
			return fmt.Errorf("check user %s: %w", d.email, err)
		}
		if existing != nil {
			slog.Info("User already exists, skipping", "email", d.email)
			continue
		}

		if *dryRun {
			slog.Info("Would create user", "email", d.email, "role", d.role)
			continue
		}

		hash := service.HashPassword(d.password)
		user := &models.User{
			Name:         d.name,
			Email:        d.email,
			PasswordHash: &hash,
			Role:         d.role,
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", d.email, err)
		}
		slog.Info("Created user", "email", d.email, "role", d.role)
	}

	return nil
}

func seedHotels(ctx context.Context) error {
	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		return fmt.Errorf("connect to Elasticsearch: %w", err)
	}

	hotels := []models.Hotel{
		{
			ID:            "grand-hotel-moscow",
			Name:          "Гранд Отель Москва",
			Slug:          "grand-hotel-moscow",
			City:          "Москва",
			Description:   "Пятизвездочный отель в центре города с видом на Кремль",
			Stars:         5,
			PricePerNight: 12000,
			Amenities:     []string{"wifi", "spa", "pool", "parking"},
		},
		{
			ID:            "neva-river-spb",
			Name:          "Нева Ривер",
			Slug:          "neva-river-spb",
			City:          "Санкт-Петербург",
			Description:   "Бутик-отель на набережной Невы в пяти минутах от Эрмитажа",
			Stars:         4,
			PricePerNight: 7500,
			Amenities:     []string{"wifi", "breakfast", "bar"},
		},
		{
			ID:            "altai-eco-lodge",
			Name:          "Алтай Эко Лодж",
			Slug:          "altai-eco-lodge",
			City:          "Горно-Алтайск",
			Description:   "Эко-отель в горах с баней и видом на долину Катуни",
			Stars:         3,
			PricePerNight: 4200,
			Amenities:     []string{"sauna", "parking", "pets"},
		},
		{
			ID:            "sochi-marina",
			Name:          "Сочи Марина",
			Slug:          "sochi-marina",
			City:          "Сочи",
			Description:   "Курортный отель первой линии с собственным пляжем",
			Stars:         4,
			PricePerNight: 9800,
			Amenities:     []string{"wifi", "beach", "pool", "breakfast"},
		},
		{
			ID:            "kazan-riviera",
			Name:          "Казань Ривьера",
			Slug:          "kazan-riviera",
			City:          "Казань",
			Description:   "Отель рядом с аквапарком и стадионом, семейные номера",
			Stars:         4,
			PricePerNight: 5600,
			Amenities:     []string{"wifi", "aquapark", "parking"},
		},
	}

	for i := range hotels {
		hotel := &hotels[i]
		if *dryRun {
			slog.Info("Would index hotel", "slug", hotel.Slug)
			continue
		}
		if err := esClient.IndexHotel(ctx, hotel); err != nil {
			return fmt.Errorf("index hotel %s: %w", hotel.Slug, err)
		}
		slog.Info("Indexed hotel", "slug", hotel.Slug, "city", hotel.City)
	}

	return nil
}
