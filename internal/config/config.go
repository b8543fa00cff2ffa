package config

import (
	"os"
	"strconv"
	"time"

	"gostay/internal/database"
	"gostay/internal/external"
	"gostay/internal/messaging"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database database.Config
	NATS     messaging.Config
	Valkey   ValkeyConfig
	Payment  external.PaymentConfig
	Mailer   external.MailerConfig

	AccrualInterval  time.Duration
	ReminderInterval time.Duration
}

// ValkeyConfig содержит настройки кеша авторизации
type ValkeyConfig struct {
	Addr         string
	Password     string
	UsersHashKey string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// .env не обязателен, при его отсутствии работаем с окружением
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "gostay"),
			Password:           getEnv("DB_PASSWORD", "gostay123"),
			DBName:             getEnv("DB_NAME", "gostay"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "gostay"),
			ClientID:  getEnv("NATS_CLIENT_ID", "gostay-api"),
		},

		Valkey: ValkeyConfig{
			Addr:         getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:     os.Getenv("VALKEY_PASSWORD"),
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:auth"),
		},

		Payment: external.PaymentConfig{
			BaseURL:   getEnv("PAYMENT_GATEWAY_URL", "https://api.gateway.example/v3"),
			ShopID:    getEnv("PAYMENT_SHOP_ID", ""),
			SecretKey: getEnv("PAYMENT_SECRET_KEY", ""),
			ReturnURL: getEnv("PAYMENT_RETURN_URL", "https://gostay.example/bookings"),
			Timeout:   time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
		},

		Mailer: external.MailerConfig{
			PublicKey:  getEnv("MAILJET_API_KEY", ""),
			PrivateKey: getEnv("MAILJET_SECRET_KEY", ""),
			FromEmail:  getEnv("MAIL_FROM_EMAIL", "booking@gostay.example"),
			FromName:   getEnv("MAIL_FROM_NAME", "GoStay"),
		},

		AccrualInterval:  time.Duration(getEnvInt("ACCRUAL_INTERVAL_MIN", 60)) * time.Minute,
		ReminderInterval: time.Duration(getEnvInt("REMINDER_INTERVAL_MIN", 30)) * time.Minute,
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
