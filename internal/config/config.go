package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Provider ProviderConfig
	Billing  BillingConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Country string
}

type BillingConfig struct {
	// DefaultBalance seeds lazily provisioned accounts.
	DefaultBalance int64
	// LowBalanceThreshold drives the advisory flag on balance reads.
	LowBalanceThreshold int64
	// CancelCooldown is the server-authoritative wait before a rented
	// number may be cancelled for a refund.
	CancelCooldown time.Duration
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	OpsEmail   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Provider: ProviderConfig{
			BaseURL: getEnv("SMS_PROVIDER_BASE_URL", "https://api.grizzlysms.com/stubs/handler_api.php"),
			APIKey:  getEnv("SMS_PROVIDER_API_KEY", ""),
			Country: getEnv("SMS_PROVIDER_COUNTRY", "22"),
		},
		Billing: BillingConfig{
			DefaultBalance:      getEnvAsInt64("DEFAULT_BALANCE", 0),
			LowBalanceThreshold: getEnvAsInt64("LOW_BALANCE_THRESHOLD", 10),
			CancelCooldown:      getEnvAsDuration("CANCEL_COOLDOWN", 2*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "SMS Rental"),
			OpsEmail:   getEnv("OPS_ALERT_EMAIL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
