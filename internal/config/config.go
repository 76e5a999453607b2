package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Firebase only accepts session cookie lifetimes in this window.
const (
	minSessionTTL = 5 * time.Minute
	maxSessionTTL = 14 * 24 * time.Hour
)

type Config struct {
	Env  string
	Port int

	// identity + document store (one GCP project for both)
	ProjectID       string
	CredentialsFile string

	// firestore (default) or memory for local hacking
	StoreDriver string

	SessionTTL     time.Duration
	SessionMemoTTL time.Duration

	AllowedOrigins []string

	// optional redis in front of the document store
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UserCacheTTL  time.Duration

	// banking partner handshake
	BankPartnerURL    string
	BankProvider      string
	BankStateSecret   string
	BankWebhookSecret string
	BankStateTTL      time.Duration

	// empty endpoint disables tracing
	OTLPEndpoint string
}

func Load() (Config, error) {
	// .env is a dev convenience, absence is fine
	_ = godotenv.Load()

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		ProjectID:       getEnv("GOOGLE_PROJECT_ID", ""),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		StoreDriver: getEnv("STORE_DRIVER", "firestore"),

		SessionTTL:     getEnvDuration("SESSION_TTL", 5*24*time.Hour),
		SessionMemoTTL: getEnvDuration("SESSION_MEMO_TTL", time.Minute),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", nil),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		UserCacheTTL:  getEnvDuration("USER_CACHE_TTL", 5*time.Minute),

		BankPartnerURL:    getEnv("BANK_PARTNER_URL", "https://link.nordpay.example/onboard"),
		BankProvider:      getEnv("BANK_PROVIDER", "nordpay"),
		BankStateSecret:   getEnv("BANK_STATE_SECRET", ""),
		BankWebhookSecret: getEnv("BANK_WEBHOOK_SECRET", ""),
		BankStateTTL:      getEnvDuration("BANK_STATE_TTL", 15*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.Env == "dev" {
		// throwaway secrets so a bare `go run` works locally
		if cfg.BankStateSecret == "" {
			cfg.BankStateSecret = "dev-state-secret-not-for-prod"
		}
		if cfg.BankWebhookSecret == "" {
			cfg.BankWebhookSecret = "dev-webhook-secret-not-for-prod"
		}
		// no project means no firestore to talk to
		if cfg.ProjectID == "" && cfg.StoreDriver == "firestore" {
			cfg.StoreDriver = "memory"
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Env != "dev" && c.Env != "prod" {
		return fmt.Errorf("APP_ENV must be dev or prod, got %q", c.Env)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}

	if c.SessionTTL < minSessionTTL || c.SessionTTL > maxSessionTTL {
		return fmt.Errorf("SESSION_TTL must be between %s and %s, got %s", minSessionTTL, maxSessionTTL, c.SessionTTL)
	}

	if c.StoreDriver != "firestore" && c.StoreDriver != "memory" {
		return fmt.Errorf("STORE_DRIVER must be firestore or memory, got %q", c.StoreDriver)
	}

	if c.Env == "prod" {
		if c.ProjectID == "" {
			return errors.New("GOOGLE_PROJECT_ID is required in prod")
		}
		if c.StoreDriver != "firestore" {
			return errors.New("STORE_DRIVER must be firestore in prod")
		}
		if c.BankStateSecret == "" || c.BankWebhookSecret == "" {
			return errors.New("BANK_STATE_SECRET and BANK_WEBHOOK_SECRET are required in prod")
		}
	}

	return nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
