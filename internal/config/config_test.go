package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/arjunkh87/bizdash/internal/config"
)

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("default port: got %d", cfg.Port)
	}
	if cfg.SessionTTL != 5*24*time.Hour {
		t.Fatalf("default session ttl: got %s", cfg.SessionTTL)
	}
	if cfg.BankStateSecret == "" || cfg.BankWebhookSecret == "" {
		t.Fatal("dev must fall back to throwaway banking secrets")
	}
	if cfg.BankProvider != "nordpay" {
		t.Fatalf("default provider: got %q", cfg.BankProvider)
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("PORT", "9999")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9999 {
		t.Fatalf("got port %d", cfg.Port)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("got session ttl %s", cfg.SessionTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("origins not parsed: %v", cfg.AllowedOrigins)
	}
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("got redis addr %q", cfg.RedisAddr)
	}
}

func TestLoad_RejectsBadEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	if _, err := config.Load(); err == nil {
		t.Fatal("unknown APP_ENV must be rejected")
	}
}

func TestLoad_SessionTTLBounds(t *testing.T) {
	tests := []struct {
		name string
		ttl  string
		ok   bool
	}{
		{name: "below provider minimum", ttl: "1m", ok: false},
		{name: "above provider maximum", ttl: "400h", ok: false},
		{name: "inside the window", ttl: "24h", ok: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "dev")
			t.Setenv("SESSION_TTL", tc.ttl)

			_, err := config.Load()
			if tc.ok && err != nil {
				t.Fatalf("want ok, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("want error, got nil")
			}
		})
	}
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("GOOGLE_PROJECT_ID", "bizdash-prod")

	_, err := config.Load()
	if err == nil || !strings.Contains(err.Error(), "BANK_STATE_SECRET") {
		t.Fatalf("prod without banking secrets must fail, got %v", err)
	}

	t.Setenv("BANK_STATE_SECRET", "s1")
	t.Setenv("BANK_WEBHOOK_SECRET", "s2")

	if _, err := config.Load(); err != nil {
		t.Fatalf("fully configured prod should load: %v", err)
	}
}

func TestLoad_ProdRequiresProject(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("GOOGLE_PROJECT_ID", "")
	t.Setenv("BANK_STATE_SECRET", "s1")
	t.Setenv("BANK_WEBHOOK_SECRET", "s2")

	if _, err := config.Load(); err == nil {
		t.Fatal("prod without a project id must fail")
	}
}

func TestLoad_StoreDriver(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("GOOGLE_PROJECT_ID", "")
	t.Setenv("STORE_DRIVER", "firestore")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StoreDriver != "memory" {
		t.Fatalf("dev without a project must fall back to memory, got %q", cfg.StoreDriver)
	}

	t.Setenv("STORE_DRIVER", "cockroach")
	if _, err := config.Load(); err == nil {
		t.Fatal("unknown STORE_DRIVER must be rejected")
	}

	t.Setenv("APP_ENV", "prod")
	t.Setenv("GOOGLE_PROJECT_ID", "bizdash-prod")
	t.Setenv("BANK_STATE_SECRET", "s1")
	t.Setenv("BANK_WEBHOOK_SECRET", "s2")
	t.Setenv("STORE_DRIVER", "memory")
	if _, err := config.Load(); err == nil {
		t.Fatal("prod must not run on the in-memory store")
	}
}

func TestLoad_GarbageNumbersFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("SESSION_TTL", "soon")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("bad PORT should fall back, got %d", cfg.Port)
	}
	if cfg.SessionTTL != 5*24*time.Hour {
		t.Fatalf("bad SESSION_TTL should fall back, got %s", cfg.SessionTTL)
	}
}
