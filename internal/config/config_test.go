package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_RequiresSigningSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Session.Lifetime != 72*time.Hour {
		t.Errorf("session lifetime = %v, want 72h", cfg.Session.Lifetime)
	}
	if cfg.Session.StateTTL != 10*time.Minute {
		t.Errorf("state ttl = %v, want 10m", cfg.Session.StateTTL)
	}
	if cfg.Upload.MaxBytes != 5<<20 {
		t.Errorf("max upload bytes = %d, want %d", cfg.Upload.MaxBytes, 5<<20)
	}
	if cfg.Journal.SweepSchedule != "@daily" {
		t.Errorf("sweep schedule = %q, want @daily", cfg.Journal.SweepSchedule)
	}
	if got := cfg.Address(); got != "0.0.0.0:8080" {
		t.Errorf("address = %q, want 0.0.0.0:8080", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://override/db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Session.Lifetime != time.Hour {
		t.Errorf("session lifetime = %v, want 1h", cfg.Session.Lifetime)
	}
	if cfg.HTTP.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.HTTP.Port)
	}
	if cfg.Database.URL != "postgres://override/db" {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
}

func TestLoad_BuildsPostgresURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "identity")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := "postgres://app:pw@db.internal:5433/identity?sslmode=disable"
	if cfg.Database.URL != want {
		t.Errorf("database url = %q, want %q", cfg.Database.URL, want)
	}
}
