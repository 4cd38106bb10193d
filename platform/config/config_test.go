package config

import (
	"net/http"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/prospectmap")
	t.Setenv("JWT_ACCESS_SECRET", "access")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://app.example.fr")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m access ttl, got %s", cfg.AccessTokenTTL)
	}
	if cfg.ReminderLeadTime != 24*time.Hour {
		t.Fatalf("expected 24h reminder lead time, got %s", cfg.ReminderLeadTime)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://app.example.fr" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.GetLocation().String() != "Europe/Paris" {
		t.Fatalf("expected Europe/Paris, got %s", cfg.GetLocation())
	}
	if cfg.GetPhoneRegion() != "FR" {
		t.Fatalf("expected FR region, got %s", cfg.GetPhoneRegion())
	}
	if cfg.EmailEnabled {
		t.Fatal("expected email disabled without SMTP_HOST")
	}
	if cfg.IsSearchEnabled() {
		t.Fatal("expected search disabled without webhook url")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for wildcard origin with credentials")
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestParseSameSite(t *testing.T) {
	if parseSameSite("Strict") != http.SameSiteStrictMode {
		t.Fatal("expected strict")
	}
	if parseSameSite(" none ") != http.SameSiteNoneMode {
		t.Fatal("expected none")
	}
	if parseSameSite("whatever") != http.SameSiteLaxMode {
		t.Fatal("expected lax fallback")
	}
}
