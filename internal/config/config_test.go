package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MATCH_HOLDING_SCOPE", "MATCH_ISSUER_MATCH", "SEARCH_HISTORY_LIMIT", "BONDREF_PROVIDER", "RESET_CODE_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.HoldingScope != "all" {
		t.Errorf("expected holding scope all, got %s", cfg.HoldingScope)
	}
	if cfg.IssuerMatch != "exact" {
		t.Errorf("expected issuer match exact, got %s", cfg.IssuerMatch)
	}
	if cfg.SearchHistoryLimit != 20 {
		t.Errorf("expected history limit 20, got %d", cfg.SearchHistoryLimit)
	}
	if cfg.BondRefProvider != "static" {
		t.Errorf("expected static provider, got %s", cfg.BondRefProvider)
	}
	if cfg.ResetCodeTTL != 15*time.Minute {
		t.Errorf("expected reset TTL 15m, got %s", cfg.ResetCodeTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MATCH_HOLDING_SCOPE", "CURRENT")
	t.Setenv("MATCH_ISSUER_MATCH", "fuzzy")
	t.Setenv("SEARCH_HISTORY_LIMIT", "50")
	t.Setenv("BONDREF_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HoldingScope != "current" {
		t.Errorf("expected holding scope current, got %s", cfg.HoldingScope)
	}
	if cfg.IssuerMatch != "fuzzy" {
		t.Errorf("expected issuer match fuzzy, got %s", cfg.IssuerMatch)
	}
	if cfg.SearchHistoryLimit != 50 {
		t.Errorf("expected history limit 50, got %d", cfg.SearchHistoryLimit)
	}
	if cfg.BondRefTimeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", cfg.BondRefTimeout)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MATCH_HOLDING_SCOPE", "sometimes")
	t.Setenv("MATCH_ISSUER_MATCH", "regex")
	t.Setenv("SEARCH_HISTORY_LIMIT", "-3")
	t.Setenv("JWT_EXPIRES_IN", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HoldingScope != "all" {
		t.Errorf("expected fallback to all, got %s", cfg.HoldingScope)
	}
	if cfg.IssuerMatch != "exact" {
		t.Errorf("expected fallback to exact, got %s", cfg.IssuerMatch)
	}
	if cfg.SearchHistoryLimit != 20 {
		t.Errorf("expected fallback to 20, got %d", cfg.SearchHistoryLimit)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected fallback to 24h, got %s", cfg.JWTExpirationDur)
	}
}
