package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	configViper := NewViper()
	configViper.Set("auth.signing_secret", "test-secret")

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddress != "0.0.0.0:8080" {
		t.Fatalf("unexpected http address: %q", cfg.HTTPAddress)
	}
	if cfg.TokenTTL != 30*24*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.TokenTTL)
	}
	if !cfg.AnalyticsPublic {
		t.Fatalf("analytics should be public by default")
	}
}

func TestLoadRequiresSigningSecret(t *testing.T) {
	if _, err := Load(NewViper()); err == nil {
		t.Fatalf("expected error when signing secret is missing")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "zero-ttl", key: "auth.token_ttl_minutes", value: 0},
		{name: "bcrypt-cost-out-of-range", key: "auth.bcrypt_cost", value: 99},
		{name: "empty-database-path", key: "database.path", value: ""},
		{name: "empty-cookie-name", key: "auth.cookie_name", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configViper := NewViper()
			configViper.Set("auth.signing_secret", "test-secret")
			configViper.Set(tt.key, tt.value)
			if _, err := Load(configViper); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}
