package config

import (
	"strings"
	"testing"
	"time"
)

func validProduction() *Config {
	return &Config{
		Environment:          EnvProduction,
		LogLevel:             "info",
		SessionAuthKey:       strings.Repeat("k", 32),
		SessionEncryptionKey: strings.Repeat("e", 16),
		CORSAllowedOrigins:   "https://desk.example.com",
		StockServiceURL:      "https://stock.internal",
		StockServiceTimeout:  5 * time.Second,
		ConfirmationTimeout:  30 * time.Minute,
	}
}

func TestValidateForProduction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"short auth key", func(c *Config) { c.SessionAuthKey = "short" }, "SESSION_AUTH_KEY"},
		{"short encryption key", func(c *Config) { c.SessionEncryptionKey = "short" }, "SESSION_ENCRYPTION_KEY"},
		{"debug logging", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
		{"wildcard cors", func(c *Config) { c.CORSAllowedOrigins = "*" }, "CORS_ALLOWED_ORIGINS"},
		{"missing stock service", func(c *Config) { c.StockServiceURL = " " }, "STOCK_SERVICE_URL"},
		{"zero stock timeout", func(c *Config) { c.StockServiceTimeout = 0 }, "STOCK_SERVICE_TIMEOUT"},
		{"zero confirmation timeout", func(c *Config) { c.ConfirmationTimeout = 0 }, "CONFIRMATION_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProduction()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateForProduction_SkipsOtherEnvironments(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, LogLevel: "debug"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("development config should not be validated: %v", err)
	}
}

func TestValidateForProduction_ReportsAll(t *testing.T) {
	cfg := validProduction()
	cfg.SessionAuthKey = ""
	cfg.ConfirmationTimeout = 0
	err := ValidateForProduction(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"SESSION_AUTH_KEY", "CONFIRMATION_TIMEOUT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %s in %v", want, err)
		}
	}
}

func TestString_HidesSecrets(t *testing.T) {
	cfg := validProduction()
	cfg.DatabaseURL = "postgres://u:hunter2@db/exportdesk"
	out := cfg.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, cfg.SessionAuthKey) {
		t.Fatalf("secrets leaked: %s", out)
	}
	if !strings.Contains(out, "https://stock.internal") {
		t.Fatalf("expected stock url in %s", out)
	}
}
