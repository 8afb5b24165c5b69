package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:         "8081",
		Currency:     "COP",
		Country:      "CO",
		SQLiteDBPath: "./data/hogar.db",
		AMQPExchange: "hogar",
		AMQPQueue:    "ledger_sync",
		OCRTimeout:   30 * time.Second,
		SyncInterval: 30 * time.Second,
		DataBackend:  "memory",
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"bad currency", func(c *Config) { c.Currency = "PESOS" }, "invalid currency"},
		{"bad country", func(c *Config) { c.Country = "COL" }, "invalid country"},
		{"bad backend", func(c *Config) { c.DataBackend = "postgres" }, "invalid data backend"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "invalid AMQP URL scheme"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name cannot be empty"},
		{"bad ocr scheme", func(c *Config) { c.OCRBaseURL = "ftp://ocr" }, "invalid OCR base URL scheme"},
		{"ocr timeout too low", func(c *Config) { c.OCRBaseURL = "https://ocr"; c.OCRTimeout = time.Millisecond }, "invalid OCR timeout"},
		{"sync interval too low", func(c *Config) { c.SyncInterval = time.Millisecond }, "invalid sync interval"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("default port: got %s", cfg.Port)
	}
	if cfg.Currency != "COP" || cfg.Country != "CO" {
		t.Fatalf("default household settings: %s %s", cfg.Currency, cfg.Country)
	}
	if cfg.DataBackend != "memory" {
		t.Fatalf("default backend: got %s", cfg.DataBackend)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SYNC_INTERVAL", "2m")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("port override: got %s", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("backend override: got %s", cfg.DataBackend)
	}
	if cfg.SyncInterval != 2*time.Minute {
		t.Fatalf("interval override: got %v", cfg.SyncInterval)
	}
}
