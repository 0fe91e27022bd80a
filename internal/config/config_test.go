package config

import (
	"testing"
	"time"
)

func setMailEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_TO", "admin@example.com")
	t.Setenv("MAIL_USER", "relay@example.com")
	t.Setenv("MAIL_PASS", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setMailEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Server.Environment != "development" {
		t.Fatalf("unexpected environment: %s", cfg.Server.Environment)
	}
	if cfg.Mail.Port != 587 {
		t.Fatalf("unexpected mail port: %d", cfg.Mail.Port)
	}
	if cfg.Mail.Secure {
		t.Fatal("expected MAIL_SECURE to default to false")
	}
	if cfg.Mail.From != "relay@example.com" {
		t.Fatalf("expected MAIL_FROM to fall back to MAIL_USER, got %s", cfg.Mail.From)
	}
	if cfg.Mail.Timeout != 15*time.Second {
		t.Fatalf("unexpected mail timeout: %v", cfg.Mail.Timeout)
	}
	if cfg.Upload.MaxBytes != 10<<20 {
		t.Fatalf("unexpected upload cap: %d", cfg.Upload.MaxBytes)
	}
	if cfg.Upload.TTL != time.Hour {
		t.Fatalf("unexpected upload TTL: %v", cfg.Upload.TTL)
	}
}

func TestLoadRequiresMailHost(t *testing.T) {
	t.Setenv("MAIL_HOST", "")
	t.Setenv("MAIL_TO", "admin@example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing MAIL_HOST")
	}
}

func TestLoadRequiresMailTo(t *testing.T) {
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_TO", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing MAIL_TO")
	}
}

func TestLoadFullListenAddress(t *testing.T) {
	setMailEnv(t)
	t.Setenv("PORT", "127.0.0.1:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
}

func TestLoadNodeEnvFallback(t *testing.T) {
	setMailEnv(t)
	t.Setenv("NODE_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Environment != "production" {
		t.Fatalf("unexpected environment: %s", cfg.Server.Environment)
	}
}

func TestLoadRejectsBadMailPort(t *testing.T) {
	setMailEnv(t)
	t.Setenv("MAIL_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range MAIL_PORT")
	}
}
