package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skillforge/academy-backend/internal/analysis/faq"
	"github.com/skillforge/academy-backend/internal/config"
	"github.com/skillforge/academy-backend/internal/model/registration"
	"github.com/skillforge/academy-backend/internal/service/chatbot"
	"github.com/skillforge/academy-backend/internal/service/staging"
)

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, registration.Submission, *registration.Receipt) error {
	return nil
}

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Addr: ":8080", Port: "8080", Environment: "test"},
		Upload: config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1 << 20, TTL: time.Hour},
	}

	store, err := staging.NewStore(cfg.Upload)
	if err != nil {
		t.Fatalf("NewStore err: %v", err)
	}

	chatSvc := chatbot.NewService(faq.NewMatcher(faq.Seed()))
	return NewRouter(cfg, noopNotifier{}, store, chatSvc)
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode health payload: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected status: %s", payload["status"])
	}
	if payload["environment"] != "test" {
		t.Fatalf("unexpected environment: %s", payload["environment"])
	}
	if payload["port"] != "8080" {
		t.Fatalf("unexpected port: %s", payload["port"])
	}
}

func TestSendPaymentWrongMethodIsJSON405(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/send-payment", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected JSON 405 body: %v", err)
	}
	if payload["error"] != "method_not_allowed" {
		t.Fatalf("unexpected error code: %s", payload["error"])
	}
}
