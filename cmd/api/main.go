package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skillforge/academy-backend/internal/analysis/faq"
	"github.com/skillforge/academy-backend/internal/config"
	"github.com/skillforge/academy-backend/internal/handler"
	"github.com/skillforge/academy-backend/internal/service/chatbot"
	"github.com/skillforge/academy-backend/internal/service/notifier"
	"github.com/skillforge/academy-backend/internal/service/staging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := staging.NewStore(cfg.Upload)
	if err != nil {
		log.Fatalf("failed to prepare staging area: %v", err)
	}
	go store.Run(ctx)

	notifierSvc := notifier.NewService(cfg.Mail, notifier.NewSMTPTransport(cfg.Mail))
	chatSvc := chatbot.NewService(faq.NewMatcher(faq.Seed()))

	router := handler.NewRouter(cfg, notifierSvc, store, chatSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Academy backend listening on %s (%s)", serverCfg.Addr, serverCfg.Environment)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
