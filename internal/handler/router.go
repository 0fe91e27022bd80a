package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/skillforge/academy-backend/internal/config"
	chatbotHandler "github.com/skillforge/academy-backend/internal/handler/chatbot"
	registrationHandler "github.com/skillforge/academy-backend/internal/handler/registration"
	"github.com/skillforge/academy-backend/internal/service/chatbot"
	"github.com/skillforge/academy-backend/internal/service/staging"
	"github.com/skillforge/academy-backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg *config.Config, n registrationHandler.Notifier, store *staging.Store, chatSvc *chatbot.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":      "ok",
			"environment": cfg.Server.Environment,
			"port":        cfg.Server.Port,
		})
	})

	registration := registrationHandler.New(n, store, cfg.Upload.MaxBytes)
	chat := chatbotHandler.New(chatSvc)
	chatWS := chatbotHandler.NewWebSocketHandler(chatSvc)

	r.Route("/api", func(api chi.Router) {
		registration.RegisterRoutes(api)
		chat.RegisterRoutes(api)
		chatWS.RegisterWebSocketRoutes(api)
	})

	return r
}
