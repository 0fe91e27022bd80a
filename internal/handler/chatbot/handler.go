package chatbot

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatbotservice "github.com/skillforge/academy-backend/internal/service/chatbot"
	"github.com/skillforge/academy-backend/pkg/utils"
)

// Handler exposes the chat widget conversation API.
type Handler struct {
	chatSvc *chatbotservice.Service
}

// New creates the chat widget handler.
func New(chatSvc *chatbotservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the widget conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/session", h.handleCreateConversation)
	r.Route("/chat/{conversationID}", func(r chi.Router) {
		r.Get("/messages", h.handleTranscript)
		r.Post("/messages", h.handleAsk)
		r.Delete("/", h.handleEnd)
	})
}

func (h *Handler) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.chatSvc.CreateConversation(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, conversation)
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userMsg, err := h.chatSvc.Ask(r.Context(), conversationID, payload.Content, nil)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":  "queued",
		"message": userMsg,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.chatSvc.Transcript(r.Context(), conversationID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := h.chatSvc.End(r.Context(), conversationID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatbotservice.ErrConversationNotFound):
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, chatbotservice.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "content is required")
	default:
		utils.RespondError(w, http.StatusInternalServerError, "internal_error")
	}
}
