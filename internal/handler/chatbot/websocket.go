package chatbot

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/skillforge/academy-backend/internal/model/chatbot"
	chatbotservice "github.com/skillforge/academy-backend/internal/service/chatbot"
)

// WebSocketHandler streams widget exchanges over one connection so the
// typing indicator and the delayed assistant reply arrive as events.
type WebSocketHandler struct {
	chatSvc  *chatbotservice.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the widget websocket handler.
func NewWebSocketHandler(chatSvc *chatbotservice.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the widget channel.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws/{conversationID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TextMessage is the payload of an inbound "text" envelope.
type TextMessage struct {
	Content string `json:"content"`
}

type outgoingMessage struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversationId,omitempty"`
	Data           interface{} `json:"data,omitempty"`
	Timestamp      int64       `json:"timestamp"`
}

// wsConn serializes writes; the delayed reply callback runs off the read
// loop goroutine.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) writePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		http.Error(w, "conversationID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.chatSvc.Transcript(r.Context(), conversationID); err != nil {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	conn := &wsConn{conn: raw}
	defer raw.Close()

	log.Printf("[websocket] new connection for conversation: %s", conversationID)

	done := make(chan struct{})
	defer close(done)

	raw.SetReadDeadline(time.Now().Add(60 * time.Second))
	raw.SetPongHandler(func(string) error {
		raw.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(done, conn)

	h.sendEvent(conn, conversationID, "connected", map[string]any{
		"conversation": conversationID,
	})

	for {
		var msg inboundMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		raw.SetReadDeadline(time.Now().Add(60 * time.Second))
		h.handleMessage(conn, conversationID, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(conn *wsConn, conversationID string, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		h.handleTextMessage(conn, conversationID, msg.Data)
	case "clear":
		h.handleClearMessage(conn, conversationID)
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *WebSocketHandler) handleTextMessage(conn *wsConn, conversationID string, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(conn, "invalid text payload")
		return
	}

	userMsg, err := h.chatSvc.Ask(context.Background(), conversationID, text.Content, func(reply chatbot.Message) {
		h.sendEvent(conn, conversationID, "assistant", reply)
	})
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.sendEvent(conn, conversationID, "user", userMsg)
	h.sendEvent(conn, conversationID, "typing", map[string]bool{"typing": true})
}

func (h *WebSocketHandler) handleClearMessage(conn *wsConn, conversationID string) {
	if err := h.chatSvc.Clear(context.Background(), conversationID); err != nil {
		h.sendError(conn, err.Error())
		return
	}
	h.sendEvent(conn, conversationID, "cleared", nil)
}

func (h *WebSocketHandler) sendEvent(conn *wsConn, conversationID, event string, data interface{}) {
	msg := outgoingMessage{
		Type:           event,
		ConversationID: conversationID,
		Data:           data,
		Timestamp:      time.Now().Unix(),
	}
	if err := conn.writeJSON(msg); err != nil {
		log.Printf("[websocket] write %s failed: %v", event, err)
	}
}

func (h *WebSocketHandler) sendError(conn *wsConn, message string) {
	msg := outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	}
	if err := conn.writeJSON(msg); err != nil {
		log.Printf("[websocket] write error failed: %v", err)
	}
}

func (h *WebSocketHandler) pingLoop(done <-chan struct{}, conn *wsConn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.writePing(); err != nil {
				return
			}
		}
	}
}
