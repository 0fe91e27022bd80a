package chatbot

import "time"

// Sender values for widget messages.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one turn in a widget conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	Typing         bool      `json:"typing,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Conversation captures a transient anonymous widget session.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
