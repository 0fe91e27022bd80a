package chatbot

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/academy-backend/internal/analysis/faq"
	"github.com/skillforge/academy-backend/internal/model/chatbot"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message content is required")
)

// pendingReply is the single slot holding a scheduled assistant response.
// A new exchange or a clear replaces the slot, so a stale reply can never
// land after the user has moved on.
type pendingReply struct {
	timer *time.Timer
}

// Service holds in-memory widget conversations and schedules assistant
// replies behind a cosmetic typing delay.
type Service struct {
	mu            sync.RWMutex
	matcher       *faq.Matcher
	conversations map[string]chatbot.Conversation
	messages      map[string][]chatbot.Message
	pending       map[string]*pendingReply

	// delay produces the typing pause before an assistant reply. Replaced
	// in tests to keep them fast.
	delay func() time.Duration
}

// NewService bootstraps the in-memory chat service.
func NewService(matcher *faq.Matcher) *Service {
	return &Service{
		matcher:       matcher,
		conversations: make(map[string]chatbot.Conversation),
		messages:      make(map[string][]chatbot.Message),
		pending:       make(map[string]*pendingReply),
		delay: func() time.Duration {
			return 400*time.Millisecond + time.Duration(rand.Intn(800))*time.Millisecond
		},
	}
}

// SetDelay overrides the typing delay generator.
func (s *Service) SetDelay(delay func() time.Duration) {
	s.mu.Lock()
	s.delay = delay
	s.mu.Unlock()
}

// CreateConversation provisions an anonymous widget session.
func (s *Service) CreateConversation(_ context.Context) (chatbot.Conversation, error) {
	conversation := chatbot.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.conversations[conversation.ID] = conversation
	s.messages[conversation.ID] = make([]chatbot.Message, 0, 16)
	s.mu.Unlock()

	return conversation, nil
}

// Ask appends the user message immediately and schedules the assistant reply
// after the typing delay. Any previously pending reply for the conversation
// is cancelled first. onReply, when non-nil, fires once the reply is
// appended; it never fires for a cancelled reply.
func (s *Service) Ask(_ context.Context, conversationID, content string, onReply func(chatbot.Message)) (chatbot.Message, error) {
	if content == "" {
		return chatbot.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if _, ok := s.conversations[conversationID]; !ok {
		s.mu.Unlock()
		return chatbot.Message{}, ErrConversationNotFound
	}

	s.cancelPendingLocked(conversationID)

	userMsg := chatbot.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         chatbot.SenderUser,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], userMsg)

	reply := s.matcher.Reply(content)
	slot := &pendingReply{}
	slot.timer = time.AfterFunc(s.delay(), func() {
		s.deliverReply(conversationID, slot, reply, onReply)
	})
	s.pending[conversationID] = slot
	s.mu.Unlock()

	return userMsg, nil
}

func (s *Service) deliverReply(conversationID string, slot *pendingReply, reply string, onReply func(chatbot.Message)) {
	s.mu.Lock()
	if s.pending[conversationID] != slot {
		// Superseded or cancelled while the timer was running.
		s.mu.Unlock()
		return
	}
	delete(s.pending, conversationID)

	if _, ok := s.conversations[conversationID]; !ok {
		s.mu.Unlock()
		return
	}

	assistantMsg := chatbot.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         chatbot.SenderAssistant,
		Content:        reply,
		CreatedAt:      time.Now().UTC(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], assistantMsg)
	s.mu.Unlock()

	if onReply != nil {
		onReply(assistantMsg)
	}
}

// Transcript returns a copy of the stored messages for the conversation.
func (s *Service) Transcript(_ context.Context, conversationID string) ([]chatbot.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}

	copied := make([]chatbot.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// Clear wipes the transcript and cancels any pending reply, keeping the
// conversation usable.
func (s *Service) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return ErrConversationNotFound
	}

	s.cancelPendingLocked(conversationID)
	s.messages[conversationID] = s.messages[conversationID][:0]
	return nil
}

// End removes the conversation entirely.
func (s *Service) End(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return ErrConversationNotFound
	}

	s.cancelPendingLocked(conversationID)
	delete(s.conversations, conversationID)
	delete(s.messages, conversationID)
	return nil
}

func (s *Service) cancelPendingLocked(conversationID string) {
	if slot, ok := s.pending[conversationID]; ok {
		slot.timer.Stop()
		delete(s.pending, conversationID)
	}
}
