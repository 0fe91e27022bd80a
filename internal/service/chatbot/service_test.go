package chatbot

import (
	"context"
	"testing"
	"time"

	"github.com/skillforge/academy-backend/internal/analysis/faq"
	"github.com/skillforge/academy-backend/internal/model/chatbot"
)

func newTestService(delay time.Duration) *Service {
	svc := NewService(faq.NewMatcher(faq.Seed()))
	svc.SetDelay(func() time.Duration { return delay })
	return svc
}

func waitForTranscriptLen(t *testing.T, svc *Service, id string, want int) []chatbot.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		messages, err := svc.Transcript(context.Background(), id)
		if err != nil {
			t.Fatalf("Transcript err: %v", err)
		}
		if len(messages) >= want {
			return messages
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("transcript never reached %d messages", want)
	return nil
}

func TestAskAppendsUserThenAssistant(t *testing.T) {
	svc := newTestService(time.Millisecond)
	ctx := context.Background()

	conversation, err := svc.CreateConversation(ctx)
	if err != nil {
		t.Fatalf("CreateConversation err: %v", err)
	}

	userMsg, err := svc.Ask(ctx, conversation.ID, "hello", nil)
	if err != nil {
		t.Fatalf("Ask err: %v", err)
	}
	if userMsg.Sender != chatbot.SenderUser {
		t.Fatalf("unexpected sender: %s", userMsg.Sender)
	}

	messages := waitForTranscriptLen(t, svc, conversation.ID, 2)
	if messages[0].Sender != chatbot.SenderUser || messages[1].Sender != chatbot.SenderAssistant {
		t.Fatalf("unexpected transcript order: %s then %s", messages[0].Sender, messages[1].Sender)
	}
	if messages[1].Content == faq.Fallback {
		t.Fatal("greeting should not hit the fallback response")
	}
}

func TestAskUnknownConversation(t *testing.T) {
	svc := newTestService(time.Millisecond)

	if _, err := svc.Ask(context.Background(), "missing", "hello", nil); err != ErrConversationNotFound {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestAskRejectsEmptyContent(t *testing.T) {
	svc := newTestService(time.Millisecond)

	if _, err := svc.Ask(context.Background(), "any", "", nil); err != ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestClearCancelsPendingReply(t *testing.T) {
	svc := newTestService(50 * time.Millisecond)
	ctx := context.Background()

	conversation, _ := svc.CreateConversation(ctx)
	if _, err := svc.Ask(ctx, conversation.ID, "hello", nil); err != nil {
		t.Fatalf("Ask err: %v", err)
	}

	if err := svc.Clear(ctx, conversation.ID); err != nil {
		t.Fatalf("Clear err: %v", err)
	}

	time.Sleep(120 * time.Millisecond)
	messages, err := svc.Transcript(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("stale reply appended after clear: %v", messages)
	}
}

func TestNewExchangeSupersedesPendingReply(t *testing.T) {
	svc := newTestService(50 * time.Millisecond)
	ctx := context.Background()

	conversation, _ := svc.CreateConversation(ctx)
	if _, err := svc.Ask(ctx, conversation.ID, "hello", nil); err != nil {
		t.Fatalf("first Ask err: %v", err)
	}
	if _, err := svc.Ask(ctx, conversation.ID, "what courses do you offer?", nil); err != nil {
		t.Fatalf("second Ask err: %v", err)
	}

	messages := waitForTranscriptLen(t, svc, conversation.ID, 3)
	time.Sleep(120 * time.Millisecond)
	messages, _ = svc.Transcript(ctx, conversation.ID)

	assistants := 0
	for _, msg := range messages {
		if msg.Sender == chatbot.SenderAssistant {
			assistants++
		}
	}
	if assistants != 1 {
		t.Fatalf("expected exactly one assistant reply, got %d", assistants)
	}
}

func TestEndCancelsPendingCallback(t *testing.T) {
	svc := newTestService(50 * time.Millisecond)
	ctx := context.Background()

	fired := make(chan chatbot.Message, 1)
	conversation, _ := svc.CreateConversation(ctx)
	if _, err := svc.Ask(ctx, conversation.ID, "hello", func(msg chatbot.Message) {
		fired <- msg
	}); err != nil {
		t.Fatalf("Ask err: %v", err)
	}

	if err := svc.End(ctx, conversation.ID); err != nil {
		t.Fatalf("End err: %v", err)
	}

	select {
	case msg := <-fired:
		t.Fatalf("callback fired after End: %v", msg)
	case <-time.After(120 * time.Millisecond):
	}

	if _, err := svc.Transcript(ctx, conversation.ID); err != ErrConversationNotFound {
		t.Fatalf("expected ErrConversationNotFound after End, got %v", err)
	}
}

func TestOnReplyCallbackFires(t *testing.T) {
	svc := newTestService(time.Millisecond)
	ctx := context.Background()

	fired := make(chan chatbot.Message, 1)
	conversation, _ := svc.CreateConversation(ctx)
	if _, err := svc.Ask(ctx, conversation.ID, "hello", func(msg chatbot.Message) {
		fired <- msg
	}); err != nil {
		t.Fatalf("Ask err: %v", err)
	}

	select {
	case msg := <-fired:
		if msg.Sender != chatbot.SenderAssistant {
			t.Fatalf("unexpected callback sender: %s", msg.Sender)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reply callback never fired")
	}
}
