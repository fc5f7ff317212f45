package internal

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeChatClient records the last call and returns a fixed reply
type fakeChatClient struct {
	lastModel   string
	lastHistory []ChatMessage
	lastMessage string
	reply       string
	err         error
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, model string, history []ChatMessage, message string) (string, error) {
	f.lastModel = model
	f.lastHistory = history
	f.lastMessage = message
	return f.reply, f.err
}

func TestAIChat(t *testing.T) {
	client := &fakeChatClient{reply: "the answer"}
	ai := NewAI(client, "deepseek-chat", time.Minute, false)

	history := []ChatMessage{
		{Role: RoleSystem, Content: "context"},
		{Role: RoleUser, Content: "earlier question"},
		{Role: RoleAssistant, Content: "earlier answer"},
	}

	reply, err := ai.Chat(context.Background(), history, "new question")
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if reply != "the answer" {
		t.Errorf("Chat() = %q", reply)
	}
	if client.lastModel != "deepseek-chat" {
		t.Errorf("model = %q", client.lastModel)
	}
	if len(client.lastHistory) != 3 {
		t.Errorf("history length = %d, expected 3", len(client.lastHistory))
	}
	if client.lastMessage != "new question" {
		t.Errorf("message = %q", client.lastMessage)
	}
}

func TestAIComplete(t *testing.T) {
	client := &fakeChatClient{reply: "notes"}
	ai := NewAI(client, "deepseek-chat", time.Minute, false)

	reply, err := ai.Complete(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if reply != "notes" {
		t.Errorf("Complete() = %q", reply)
	}
	if len(client.lastHistory) != 0 {
		t.Errorf("Complete() should not send history, got %d messages", len(client.lastHistory))
	}
}

func TestAIChatPropagatesError(t *testing.T) {
	client := &fakeChatClient{err: errors.New("api down")}
	ai := NewAI(client, "deepseek-chat", time.Minute, false)

	if _, err := ai.Chat(context.Background(), nil, "hello"); err == nil {
		t.Error("Chat() expected error when client fails")
	}
}

func TestAIMissingAPIKey(t *testing.T) {
	ai := NewAIWithKey("", "https://api.deepseek.com/v1", "deepseek-chat", time.Minute, false)

	if _, err := ai.Chat(context.Background(), nil, "hello"); err == nil {
		t.Error("Chat() expected error when API key is missing")
	}
}
