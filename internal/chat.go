package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Chat message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// chatTemperature matches the assistant's conversational tuning
const chatTemperature = 0.7

// ChatMessage is a single turn in a conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClientInterface defines the interface for chat completion operations
type ChatClientInterface interface {
	CreateChatCompletion(ctx context.Context, model string, history []ChatMessage, message string) (string, error)
}

// ChatClient wraps the OpenAI-compatible SDK pointed at a configurable base URL
type ChatClient struct {
	client *openai.Client
}

// NewChatClient creates a new chat client for an OpenAI-compatible endpoint
func NewChatClient(apiKey, baseURL string) *ChatClient {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &ChatClient{client: &client}
}

// CreateChatCompletion sends the conversation history plus the new message
// and returns the assistant's reply
func (c *ChatClient) CreateChatCompletion(ctx context.Context, model string, history []ChatMessage, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	for _, msg := range history {
		switch msg.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(chatTemperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from chat API")
	}
	return resp.Choices[0].Message.Content, nil
}

// AI handles chat completions for notes generation and conversation
type AI struct {
	client     ChatClientInterface
	model      string
	timeout    time.Duration
	verbose    bool
	apiKey     string
	baseURL    string
	clientOnce sync.Once
}

// NewAI creates a new AI processor
func NewAI(client ChatClientInterface, model string, timeout time.Duration, verbose bool) *AI {
	return &AI{
		client:  client,
		model:   model,
		timeout: timeout,
		verbose: verbose,
	}
}

// NewAIWithKey creates a new AI processor with lazy client initialization
func NewAIWithKey(apiKey, baseURL, model string, timeout time.Duration, verbose bool) *AI {
	return &AI{
		client:  nil,
		model:   model,
		timeout: timeout,
		verbose: verbose,
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// ensureClient initializes the chat client if needed
func (ai *AI) ensureClient() error {
	if ai.client != nil {
		return nil
	}

	if ai.apiKey == "" {
		return ValidateChatAPIKey("")
	}

	ai.clientOnce.Do(func() {
		ai.client = NewChatClient(ai.apiKey, ai.baseURL)
	})

	return nil
}

// Model returns the configured chat model
func (ai *AI) Model() string {
	return ai.model
}

// Complete sends a single prompt without history and returns the reply
func (ai *AI) Complete(ctx context.Context, prompt string) (string, error) {
	return ai.Chat(ctx, nil, prompt)
}

// Chat sends a message with conversation history and returns the reply
func (ai *AI) Chat(ctx context.Context, history []ChatMessage, message string) (string, error) {
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	content, err := ai.client.CreateChatCompletion(ctx, ai.model, history, message)
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	return content, nil
}
