package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// ChatMessage is one turn of a conversation with the chat completion service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// historyLimit caps how much conversation is forwarded per request.
const historyLimit = 20

// ChatService calls an OpenAI-compatible chat completions endpoint.
type ChatService struct {
	client *resty.Client
	model  string
}

// NewChatService builds a chat client from configuration. A missing API key
// is allowed; calls then fail with [shared.ErrChatUnavailable].
func NewChatService(cfg shared.ChatConfig) *ChatService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(60 * time.Second)

	return &ChatService{client: client, model: model}
}

func (c *ChatService) Name() string {
	return "Chat"
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the system prompt plus the most recent turns of history and
// returns the assistant's reply.
func (c *ChatService) Complete(ctx context.Context, systemPrompt string, history []ChatMessage) (string, error) {
	if c.client.Token == "" {
		return "", fmt.Errorf("%w: no API key configured", shared.ErrChatUnavailable)
	}

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := append([]ChatMessage{{Role: "system", Content: systemPrompt}}, history...)

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{Model: c.model, Messages: messages, MaxTokens: 2000, Temperature: 0.7}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrChatUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: status %d", shared.ErrChatUnavailable, resp.StatusCode())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", shared.ErrChatUnavailable)
	}

	return result.Choices[0].Message.Content, nil
}
