// Package llm wraps the external completion API.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"study-rag/internal/config"
	"study-rag/internal/models"
)

// Completer issues one completion call per interaction. No retry or
// backoff beyond what the underlying client provides.
type Completer interface {
	Complete(ctx context.Context, system, user string, history []models.ConversationTurn) (string, error)
}

// Client calls an OpenAI-compatible completion endpoint through
// langchaingo.
type Client struct {
	llm         *openai.LLM
	temperature float64
	maxTokens   int
}

// New builds the completion client from config.
func New(cfg *config.LLMConfig) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llmClient, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init completion client: %w", err)
	}
	return &Client{
		llm:         llmClient,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends the system prompt, prior turns and the user message,
// returning the first choice's text.
func (c *Client) Complete(ctx context.Context, system, user string, history []models.ConversationTurn) (string, error) {
	messages := make([]llms.MessageContent, 0, 2+2*len(history))
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	for _, turn := range history {
		messages = append(messages,
			llms.TextParts(llms.ChatMessageTypeHuman, turn.Question),
			llms.TextParts(llms.ChatMessageTypeAI, turn.Answer),
		)
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, user))

	log.Debug().Int("messages", len(messages)).Msg("calling completion API")
	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion: empty response")
	}
	return resp.Choices[0].Content, nil
}
