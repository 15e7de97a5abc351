// Package llm provides the OpenAI-backed language model adapter.
package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"digest_server/core/port/out"
	"digest_server/pkg/apperr"
)

const DefaultModel = "gpt-4o-mini"

// Client wraps the OpenAI chat completion API behind out.LLMClient.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// ClientConfig holds LLM client settings.
type ClientConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewClient creates an OpenAI client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		temperature: float32(temperature),
		timeout:     timeout,
	}
}

// Complete sends a single-turn prompt and returns the raw completion text.
// Transport, auth and rate-limit failures all surface as one ModelError;
// callers degrade and never inspect the subtype.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", apperr.ModelError("chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Ensure Client implements out.LLMClient
var _ out.LLMClient = (*Client)(nil)
