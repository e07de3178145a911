// Package llm wraps the chat model behind a single synchronous capability:
// prompt in, text out. All routing, planning, and generation calls go
// through this interface so failures can be handled at each call site.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client is the opaque grounded-text-completion service used by every
// rewrite, route, plan, and generation call.
type Client interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to Client. Used by tests.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint
// (DeepSeek, OpenAI, local gateways).
type OpenAIClient struct {
	client openai.Client
	model  string
}

// Options configures the chat client.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAIClient creates a chat client. APIKey is required.
func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("api key required (set %s)", APIKeyEnv)
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if strings.TrimSpace(opts.BaseURL) != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimSpace(opts.BaseURL)))
	}
	return &OpenAIClient{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Default model configuration. The original deployment targets DeepSeek's
// OpenAI-compatible gateway.
const (
	DefaultModel   = "deepseek-chat"
	DefaultBaseURL = "https://api.deepseek.com/v1"
	APIKeyEnv      = "DEEPSEEK_API_KEY"
)

// NewFromEnv creates a chat client from environment variables.
// TUTOR_MODEL: model name override
// TUTOR_MODEL_URL: base URL override
// DEEPSEEK_API_KEY (or OPENAI_API_KEY): credentials
func NewFromEnv() (*OpenAIClient, error) {
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	base := os.Getenv("TUTOR_MODEL_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return NewOpenAIClient(Options{
		APIKey:  key,
		BaseURL: base,
		Model:   os.Getenv("TUTOR_MODEL"),
	})
}

// Invoke sends one blocking chat completion request and returns the text.
func (c *OpenAIClient) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
