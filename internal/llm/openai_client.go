package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const ProviderOpenAI = "openai"

// OpenAIClient talks to any OpenAI compatible chat completions endpoint.
// The default base URL points at Groq.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewOpenAIClient(opts Options, logger *zap.Logger) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      logger.Named("llm.openai"),
	}, nil
}

func (c *OpenAIClient) Provider() string { return ProviderOpenAI }
func (c *OpenAIClient) Model() string    { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt) (content string, err error) {
	start := time.Now()
	defer func() { observe(ProviderOpenAI, c.model, start, err) }()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.User,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("chat completion failed", zap.String("model", c.model), zap.Error(err))
		return "", c.upstreamError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &UpstreamError{Provider: ProviderOpenAI, StatusCode: http.StatusOK}
	}

	c.logger.Debug("chat completion received",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) upstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Provider: ProviderOpenAI, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := reqErr.Error()
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &UpstreamError{Provider: ProviderOpenAI, StatusCode: reqErr.HTTPStatusCode, Body: body, Err: err}
	}
	return &UpstreamError{Provider: ProviderOpenAI, Body: err.Error(), Err: err}
}
