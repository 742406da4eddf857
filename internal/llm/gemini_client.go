package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const ProviderGemini = "gemini"

type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewGeminiClient(ctx context.Context, opts Options, logger *zap.Logger) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      logger.Named("llm.gemini"),
	}, nil
}

func (c *GeminiClient) Provider() string { return ProviderGemini }
func (c *GeminiClient) Model() string    { return c.model }

func (c *GeminiClient) Complete(ctx context.Context, prompt Prompt) (text string, err error) {
	start := time.Now()
	defer func() { observe(ProviderGemini, c.model, start, err) }()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), config)
	if err != nil {
		c.logger.Error("generate content failed", zap.String("model", c.model), zap.Error(err))
		return "", upstreamFromGenAI(err)
	}

	text = resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Provider: ProviderGemini, StatusCode: http.StatusOK}
	}
	return text, nil
}

func upstreamFromGenAI(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Provider: ProviderGemini, StatusCode: apiErr.Code, Body: apiErr.Message, Err: err}
	}
	return &UpstreamError{Provider: ProviderGemini, Body: err.Error(), Err: err}
}
