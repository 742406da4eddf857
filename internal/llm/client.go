package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewClient builds the client for provider. It returns ErrMissingAPIKey
// without touching the network when opts carries no key.
func NewClient(ctx context.Context, provider string, opts Options, logger *zap.Logger) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		c, err := NewOpenAIClient(opts, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, opts, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
