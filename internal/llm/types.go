package llm

import (
	"context"
	"time"
)

// Prompt is the system and user text sent to the provider. It is built once
// per request and not modified afterwards.
type Prompt struct {
	System string
	User   string
}

// Client performs a single completion call. Implementations do not retry.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	Provider() string
	Model() string
}

// Options configures a provider client.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}
