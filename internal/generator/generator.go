package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-testcase-generator/internal/browser"
	"github.com/nbenliogludev/go-testcase-generator/internal/config"
	"github.com/nbenliogludev/go-testcase-generator/internal/extract"
	"github.com/nbenliogludev/go-testcase-generator/internal/llm"
)

var extractionTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "testgen_extraction_total",
		Help: "Model responses by the extraction strategy that recovered them, or failure kind.",
	},
	[]string{"result"},
)

// Request is one user scenario.
type Request struct {
	Description string
	URL         string // optional page the test starts from
}

// Generator relays a scenario to the model and extracts the test case.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	client    llm.Client
	configErr error
	template  *Template
	pages     browser.Snapshotter
	logger    *zap.Logger
}

type Option func(*Generator)

// WithSnapshotter enables page context for requests that carry a URL.
func WithSnapshotter(s browser.Snapshotter) Option {
	return func(g *Generator) { g.pages = s }
}

func New(client llm.Client, tmpl *Template, logger *zap.Logger, opts ...Option) *Generator {
	if tmpl == nil {
		tmpl = DefaultTemplate()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		client:   client,
		template: tmpl,
		logger:   logger.Named("generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromConfig builds the provider client from cfg. A missing credential
// does not fail construction: it is logged once here and reported as a
// ConfigurationError on every Generate call.
func NewFromConfig(ctx context.Context, cfg *config.Config, tmpl *Template, logger *zap.Logger, opts ...Option) *Generator {
	g := New(nil, tmpl, logger, opts...)

	client, err := llm.NewClient(ctx, cfg.LLMProvider, llm.Options{
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.BaseURL(),
		Model:       cfg.Model(),
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}, logger)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		g.configErr = &ConfigurationError{Key: cfg.APIKeyEnv(), Err: err}
		g.logger.Error("LLM credential is missing, generate requests will fail",
			zap.String("env", cfg.APIKeyEnv()),
			zap.String("provider", cfg.LLMProvider),
		)
	case err != nil:
		g.configErr = &ConfigurationError{Err: err}
		g.logger.Error("failed to create LLM client", zap.Error(err))
	default:
		g.client = client
		g.logger.Info("LLM client ready",
			zap.String("provider", client.Provider()),
			zap.String("model", client.Model()),
		)
	}
	return g
}

// Generate validates req, makes exactly one provider call and extracts the
// result. It never retries.
func (g *Generator) Generate(ctx context.Context, req Request) (*extract.Result, error) {
	if g.configErr != nil {
		return nil, g.configErr
	}
	if g.client == nil {
		return nil, &ConfigurationError{Err: errors.New("no LLM client configured")}
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Message: "Description is required"}
	}
	url := strings.TrimSpace(req.URL)
	if url != "" {
		if err := browser.ValidateURL(url); err != nil {
			return nil, &ValidationError{Field: "url", Message: err.Error()}
		}
	}

	prompt := g.template.Build(description, url, g.capturePage(ctx, url))

	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	ex, err := extract.Extract(raw)
	if err != nil {
		g.logFormatError(raw, err)
		return nil, &ResponseFormatError{Raw: raw, Err: err}
	}

	extractionTotal.WithLabelValues(string(ex.Strategy)).Inc()
	g.logger.Info("test case generated",
		zap.String("strategy", string(ex.Strategy)),
		zap.Int("steps", len(ex.Result.Steps)),
		zap.Int("code_length", len(ex.Result.Code)),
	)
	return &ex.Result, nil
}

// capturePage returns nil when page context is off or the snapshot fails;
// the request goes on without it.
func (g *Generator) capturePage(ctx context.Context, url string) *browser.PageSnapshot {
	if url == "" || g.pages == nil {
		return nil
	}
	snap, err := g.pages.Snapshot(ctx, url)
	if err != nil {
		g.logger.Warn("page snapshot failed, continuing without page context",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil
	}
	return snap
}

func (g *Generator) logFormatError(raw string, err error) {
	var schemaErr *extract.SchemaError
	if errors.As(err, &schemaErr) {
		extractionTotal.WithLabelValues("schema_error").Inc()
		g.logger.Error("model response has invalid format",
			zap.Strings("missing", schemaErr.Missing),
			zap.Any("parsed", schemaErr.Parsed),
		)
		return
	}
	extractionTotal.WithLabelValues("parse_error").Inc()
	g.logger.Error("failed to parse model response",
		zap.Error(err),
		zap.String("raw_response", raw),
	)
}
