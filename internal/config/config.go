package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"

	DefaultOpenAIBaseURL = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel   = "llama-3.3-70b-versatile"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`

	// LLM provider
	LLMProvider    string        `envconfig:"LLM_PROVIDER" default:"openai"`
	LLMAPIKey      string        `envconfig:"LLM_API_KEY"`
	GroqAPIKey     string        `envconfig:"GROQ_API_KEY"`
	GeminiAPIKey   string        `envconfig:"GEMINI_API_KEY"`
	LLMBaseURL     string        `envconfig:"LLM_BASE_URL"`
	LLMModel       string        `envconfig:"LLM_MODEL"`
	LLMTemperature float32       `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	LLMTimeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"120s"`

	PromptTemplatePath string `envconfig:"PROMPT_TEMPLATE_PATH"`

	FormatterRemoteURL     string        `envconfig:"FORMATTER_REMOTE_URL"`
	FormatterRemoteTimeout time.Duration `envconfig:"FORMATTER_REMOTE_TIMEOUT" default:"10s"`

	// Page context
	BrowserEnabled   bool          `envconfig:"BROWSER_ENABLED" default:"false"`
	BrowserDriver    string        `envconfig:"BROWSER_DRIVER" default:"playwright"`
	BrowserTimeout   time.Duration `envconfig:"BROWSER_TIMEOUT" default:"30s"`
	BrowserMaxTree   int           `envconfig:"BROWSER_MAX_TREE" default:"20000"`
	BrowserRemoteURL string        `envconfig:"BROWSER_REMOTE_URL"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads the optional dotenv files and then the process environment.
// A missing API key is not an error here: it is reported on every generate call.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.LLMProvider)
	}

	c.BrowserDriver = strings.ToLower(strings.TrimSpace(c.BrowserDriver))
	switch c.BrowserDriver {
	case DriverPlaywright, DriverChromedp:
	default:
		return fmt.Errorf("BROWSER_DRIVER must be %q or %q, got %q", DriverPlaywright, DriverChromedp, c.BrowserDriver)
	}

	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be within [0, 2], got %v", c.LLMTemperature)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	return nil
}

// APIKey returns the provider credential, preferring LLM_API_KEY over the
// provider specific variable.
func (c *Config) APIKey() string {
	if key := strings.TrimSpace(c.LLMAPIKey); key != "" {
		return key
	}
	if c.LLMProvider == ProviderGemini {
		return strings.TrimSpace(c.GeminiAPIKey)
	}
	return strings.TrimSpace(c.GroqAPIKey)
}

// APIKeyEnv names the variable an operator is expected to set.
func (c *Config) APIKeyEnv() string {
	if c.LLMProvider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "GROQ_API_KEY"
}

func (c *Config) Model() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	if c.LLMProvider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// BaseURL is empty for gemini unless overridden, which keeps the SDK default.
func (c *Config) BaseURL() string {
	if c.LLMBaseURL != "" {
		return strings.TrimRight(c.LLMBaseURL, "/")
	}
	if c.LLMProvider == ProviderGemini {
		return ""
	}
	return DefaultOpenAIBaseURL
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
