package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/abhisek/persona/internal/store"
)

// Config selects and configures a provider. An empty Provider disables
// LLM features.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenAIConfig
	Gemini     GeminiConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has every provider's default model and no provider
// selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		OpenRouter: OpenAIConfig{Model: "google/gemini-2.0-flash-001"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv reads PERSONA_* variables. Without PERSONA_LLM_PROVIDER
// the first well-known API key found (GEMINI_API_KEY, OPENAI_API_KEY,
// ANTHROPIC_API_KEY, OPENROUTER_API_KEY) picks the provider.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Provider = os.Getenv("PERSONA_LLM_PROVIDER")

	setIf(&cfg.Anthropic.APIKey, "PERSONA_ANTHROPIC_API_KEY")
	setIf(&cfg.Anthropic.Model, "PERSONA_ANTHROPIC_MODEL")
	setIf(&cfg.OpenAI.APIKey, "PERSONA_OPENAI_API_KEY")
	setIf(&cfg.OpenAI.Model, "PERSONA_OPENAI_MODEL")
	setIf(&cfg.OpenAI.BaseURL, "PERSONA_OPENAI_BASE_URL")
	setIf(&cfg.OpenRouter.APIKey, "PERSONA_OPENROUTER_API_KEY")
	setIf(&cfg.OpenRouter.Model, "PERSONA_OPENROUTER_MODEL")
	setIf(&cfg.Gemini.APIKey, "PERSONA_GEMINI_API_KEY")
	setIf(&cfg.Gemini.Model, "PERSONA_GEMINI_MODEL")

	if cfg.Provider != "" {
		return cfg
	}

	discover := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", "gemini", &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", "openai", &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", "anthropic", &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &cfg.OpenRouter.APIKey},
	}
	for _, d := range discover {
		if k := os.Getenv(d.env); k != "" {
			cfg.Provider = d.provider
			if *d.key == "" {
				*d.key = k
			}
			break
		}
	}
	return cfg
}

func setIf(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != "none"
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	missing := func(env string) error {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	switch c.Provider {
	case "", "none", "mock":
		return nil
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("PERSONA_ANTHROPIC_API_KEY")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("PERSONA_OPENAI_API_KEY")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("PERSONA_OPENROUTER_API_KEY")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("PERSONA_GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	return nil
}

// NewProvider builds the configured provider wrapped as
// caller -> retry -> logging -> provider. It returns ErrNotConfigured when
// no provider is selected.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, events, logger), cfg.Retry), nil
}
