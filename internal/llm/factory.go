package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/Fasscorp/FassimoV3/internal/logging"
)

// FactoryConfig selects and configures a provider.
type FactoryConfig struct {
	Provider string // gemini, anthropic, openai
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds a Client for the configured provider.
func New(ctx context.Context, cfg FactoryConfig) (Client, error) {
	logging.LLM("Creating %s client (model=%s)", cfg.Provider, cfg.Model)

	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "anthropic":
		ac := DefaultAnthropicConfig(cfg.APIKey)
		if cfg.Model != "" {
			ac.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			ac.BaseURL = cfg.BaseURL
		}
		if cfg.Timeout > 0 {
			ac.Timeout = cfg.Timeout
		}
		return NewAnthropicClientWithConfig(ac), nil

	case "openai":
		oc := DefaultOpenAIConfig(cfg.APIKey)
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		if cfg.Timeout > 0 {
			oc.Timeout = cfg.Timeout
		}
		return NewOpenAIClientWithConfig(oc), nil
	}

	return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}
