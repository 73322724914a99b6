package ai

import (
	"context"
	"fmt"
)

// Option tunes a single generation call.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // override the provider's default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider is the capability interface for any language-model backend.
// Selection is a configuration value; the core never depends on a concrete
// provider.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// ProviderConfig selects and parameterizes a backend.
type ProviderConfig struct {
	Provider string // "openai" or "ollama"
	Model    string
	BaseURL  string
	APIKey   string
}

// NewProvider builds the configured backend.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	case "ollama":
		return NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	}
	return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
}

func buildOptions(defaults Options, opts []Option) Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
