package assistant

import (
	"context"
	"fmt"
	"strings"
)

// Providers accepted by NewModel.
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

// Config selects and configures the text-generation backend.
type Config struct {
	Provider      string  `env:"ASSISTANT_PROVIDER" envDefault:"openai"`
	Temperature   float64 `env:"ASSISTANT_TEMPERATURE" envDefault:"0"`
	OpenAIAPIKey  string  `env:"OPENAI_API_KEY"`
	OpenAIModel   string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string  `env:"OPENAI_BASE_URL"`
	GoogleAPIKey  string  `env:"GOOGLE_API_KEY"`
	GoogleModel   string  `env:"GOOGLE_MODEL" envDefault:"gemini-2.0-flash"`
}

// NewModel builds the Model named by cfg.Provider.
func NewModel(ctx context.Context, cfg Config) (Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		m, err := NewOpenAI(cfg.OpenAIAPIKey,
			WithOpenAIModel(cfg.OpenAIModel),
			WithOpenAIBaseURL(cfg.OpenAIBaseURL),
		)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ProviderGoogle:
		m, err := NewGoogle(ctx, cfg.GoogleAPIKey, WithGoogleModel(cfg.GoogleModel))
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: provider %q", ErrModelNotSupported, cfg.Provider)
	}
}

// FromConfig builds an Assistant over the Model described by cfg.
func FromConfig(ctx context.Context, cfg Config, opts ...Option) (*Assistant, error) {
	model, err := NewModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithTemperature(cfg.Temperature)}, opts...)
	return New(model, opts...), nil
}
