package provider

import (
	"go.uber.org/zap"

	"github.com/vinoteca/enrich-cli/internal/config"
	"github.com/vinoteca/enrich-cli/internal/settings"
	"github.com/vinoteca/enrich-cli/pkg/anthropic"
	"github.com/vinoteca/enrich-cli/pkg/gemini"
	"github.com/vinoteca/enrich-cli/pkg/openai"
)

// HasKey reports whether the environment carries the secret for a provider.
func HasKey(cfg *config.Config, providerID string) bool {
	return cfg.ProviderKey(providerID) != ""
}

// Select resolves the persisted provider choice into a Generator. When the
// configured provider's secret is absent it falls back to DefaultProvider
// without checking the fallback's own key: the fallback adapter then fails
// per-call, which is the behavior callers are written against. Callers must
// not assume the returned generator is guaranteed usable.
func Select(cfg *config.Config, st settings.Settings) (Generator, error) {
	id := st.AIProvider
	if id == "" {
		id = DefaultProvider
	}

	if !HasKey(cfg, id) {
		zap.L().Warn("provider: api key not configured, falling back",
			zap.String("configured", id),
			zap.String("fallback", DefaultProvider),
		)
		id = DefaultProvider
	}

	return New(id, cfg, st.Confidence)
}

// New builds the adapter for a provider id.
func New(id string, cfg *config.Config, threshold int) (Generator, error) {
	switch id {
	case OpenAI:
		opts := []openai.Option{openai.WithModel(cfg.OpenAI.Model)}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		return NewOpenAI(openai.NewClient(cfg.OpenAI.Key, opts...), threshold), nil
	case Anthropic:
		return NewAnthropic(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, threshold), nil
	case Gemini:
		opts := []gemini.Option{gemini.WithModel(cfg.Gemini.Model)}
		if cfg.Gemini.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
		}
		return NewGemini(gemini.NewClient(cfg.Gemini.Key, opts...), threshold), nil
	default:
		return nil, ErrUnknownProvider
	}
}
