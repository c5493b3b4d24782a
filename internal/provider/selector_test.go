package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinoteca/enrich-cli/internal/config"
	"github.com/vinoteca/enrich-cli/internal/settings"
)

func TestHasKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Anthropic.Key = "sk-ant"

	assert.True(t, HasKey(cfg, Anthropic))
	assert.False(t, HasKey(cfg, OpenAI))
	assert.False(t, HasKey(cfg, "bogus"))
}

func TestSelect_ConfiguredProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Anthropic.Key = "sk-ant"

	gen, err := Select(cfg, settings.Settings{AIProvider: Anthropic, Confidence: 50})
	require.NoError(t, err)
	assert.Equal(t, Anthropic, gen.Name())
}

func TestSelect_EmptyProviderDefaultsToOpenAI(t *testing.T) {
	cfg := &config.Config{}
	cfg.OpenAI.Key = "sk-oai"

	gen, err := Select(cfg, settings.Settings{Confidence: 50})
	require.NoError(t, err)
	assert.Equal(t, OpenAI, gen.Name())
}

func TestSelect_FallsBackWithoutKey(t *testing.T) {
	// The fallback's own key is not checked; the adapter is returned and
	// fails per call instead.
	cfg := &config.Config{}

	gen, err := Select(cfg, settings.Settings{AIProvider: Gemini, Confidence: 50})
	require.NoError(t, err)
	assert.Equal(t, OpenAI, gen.Name())
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("cohere", &config.Config{}, 50)
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []string{OpenAI, Anthropic, Gemini}, IDs())
}
