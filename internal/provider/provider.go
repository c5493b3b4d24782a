// Package provider defines the attribute-generation capability and its
// per-vendor implementations.
package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/vinoteca/enrich-cli/internal/model"
)

// Provider identifiers. These are the values accepted by the persisted
// aiProvider setting.
const (
	OpenAI    = "openai"
	Anthropic = "anthropic"
	Gemini    = "gemini"
)

// DefaultProvider is the fixed fallback when the configured provider has no
// API key. Its own key availability is deliberately not re-checked (see
// Select).
const DefaultProvider = OpenAI

// IDs lists the known provider identifiers.
func IDs() []string {
	return []string{OpenAI, Anthropic, Gemini}
}

// ErrNoAPIKey reports a provider whose secret is absent from the
// environment.
var ErrNoAPIKey = eris.New("provider: api key not configured")

// ErrUnknownProvider reports an unrecognized provider id.
var ErrUnknownProvider = eris.New("provider: unknown provider")

// Generator produces validated wine attributes for catalog inputs.
// GenerateMany returns one record per input, in input order.
type Generator interface {
	Name() string
	GenerateOne(ctx context.Context, input model.WineInput) (*model.WineAttributes, error)
	GenerateMany(ctx context.Context, inputs []model.WineInput) ([]model.WineAttributes, error)
}

// ErrorAttributes builds the zero-confidence placeholder record for an input
// whose generation failed. Adapters and callers both use it so a failed call
// and a failed parse produce the same record shape.
func ErrorAttributes(input model.WineInput, errMsg string) model.WineAttributes {
	return model.WineAttributes{
		ID:     input.ID,
		Title:  input.Title,
		Status: model.StatusError,
		Error:  errMsg,
	}
}
