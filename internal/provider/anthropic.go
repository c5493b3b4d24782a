package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/prompt"
	"github.com/vinoteca/enrich-cli/pkg/anthropic"
)

// anthropicGenerator generates attributes through the Anthropic messages API.
type anthropicGenerator struct {
	client    anthropic.Client
	model     string
	threshold int
}

// NewAnthropic creates the Anthropic-backed generator.
func NewAnthropic(client anthropic.Client, modelID string, threshold int) Generator {
	return &anthropicGenerator{client: client, model: modelID, threshold: threshold}
}

func (g *anthropicGenerator) Name() string { return Anthropic }

func (g *anthropicGenerator) GenerateOne(ctx context.Context, input model.WineInput) (*model.WineAttributes, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: 1024,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt.Single(input, g.threshold)},
		},
	})
	if err != nil {
		return nil, err
	}

	text := resp.Text()
	if text == "" {
		return nil, eris.New("anthropic: no content in response")
	}

	raw, err := parseSingle(text)
	if err != nil {
		return nil, err
	}

	attrs := validateRecord(raw, input)
	return &attrs, nil
}

func (g *anthropicGenerator) GenerateMany(ctx context.Context, inputs []model.WineInput) ([]model.WineAttributes, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	// Multi-product responses need more room than single ones.
	maxTokens := int64(256 * len(inputs))
	if maxTokens < 1024 {
		maxTokens = 1024
	}
	if maxTokens > 8192 {
		maxTokens = 8192
	}

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt.Batch(inputs, g.threshold)},
		},
	})
	if err != nil {
		return nil, err
	}

	text := resp.Text()
	if text == "" {
		return nil, eris.New("anthropic: no content in response")
	}

	recs, err := parseMany(text)
	if err != nil {
		return nil, err
	}

	return matchResults(recs, inputs), nil
}
