package provider

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/prompt"
	"github.com/vinoteca/enrich-cli/pkg/gemini"
)

// geminiLimiter spaces Gemini calls at 30 per minute with no bursting.
// Process-wide: every gemini generator shares it, so concurrent batches
// cannot exceed the vendor quota between them.
var geminiLimiter = rate.NewLimiter(rate.Every(2*time.Second), 1)

// geminiGenerator generates attributes through the Gemini generateContent
// API.
type geminiGenerator struct {
	client    gemini.Client
	limiter   *rate.Limiter
	threshold int
}

// NewGemini creates the Gemini-backed generator.
func NewGemini(client gemini.Client, threshold int) Generator {
	return &geminiGenerator{client: client, limiter: geminiLimiter, threshold: threshold}
}

func (g *geminiGenerator) Name() string { return Gemini }

func (g *geminiGenerator) generate(ctx context.Context, text string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "gemini: limiter wait")
	}

	resp, err := g.client.GenerateContent(ctx, gemini.GenerateContentRequest{
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: text}}},
		},
	})
	if err != nil {
		return "", err
	}

	out := resp.Text()
	if out == "" {
		return "", eris.New("gemini: no content in response")
	}
	return out, nil
}

func (g *geminiGenerator) GenerateOne(ctx context.Context, input model.WineInput) (*model.WineAttributes, error) {
	text, err := g.generate(ctx, prompt.Single(input, g.threshold))
	if err != nil {
		return nil, err
	}

	raw, err := parseSingle(text)
	if err != nil {
		return nil, err
	}

	attrs := validateRecord(raw, input)
	return &attrs, nil
}

func (g *geminiGenerator) GenerateMany(ctx context.Context, inputs []model.WineInput) ([]model.WineAttributes, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	text, err := g.generate(ctx, prompt.Batch(inputs, g.threshold))
	if err != nil {
		return nil, err
	}

	recs, err := parseMany(text)
	if err != nil {
		return nil, err
	}

	return matchResults(recs, inputs), nil
}
