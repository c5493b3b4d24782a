package provider

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/prompt"
	"github.com/vinoteca/enrich-cli/pkg/openai"
)

const openaiSystemPrompt = "Você é um especialista em vinhos com acesso a uma base ampla de conhecimento e dados de produtos, inclusive busca na internet. Use inferência com base no nome do produto e padrões de mercado para preencher os atributos com alta confiança."

// openaiGenerator generates attributes through the OpenAI chat completions
// API.
type openaiGenerator struct {
	client    openai.Client
	threshold int
}

// NewOpenAI creates the OpenAI-backed generator.
func NewOpenAI(client openai.Client, threshold int) Generator {
	return &openaiGenerator{client: client, threshold: threshold}
}

func (g *openaiGenerator) Name() string { return OpenAI }

func (g *openaiGenerator) GenerateOne(ctx context.Context, input model.WineInput) (*model.WineAttributes, error) {
	resp, err := g.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Messages: []openai.Message{
			{Role: "system", Content: openaiSystemPrompt},
			{Role: "user", Content: prompt.Single(input, g.threshold)},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, eris.New("openai: no content in response")
	}

	raw, err := parseSingle(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	attrs := validateRecord(raw, input)
	zap.L().Debug("openai: generated attributes",
		zap.Int("id", attrs.ID),
		zap.String("title", attrs.Title),
	)
	return &attrs, nil
}

func (g *openaiGenerator) GenerateMany(ctx context.Context, inputs []model.WineInput) ([]model.WineAttributes, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	resp, err := g.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Messages: []openai.Message{
			{Role: "system", Content: openaiSystemPrompt},
			{Role: "user", Content: prompt.Batch(inputs, g.threshold)},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, eris.New("openai: no content in response")
	}

	recs, err := parseMany(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return matchResults(recs, inputs), nil
}
