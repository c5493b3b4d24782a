package provider

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/pkg/anthropic"
	"github.com/vinoteca/enrich-cli/pkg/gemini"
	"github.com/vinoteca/enrich-cli/pkg/openai"
)

type stubOpenAI struct {
	content string
	err     error
	reqs    []openai.ChatCompletionRequest
}

func (s *stubOpenAI) ChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &openai.ChatCompletionResponse{
		Choices: []openai.Choice{{Message: openai.Message{Role: "assistant", Content: s.content}}},
	}, nil
}

type stubAnthropic struct {
	content string
	err     error
	reqs    []anthropic.MessageRequest
}

func (s *stubAnthropic) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: s.content}},
	}, nil
}

type stubGemini struct {
	content string
	err     error
	reqs    []gemini.GenerateContentRequest
}

func (s *stubGemini) GenerateContent(_ context.Context, req gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &gemini.GenerateContentResponse{
		Candidates: []gemini.Candidate{{Content: gemini.Content{Parts: []gemini.Part{{Text: s.content}}}}},
	}, nil
}

func TestOpenAIGenerateOne(t *testing.T) {
	client := &stubOpenAI{content: sampleObject}
	gen := NewOpenAI(client, 50)
	assert.Equal(t, OpenAI, gen.Name())

	attrs, err := gen.GenerateOne(context.Background(), model.WineInput{ID: 7, Title: "Vinho Tinto Reserva"})
	require.NoError(t, err)
	assert.Equal(t, "Chile", attrs.Country.Value)
	assert.Equal(t, model.StatusOK, attrs.Status)

	require.Len(t, client.reqs, 1)
	msgs := client.reqs[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, openaiSystemPrompt, msgs[0].Content)
	assert.Contains(t, msgs[1].Content, "[ID: 7] Nome: Vinho Tinto Reserva")
}

func TestOpenAIGenerateOne_EmptyResponse(t *testing.T) {
	gen := NewOpenAI(&stubOpenAI{content: ""}, 50)
	_, err := gen.GenerateOne(context.Background(), model.WineInput{ID: 1, Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content in response")
}

func TestOpenAIGenerateMany(t *testing.T) {
	body := `[
		{"id": 2, "nome": "Vinho B", "tipo": {"value": "Branco", "confidence": 90}},
		{"id": 1, "nome": "Vinho A", "tipo": {"value": "Tinto", "confidence": 100}}
	]`
	client := &stubOpenAI{content: body}
	gen := NewOpenAI(client, 50)

	out, err := gen.GenerateMany(context.Background(), []model.WineInput{
		{ID: 1, Title: "Vinho A"},
		{ID: 2, Title: "Vinho B"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Tinto", out[0].Type.Value)
	assert.Equal(t, "Branco", out[1].Type.Value)

	require.Len(t, client.reqs, 1)
	assert.Contains(t, client.reqs[0].Messages[1].Content, "1. [ID: 1] Vinho A")
}

func TestOpenAIGenerateMany_Empty(t *testing.T) {
	client := &stubOpenAI{}
	gen := NewOpenAI(client, 50)
	out, err := gen.GenerateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, client.reqs, "no API call for empty input")
}

func TestAnthropicGenerateOne(t *testing.T) {
	client := &stubAnthropic{content: sampleObject}
	gen := NewAnthropic(client, "claude-test", 50)
	assert.Equal(t, Anthropic, gen.Name())

	attrs, err := gen.GenerateOne(context.Background(), model.WineInput{ID: 7, Title: "Vinho Tinto Reserva"})
	require.NoError(t, err)
	assert.Equal(t, "Merlot", attrs.GrapeVariety.Value)

	require.Len(t, client.reqs, 1)
	assert.Equal(t, "claude-test", client.reqs[0].Model)
	assert.Equal(t, int64(1024), client.reqs[0].MaxTokens)
}

func TestAnthropicGenerateMany_MaxTokens(t *testing.T) {
	tests := []struct {
		inputs int
		want   int64
	}{
		{1, 1024},
		{4, 1024},
		{10, 2560},
		{40, 8192},
	}
	for _, tt := range tests {
		client := &stubAnthropic{err: eris.New("stop here")}
		gen := NewAnthropic(client, "claude-test", 50)

		inputs := make([]model.WineInput, tt.inputs)
		for i := range inputs {
			inputs[i] = model.WineInput{ID: i + 1, Title: fmt.Sprintf("Vinho %d", i+1)}
		}

		_, err := gen.GenerateMany(context.Background(), inputs)
		require.Error(t, err)
		require.Len(t, client.reqs, 1)
		assert.Equal(t, tt.want, client.reqs[0].MaxTokens, "%d inputs", tt.inputs)
	}
}

func TestAnthropicGenerateOne_EmptyResponse(t *testing.T) {
	gen := NewAnthropic(&stubAnthropic{content: ""}, "claude-test", 50)
	_, err := gen.GenerateOne(context.Background(), model.WineInput{ID: 1, Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content in response")
}

func TestGeminiGenerateOne(t *testing.T) {
	client := &stubGemini{content: sampleObject}
	gen := NewGemini(client, 70)
	assert.Equal(t, Gemini, gen.Name())

	attrs, err := gen.GenerateOne(context.Background(), model.WineInput{ID: 7, Title: "Vinho Tinto Reserva"})
	require.NoError(t, err)
	assert.Equal(t, "Rolha", attrs.Closure.Value)

	require.Len(t, client.reqs, 1)
	require.Len(t, client.reqs[0].Contents, 1)
	text := client.reqs[0].Contents[0].Parts[0].Text
	assert.True(t, strings.Contains(text, "acima de 70%"), "threshold flows into the prompt")
}

func TestGeminiGenerateOne_ClientError(t *testing.T) {
	gen := NewGemini(&stubGemini{err: eris.New("quota exceeded")}, 50)
	_, err := gen.GenerateOne(context.Background(), model.WineInput{ID: 1, Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
