package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinoteca/enrich-cli/internal/model"
)

func TestSingle(t *testing.T) {
	out := Single(model.WineInput{ID: 7, Title: "Vinho Tinto Reserva 750ml"}, 50)

	assert.Contains(t, out, "[ID: 7] Nome: Vinho Tinto Reserva 750ml")
	assert.Contains(t, out, "acima de 50%")
	assert.Contains(t, out, `"harmonizacao"`)
	assert.Contains(t, out, "retorne 'Blend'")
}

func TestSingle_EmbedsVocabularies(t *testing.T) {
	out := Single(model.WineInput{ID: 1, Title: "X"}, 50)

	for _, expected := range []string{"França", "Tinto", "Demi-Sec", "Cabernet Sauvignon", "750ml", "Rolha", "Carnes vermelhas"} {
		assert.Contains(t, out, expected)
	}
}

func TestSingle_DefaultThreshold(t *testing.T) {
	out := Single(model.WineInput{ID: 1, Title: "X"}, 0)
	assert.Contains(t, out, "acima de 50%")

	out = Single(model.WineInput{ID: 1, Title: "X"}, 70)
	assert.Contains(t, out, "acima de 70%")
}

func TestSingle_ConfidenceRubric(t *testing.T) {
	out := Single(model.WineInput{ID: 1, Title: "X"}, 50)

	// The %% escapes must have been rendered to single percent signs.
	assert.Contains(t, out, "- 0% - Nenhuma confiança")
	assert.Contains(t, out, "- 100% - Certeza absoluta")
	assert.NotContains(t, out, "%%")
}

func TestBatch(t *testing.T) {
	inputs := []model.WineInput{
		{ID: 1, Title: "Vinho A"},
		{ID: 2, Title: "Vinho B"},
	}
	out := Batch(inputs, 50)

	assert.Contains(t, out, "1. [ID: 1] Vinho A")
	assert.Contains(t, out, "2. [ID: 2] Vinho B")
	assert.Contains(t, out, "array JSON")
	assert.Contains(t, out, "começando com [ e terminando com ]")
}

func TestBatch_IsolationInstruction(t *testing.T) {
	out := Batch([]model.WineInput{{ID: 1, Title: "X"}}, 50)
	assert.Contains(t, out, "analise individualmente")
	assert.Contains(t, out, "Não compartilhe ou reutilize inferências")
}

func TestSingle_RawJSONInstruction(t *testing.T) {
	out := Single(model.WineInput{ID: 1, Title: "X"}, 50)
	assert.Contains(t, out, "começando com { e terminando com }")
	assert.True(t, strings.Contains(out, "sem marcar o código com blocos de markdown"))
}
