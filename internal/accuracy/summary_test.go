package accuracy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinoteca/enrich-cli/internal/model"
)

func TestSummary_RendersReport(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	a := NewAnalyzer(st)

	_, err := st.UpsertProducts(ctx, []model.Product{
		{ID: 1, Title: "Vinho A", Country: "França", Type: "Tinto"},
	})
	require.NoError(t, err)

	row := enrichmentRow(1, "Vinho A", "França", 100)
	row.Type = strPtr("Branco")
	row.TypeConfidence = intPtr(100)
	id := seedExecution(t, st, model.ExecutionOK, row)

	report, err := a.AnalyzeExecution(ctx, id)
	require.NoError(t, err)

	out := Summary(report)
	assert.Contains(t, out, "# Relatório de Acurácia")
	assert.Contains(t, out, "**Provider:** openai")
	assert.Contains(t, out, "Análise por Nível de Confiança")
	assert.Contains(t, out, "Análise por Campo")
	assert.Contains(t, out, "COUNTRY")
	// One of the two 100%-confidence fields mismatched.
	assert.Contains(t, out, "esperava-se 100% de acurácia")
	assert.True(t, strings.Contains(out, "country: 100% (1/1)"), "per-field breakdown present")
}

func TestSummary_EmptyReport(t *testing.T) {
	st := newTestStore(t)
	a := NewAnalyzer(st)

	id := seedExecution(t, st, model.ExecutionOK)
	report, err := a.AnalyzeExecution(context.Background(), id)
	require.NoError(t, err)

	out := Summary(report)
	assert.Contains(t, out, "**Total de Registros:** 0")
	assert.Contains(t, out, "**Acurácia Geral:** 0%")
	assert.NotContains(t, out, "esperava-se")
}
