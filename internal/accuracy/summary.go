package accuracy

import (
	"fmt"
	"strings"

	"github.com/vinoteca/enrich-cli/internal/model"
)

var bandHeadings = map[model.ConfidenceBand]string{
	model.BandPerfect: "Confiança 100%",
	model.BandHigh:    "Confiança Alta 90-99%",
	model.BandMedium:  "Confiança Média 80-89%",
	model.BandLow:     "Confiança Baixa 70-79%",
}

// Summary renders the report as a Portuguese markdown document.
func Summary(report *model.AccuracyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Relatório de Acurácia - Execução %d\n\n", report.ExecutionID)
	fmt.Fprintf(&b, "**Provider:** %s\n", report.Provider)
	fmt.Fprintf(&b, "**Data:** %s\n", report.ExecutionDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "**Total de Registros:** %d\n", report.TotalRecords)
	fmt.Fprintf(&b, "**Acurácia Geral:** %d%%\n\n", report.OverallAccuracy)

	b.WriteString("## Análise por Nível de Confiança\n\n")
	for _, band := range model.Bands() {
		level := report.ConfidenceLevels[band]
		if level == nil {
			continue
		}
		fmt.Fprintf(&b, "### %s (%d campos)\n", bandHeadings[band], level.TotalFields)
		fmt.Fprintf(&b, "**Acurácia:** %d%%\n", level.AccuracyPercentage)
		if band == model.BandPerfect && level.TotalFields > 0 && level.AccuracyPercentage < 100 {
			b.WriteString("**Atenção:** Com confiança 100%, esperava-se 100% de acurácia!\n")
		}
		b.WriteString("**Detalhes por campo:**\n")
		for _, field := range Fields {
			if fb := level.FieldBreakdown[field]; fb.Total > 0 {
				fmt.Fprintf(&b, "- %s: %d%% (%d/%d)\n", field, fb.Accuracy, fb.Matches, fb.Total)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Análise por Campo\n\n")
	for _, field := range Fields {
		fs := report.FieldAccuracy[field]
		if fs == nil || fs.TotalComparisons == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n", strings.ToUpper(field))
		fmt.Fprintf(&b, "**Acurácia Geral:** %d%% (%d/%d)\n", fs.AccuracyPercentage, fs.Matches, fs.TotalComparisons)
		b.WriteString("**Por nível de confiança:**\n")
		for _, band := range model.Bands() {
			cb := fs.ConfidenceBreakdown[band]
			fmt.Fprintf(&b, "- %s: %d%% (%d/%d)\n", bandRanges[band], cb.Accuracy, cb.Matches, cb.Total)
		}
		b.WriteString("\n")
	}

	return b.String()
}
