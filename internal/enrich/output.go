package enrich

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/vinoteca/enrich-cli/internal/model"
)

// outputRow is the enriched CSV schema. Column names follow the Portuguese
// response contract so the output lines up with the catalog vocabulary.
type outputRow struct {
	ID                      int    `csv:"id"`
	Nome                    string `csv:"nome"`
	Status                  string `csv:"status"`
	Pais                    string `csv:"pais"`
	PaisConfidence          int    `csv:"pais_confidence"`
	Tipo                    string `csv:"tipo"`
	TipoConfidence          int    `csv:"tipo_confidence"`
	Classificacao           string `csv:"classificacao"`
	ClassificacaoConfidence int    `csv:"classificacao_confidence"`
	Uva                     string `csv:"uva"`
	UvaConfidence           int    `csv:"uva_confidence"`
	Tamanho                 string `csv:"tamanho"`
	TamanhoConfidence       int    `csv:"tamanho_confidence"`
	Tampa                   string `csv:"tampa"`
	TampaConfidence         int    `csv:"tampa_confidence"`
	Harmonizacao            string `csv:"harmonizacao"`
	HarmonizacaoConfidence  int    `csv:"harmonizacao_confidence"`
}

// joinPairings flattens the pairings list for storage and CSV output.
func joinPairings(values []string) string {
	return strings.Join(values, "; ")
}

// EncodeOutput renders the enriched records as CSV, one row per input in
// input order. Pairings are joined with "; ".
func EncodeOutput(records []model.WineAttributes) ([]byte, error) {
	rows := make([]outputRow, len(records))
	for i, r := range records {
		rows[i] = outputRow{
			ID:                      r.ID,
			Nome:                    r.Title,
			Status:                  string(r.Status),
			Pais:                    r.Country.Value,
			PaisConfidence:          r.Country.Confidence,
			Tipo:                    r.Type.Value,
			TipoConfidence:          r.Type.Confidence,
			Classificacao:           r.Classification.Value,
			ClassificacaoConfidence: r.Classification.Confidence,
			Uva:                     r.GrapeVariety.Value,
			UvaConfidence:           r.GrapeVariety.Confidence,
			Tamanho:                 r.Size.Value,
			TamanhoConfidence:       r.Size.Confidence,
			Tampa:                   r.Closure.Value,
			TampaConfidence:         r.Closure.Confidence,
			Harmonizacao:            joinPairings(r.Pairings.Values),
			HarmonizacaoConfidence:  r.Pairings.Confidence,
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)
	if err := enc.Encode(rows); err != nil {
		return nil, eris.Wrap(err, "enrich: encode output")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "enrich: flush output")
	}
	return buf.Bytes(), nil
}
