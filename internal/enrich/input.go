// Package enrich runs the batch enrichment pipeline: parse an uploaded CSV,
// generate attributes row by row, persist every outcome and emit the
// enriched CSV.
package enrich

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/vinoteca/enrich-cli/internal/model"
)

// ErrValidation reports an input CSV that cannot be processed at all.
// Nothing is persisted when it is returned.
var ErrValidation = eris.New("enrich: invalid input")

// ParseInput reads the uploaded CSV into wine inputs. The header must carry
// a title column named "title" or "nome"; an "id" column is optional and
// rows without one are numbered from 1 in file order.
func ParseInput(raw []byte) ([]model.WineInput, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, eris.Wrap(ErrValidation, "empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read header")
	}

	titleIdx, idIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "title", "nome":
			if titleIdx < 0 {
				titleIdx = i
			}
		case "id":
			idIdx = i
		}
	}
	if titleIdx < 0 {
		return nil, eris.Wrap(ErrValidation, "missing title column (title or nome)")
	}

	var inputs []model.WineInput
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "enrich: read row %d", row+1)
		}
		row++

		title := ""
		if titleIdx < len(record) {
			title = strings.TrimSpace(record[titleIdx])
		}
		if title == "" {
			return nil, eris.Wrapf(ErrValidation, "row %d: empty title", row)
		}

		id := row
		if idIdx >= 0 && idIdx < len(record) {
			if parsed, perr := strconv.Atoi(strings.TrimSpace(record[idIdx])); perr == nil {
				id = parsed
			}
		}

		inputs = append(inputs, model.WineInput{ID: id, Title: title})
	}

	if len(inputs) == 0 {
		return nil, eris.Wrap(ErrValidation, "no data rows")
	}
	return inputs, nil
}
