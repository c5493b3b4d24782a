// Package catalog imports the ground-truth product export into the store.
package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/store"
)

// ErrBadExport reports a catalog export whose header is unusable.
var ErrBadExport = eris.New("catalog: invalid export")

// exportColumns maps the export's header names to product fields. The
// export keeps the Portuguese attribute names used across the pipeline.
var exportColumns = []string{
	"product_id", "product_variant_id", "product_variant_title",
	"pais", "tipo", "classificacao", "uva", "tamanho", "tampa", "harmonizacao",
}

// ParseCSV reads a product export in CSV form.
func ParseCSV(raw []byte) ([]model.Product, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(ErrBadExport, "empty file")
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read row")
		}
		rows = append(rows, record)
	}
	return parseRows(header, rows)
}

// ParseXLSX reads a product export from the first sheet of an XLSX file.
func ParseXLSX(path string) ([]model.Product, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrap(ErrBadExport, "no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Wrap(ErrBadExport, "empty sheet")
	}

	toStrings := func(row *xlsx.Row) []string {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		return cells
	}

	header := toStrings(sheet.Rows[0])
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, toStrings(row))
	}
	return parseRows(header, rows)
}

func parseRows(header []string, rows [][]string) ([]model.Product, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := idx["product_id"]; !ok {
		return nil, eris.Wrap(ErrBadExport, "missing product_id column")
	}

	cell := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var products []model.Product
	for n, record := range rows {
		id, err := strconv.Atoi(cell(record, "product_id"))
		if err != nil {
			zap.L().Warn("catalog: skipping row with bad product_id",
				zap.Int("row", n+2),
				zap.String("product_id", cell(record, "product_id")),
			)
			continue
		}

		p := model.Product{
			ID:             id,
			Title:          cell(record, "product_variant_title"),
			Country:        cell(record, "pais"),
			Type:           cell(record, "tipo"),
			Classification: cell(record, "classificacao"),
			GrapeVariety:   cell(record, "uva"),
			Size:           cell(record, "tamanho"),
			Closure:        cell(record, "tampa"),
			Pairings:       cell(record, "harmonizacao"),
		}
		if variant, err := strconv.Atoi(cell(record, "product_variant_id")); err == nil {
			p.ProductVariantID = &variant
		}
		products = append(products, p)
	}

	if len(products) == 0 {
		return nil, eris.Wrap(ErrBadExport, "no importable rows")
	}
	return products, nil
}

// Import persists parsed products in batches and returns the imported count.
func Import(ctx context.Context, st store.Store, products []model.Product) (int, error) {
	const batchSize = 100

	imported := 0
	for start := 0; start < len(products); start += batchSize {
		end := start + batchSize
		if end > len(products) {
			end = len(products)
		}
		n, err := st.UpsertProducts(ctx, products[start:end])
		if err != nil {
			return imported, err
		}
		imported += n
		zap.L().Info("catalog: imported batch",
			zap.Int("batch", start/batchSize+1),
			zap.Int("progress", imported),
			zap.Int("total", len(products)),
		)
	}
	return imported, nil
}
