package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/vinoteca/enrich-cli/internal/store"
)

const sampleExport = `product_id,product_variant_id,product_variant_title,pais,tipo,classificacao,uva,tamanho,tampa,harmonizacao
10,100,Vinho Tinto Reserva 750ml,Chile,Tinto,Seco,Merlot,750ml,Rolha,Carnes vermelhas; Queijos
11,,Espumante Brut,França,Espumante,Brut,Chardonnay,750ml,Rolha,Frutos do mar
`

func TestParseCSV(t *testing.T) {
	products, err := ParseCSV([]byte(sampleExport))
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, 10, first.ID)
	require.NotNil(t, first.ProductVariantID)
	assert.Equal(t, 100, *first.ProductVariantID)
	assert.Equal(t, "Vinho Tinto Reserva 750ml", first.Title)
	assert.Equal(t, "Chile", first.Country)
	assert.Equal(t, "Carnes vermelhas; Queijos", first.Pairings)

	second := products[1]
	assert.Equal(t, 11, second.ID)
	assert.Nil(t, second.ProductVariantID)
	assert.Equal(t, "França", second.Country)
}

func TestParseCSV_SkipsBadIDs(t *testing.T) {
	raw := "product_id,product_variant_title,pais\nabc,Ruim,Chile\n5,Bom,Chile\n"
	products, err := ParseCSV([]byte(raw))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 5, products[0].ID)
}

func TestParseCSV_MissingIDColumn(t *testing.T) {
	_, err := ParseCSV([]byte("nome,pais\nVinho,Chile\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadExport)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadExport)
}

func TestParseXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Produtos")
	require.NoError(t, err)

	addRow := func(values ...string) {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	addRow("product_id", "product_variant_id", "product_variant_title", "pais", "tipo", "classificacao", "uva", "tamanho", "tampa", "harmonizacao")
	addRow("20", "200", "Vinho Branco Suave", "Portugal", "Branco", "Suave", "Moscato", "750ml", "Rosca", "Saladas")
	require.NoError(t, f.Save(path))

	products, err := ParseXLSX(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 20, products[0].ID)
	assert.Equal(t, "Portugal", products[0].Country)
	assert.Equal(t, "Rosca", products[0].Closure)
}

func TestImport_Batches(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	products, err := ParseCSV([]byte(sampleExport))
	require.NoError(t, err)

	n, err := Import(context.Background(), st, products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := st.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
