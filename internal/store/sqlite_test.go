package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinoteca/enrich-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func okEnrichment(executionID int64, productID int, title string) *model.Enrichment {
	return &model.Enrichment{
		ExecutionID:              executionID,
		ProductID:                productID,
		ProductTitle:             title,
		Country:                  strPtr("França"),
		CountryConfidence:        intPtr(100),
		Type:                     strPtr("Tinto"),
		TypeConfidence:           intPtr(90),
		Classification:           strPtr("Seco"),
		ClassificationConfidence: intPtr(70),
		GrapeVariety:             strPtr("Merlot"),
		GrapeVarietyConfidence:   intPtr(80),
		Size:                     strPtr("750ml"),
		SizeConfidence:           intPtr(100),
		Closure:                  strPtr("Rolha"),
		ClosureConfidence:        intPtr(50),
		Pairings:                 strPtr("Carnes vermelhas; Queijos"),
		PairingsConfidence:       intPtr(70),
		Provider:                 "openai",
		Status:                   model.StatusOK,
	}
}

// --- Executions ---

func TestSQLite_CreateExecution(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exec, err := st.CreateExecution(ctx, "anthropic")
	require.NoError(t, err)
	assert.NotZero(t, exec.ID)
	assert.Equal(t, "anthropic", exec.Provider)
	assert.Equal(t, model.ExecutionPending, exec.Status)
	assert.False(t, exec.ExecutionDate.IsZero())
}

func TestSQLite_FinalizeExecution(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exec, err := st.CreateExecution(ctx, "openai")
	require.NoError(t, err)

	err = st.FinalizeExecution(ctx, exec.ID, model.ExecutionOK)
	require.NoError(t, err)

	fetched, err := st.GetExecution(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExecutionOK, fetched.Status)
}

func TestSQLite_FinalizeExecution_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.FinalizeExecution(context.Background(), 9999, model.ExecutionError)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_GetExecution_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetExecution(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListExecutions_NewestFirst(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.CreateExecution(ctx, "openai")
	require.NoError(t, err)
	second, err := st.CreateExecution(ctx, "gemini")
	require.NoError(t, err)

	execs, err := st.ListExecutions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, execs, 2)
	assert.Equal(t, second.ID, execs[0].ID)
	assert.Equal(t, first.ID, execs[1].ID)
}

func TestSQLite_DeleteExecution_Cascades(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exec, err := st.CreateExecution(ctx, "openai")
	require.NoError(t, err)
	_, err = st.CreateEnrichment(ctx, okEnrichment(exec.ID, 1, "Vinho Tinto Reserva"))
	require.NoError(t, err)

	err = st.DeleteExecution(ctx, exec.ID)
	require.NoError(t, err)

	rows, err := st.ListEnrichments(ctx, exec.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// --- Enrichments ---

func TestSQLite_CreateEnrichment_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exec, err := st.CreateExecution(ctx, "openai")
	require.NoError(t, err)

	id, err := st.CreateEnrichment(ctx, okEnrichment(exec.ID, 7, "Château Margaux 750ml"))
	require.NoError(t, err)
	assert.NotZero(t, id)

	rows, err := st.ListEnrichments(ctx, exec.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, 7, got.ProductID)
	assert.Equal(t, "Château Margaux 750ml", got.ProductTitle)
	require.NotNil(t, got.Country)
	assert.Equal(t, "França", *got.Country)
	require.NotNil(t, got.CountryConfidence)
	assert.Equal(t, 100, *got.CountryConfidence)
	require.NotNil(t, got.Pairings)
	assert.Equal(t, "Carnes vermelhas; Queijos", *got.Pairings)
	assert.Equal(t, model.StatusOK, got.Status)
	assert.Nil(t, got.Error)
}

func TestSQLite_CreateEnrichment_ErrorRow(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exec, err := st.CreateExecution(ctx, "gemini")
	require.NoError(t, err)

	_, err = st.CreateEnrichment(ctx, &model.Enrichment{
		ExecutionID:  exec.ID,
		ProductID:    3,
		ProductTitle: "Vinho sem rótulo",
		Provider:     "gemini",
		Status:       model.StatusError,
		Error:        strPtr("gemini: no content in response"),
	})
	require.NoError(t, err)

	rows, err := st.ListEnrichments(ctx, exec.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Country)
	assert.Equal(t, model.StatusError, rows[0].Status)
	require.NotNil(t, rows[0].Error)
	assert.Equal(t, "gemini: no content in response", *rows[0].Error)
}

func TestSQLite_ListEnrichments_InsertionOrder(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exec, err := st.CreateExecution(ctx, "openai")
	require.NoError(t, err)

	titles := []string{"Primeiro", "Segundo", "Terceiro"}
	for i, title := range titles {
		_, err := st.CreateEnrichment(ctx, okEnrichment(exec.ID, i+1, title))
		require.NoError(t, err)
	}

	rows, err := st.ListEnrichments(ctx, exec.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, title := range titles {
		assert.Equal(t, title, rows[i].ProductTitle)
	}
}

func TestSQLite_ListOKEnrichments_FiltersErrors(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exec, err := st.CreateExecution(ctx, "openai")
	require.NoError(t, err)

	_, err = st.CreateEnrichment(ctx, okEnrichment(exec.ID, 1, "Bom"))
	require.NoError(t, err)
	_, err = st.CreateEnrichment(ctx, &model.Enrichment{
		ExecutionID:  exec.ID,
		ProductID:    2,
		ProductTitle: "Ruim",
		Provider:     "openai",
		Status:       model.StatusError,
		Error:        strPtr("timeout"),
	})
	require.NoError(t, err)

	rows, err := st.ListOKEnrichments(ctx, exec.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bom", rows[0].ProductTitle)
}

// --- Products ---

func TestSQLite_UpsertProducts_InsertAndUpdate(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.UpsertProducts(ctx, []model.Product{
		{ID: 1, Title: "Vinho A", Country: "Chile", Type: "Tinto"},
		{ID: 2, Title: "Vinho B", Country: "Portugal", Type: "Branco"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-import with a changed row.
	n, err = st.UpsertProducts(ctx, []model.Product{
		{ID: 1, Title: "Vinho A", Country: "Argentina", Type: "Tinto"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	products, err := st.GetProducts(ctx, []int{1, 2})
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := make(map[int]model.Product)
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.Equal(t, "Argentina", byID[1].Country)
	assert.Equal(t, "Portugal", byID[2].Country)
}

func TestSQLite_UpsertProducts_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	n, err := st.UpsertProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_GetProducts_Subset(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.UpsertProducts(ctx, []model.Product{
		{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"},
	})
	require.NoError(t, err)

	products, err := st.GetProducts(ctx, []int{1, 3, 99})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestSQLite_CountProducts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.CountProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = st.UpsertProducts(ctx, []model.Product{{ID: 1, Title: "A"}})
	require.NoError(t, err)

	n, err = st.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// --- Migrate ---

func TestSQLite_Migrate_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.Migrate(context.Background())
	require.NoError(t, err)
}
