package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinoteca/enrich-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_CreateExecution(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO wine_enrichment_execution`).
		WithArgs("openai", "Pending").
		WillReturnRows(pgxmock.NewRows([]string{"id", "execution_date"}).AddRow(int64(1), now))

	exec, err := s.CreateExecution(context.Background(), "openai")
	require.NoError(t, err)
	assert.Equal(t, int64(1), exec.ID)
	assert.Equal(t, model.ExecutionPending, exec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetExecution_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, execution_date, provider, status FROM wine_enrichment_execution WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetExecution(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FinalizeExecution(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE wine_enrichment_execution SET status = \$1 WHERE id = \$2`).
		WithArgs("OK", int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.FinalizeExecution(context.Background(), 5, model.ExecutionOK)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FinalizeExecution_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE wine_enrichment_execution SET status = \$1 WHERE id = \$2`).
		WithArgs("ERROR", int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.FinalizeExecution(context.Background(), 5, model.ExecutionError)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateEnrichment(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	e := okEnrichment(1, 7, "Château Margaux 750ml")
	mock.ExpectQuery(`INSERT INTO wine_enrichment`).
		WithArgs(
			e.ExecutionID, e.ProductID, e.ProductTitle,
			e.Country, e.CountryConfidence, e.Type, e.TypeConfidence,
			e.Classification, e.ClassificationConfidence, e.GrapeVariety, e.GrapeVarietyConfidence,
			e.Size, e.SizeConfidence, e.Closure, e.ClosureConfidence,
			e.Pairings, e.PairingsConfidence, e.Provider, "OK", e.Error,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := s.CreateEnrichment(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExecution_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM wine_enrichment_execution WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteExecution(context.Background(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountProducts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM product`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	n, err := s.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
