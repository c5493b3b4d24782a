package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/vinoteca/enrich-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects to the database at databaseURL and verifies the
// connection with a ping.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS wine_enrichment_execution (
	id             BIGSERIAL PRIMARY KEY,
	execution_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	provider       TEXT,
	status         TEXT NOT NULL DEFAULT 'Pending'
);

CREATE TABLE IF NOT EXISTS wine_enrichment (
	id                        BIGSERIAL PRIMARY KEY,
	id_execution              BIGINT NOT NULL REFERENCES wine_enrichment_execution(id) ON DELETE CASCADE,
	product_id                INTEGER,
	product_title             TEXT,
	country                   TEXT,
	country_confidence        INTEGER,
	type                      TEXT,
	type_confidence           INTEGER,
	classification            TEXT,
	classification_confidence INTEGER,
	grape_variety             TEXT,
	grape_variety_confidence  INTEGER,
	size                      TEXT,
	size_confidence           INTEGER,
	closure                   TEXT,
	closure_confidence        INTEGER,
	pairings                  TEXT,
	pairings_confidence       INTEGER,
	provider                  TEXT,
	status                    TEXT NOT NULL DEFAULT 'Pending',
	error                     TEXT
);

CREATE TABLE IF NOT EXISTS product (
	id                 INTEGER PRIMARY KEY,
	product_variant_id INTEGER,
	title              TEXT,
	country            TEXT,
	type               TEXT,
	classification     TEXT,
	grape_variety      TEXT,
	size               TEXT,
	closure            TEXT,
	pairings           TEXT
);

CREATE INDEX IF NOT EXISTS idx_wine_enrichment_execution ON wine_enrichment(id_execution);
CREATE INDEX IF NOT EXISTS idx_wine_enrichment_status ON wine_enrichment(id_execution, status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateExecution(ctx context.Context, provider string) (*model.Execution, error) {
	e := model.Execution{
		Provider: provider,
		Status:   model.ExecutionPending,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO wine_enrichment_execution (provider, status) VALUES ($1, $2)
		RETURNING id, execution_date`,
		provider, string(model.ExecutionPending),
	).Scan(&e.ID, &e.ExecutionDate)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert execution")
	}
	return &e, nil
}

func (s *PostgresStore) FinalizeExecution(ctx context.Context, id int64, status model.ExecutionStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE wine_enrichment_execution SET status = $1 WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finalize execution %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "execution %d", id)
	}
	return nil
}

func (s *PostgresStore) GetExecution(ctx context.Context, id int64) (*model.Execution, error) {
	var e model.Execution
	var status string
	var date time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT id, execution_date, provider, status FROM wine_enrichment_execution WHERE id = $1`,
		id,
	).Scan(&e.ID, &date, &e.Provider, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "execution %d", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get execution %d", id)
	}
	e.ExecutionDate = date
	e.Status = model.ExecutionStatus(status)
	return &e, nil
}

func (s *PostgresStore) ListExecutions(ctx context.Context, limit int) ([]model.Execution, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, execution_date, provider, status FROM wine_enrichment_execution ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list executions")
	}
	defer rows.Close()

	var out []model.Execution
	for rows.Next() {
		var e model.Execution
		var status string
		if err := rows.Scan(&e.ID, &e.ExecutionDate, &e.Provider, &status); err != nil {
			return nil, eris.Wrap(err, "postgres: scan execution")
		}
		e.Status = model.ExecutionStatus(status)
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list executions")
}

func (s *PostgresStore) DeleteExecution(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM wine_enrichment_execution WHERE id = $1`, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete execution %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "execution %d", id)
	}
	return nil
}

func (s *PostgresStore) CreateEnrichment(ctx context.Context, e *model.Enrichment) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO wine_enrichment (
			id_execution, product_id, product_title,
			country, country_confidence, type, type_confidence,
			classification, classification_confidence, grape_variety, grape_variety_confidence,
			size, size_confidence, closure, closure_confidence,
			pairings, pairings_confidence, provider, status, error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`,
		e.ExecutionID, e.ProductID, e.ProductTitle,
		e.Country, e.CountryConfidence, e.Type, e.TypeConfidence,
		e.Classification, e.ClassificationConfidence, e.GrapeVariety, e.GrapeVarietyConfidence,
		e.Size, e.SizeConfidence, e.Closure, e.ClosureConfidence,
		e.Pairings, e.PairingsConfidence, e.Provider, string(e.Status), e.Error,
	).Scan(&id)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert enrichment")
	}
	return id, nil
}

func (s *PostgresStore) ListEnrichments(ctx context.Context, executionID int64) ([]model.Enrichment, error) {
	return s.listEnrichments(ctx, executionID, false)
}

func (s *PostgresStore) ListOKEnrichments(ctx context.Context, executionID int64) ([]model.Enrichment, error) {
	return s.listEnrichments(ctx, executionID, true)
}

func (s *PostgresStore) listEnrichments(ctx context.Context, executionID int64, okOnly bool) ([]model.Enrichment, error) {
	query := `SELECT ` + enrichmentColumns + ` FROM wine_enrichment WHERE id_execution = $1`
	args := []any{executionID}
	if okOnly {
		query += ` AND status = $2`
		args = append(args, string(model.StatusOK))
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list enrichments")
	}
	defer rows.Close()

	var out []model.Enrichment
	for rows.Next() {
		var e model.Enrichment
		var status string
		if err := rows.Scan(
			&e.ID, &e.ExecutionID, &e.ProductID, &e.ProductTitle,
			&e.Country, &e.CountryConfidence, &e.Type, &e.TypeConfidence,
			&e.Classification, &e.ClassificationConfidence, &e.GrapeVariety, &e.GrapeVarietyConfidence,
			&e.Size, &e.SizeConfidence, &e.Closure, &e.ClosureConfidence,
			&e.Pairings, &e.PairingsConfidence, &e.Provider, &status, &e.Error,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan enrichment")
		}
		e.Status = model.ProcessingStatus(status)
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list enrichments")
}

func (s *PostgresStore) UpsertProducts(ctx context.Context, products []model.Product) (int, error) {
	for _, p := range products {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO product (id, product_variant_id, title, country, type, classification, grape_variety, size, closure, pairings)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				product_variant_id = EXCLUDED.product_variant_id,
				title = EXCLUDED.title,
				country = EXCLUDED.country,
				type = EXCLUDED.type,
				classification = EXCLUDED.classification,
				grape_variety = EXCLUDED.grape_variety,
				size = EXCLUDED.size,
				closure = EXCLUDED.closure,
				pairings = EXCLUDED.pairings`,
			p.ID, p.ProductVariantID, p.Title, p.Country, p.Type,
			p.Classification, p.GrapeVariety, p.Size, p.Closure, p.Pairings,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: upsert product %d", p.ID)
		}
	}
	return len(products), nil
}

func (s *PostgresStore) GetProducts(ctx context.Context, ids []int) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, product_variant_id, title, country, type, classification, grape_variety, size, closure, pairings
		FROM product WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get products")
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *PostgresStore) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "postgres: count products")
	}
	return n, nil
}
