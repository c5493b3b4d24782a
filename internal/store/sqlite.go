package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/vinoteca/enrich-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS wine_enrichment_execution (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	execution_date DATETIME NOT NULL DEFAULT (datetime('now')),
	provider       TEXT,
	status         TEXT NOT NULL DEFAULT 'Pending'
);

CREATE TABLE IF NOT EXISTS wine_enrichment (
	id                        INTEGER PRIMARY KEY AUTOINCREMENT,
	id_execution              INTEGER NOT NULL REFERENCES wine_enrichment_execution(id) ON DELETE CASCADE,
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateExecution(ctx context.Context, provider string) (*model.Execution, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO wine_enrichment_execution (execution_date, provider, status) VALUES (?, ?, ?)`,
		now, provider, string(model.ExecutionPending),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert execution")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: execution id")
	}
	return &model.Execution{
		ID:            id,
		ExecutionDate: now,
		Provider:      provider,
		Status:        model.ExecutionPending,
	}, nil
}

func (s *SQLiteStore) FinalizeExecution(ctx context.Context, id int64, status model.ExecutionStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE wine_enrichment_execution SET status = ? WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finalize execution %d", id)
	}
	return checkRowsAffected(res, "execution", id)
}

func (s *SQLiteStore) GetExecution(ctx context.Context, id int64) (*model.Execution, error) {
	var e model.Execution
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, execution_date, provider, status FROM wine_enrichment_execution WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.ExecutionDate, &e.Provider, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "execution %d", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get execution %d", id)
	}
	e.Status = model.ExecutionStatus(status)
	return &e, nil
}

func (s *SQLiteStore) ListExecutions(ctx context.Context, limit int) ([]model.Execution, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, execution_date, provider, status FROM wine_enrichment_execution ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list executions")
	}
	defer rows.Close()

	var out []model.Execution
	for rows.Next() {
		var e model.Execution
		var status string
		if err := rows.Scan(&e.ID, &e.ExecutionDate, &e.Provider, &status); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan execution")
		}
		e.Status = model.ExecutionStatus(status)
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list executions")
}

func (s *SQLiteStore) DeleteExecution(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM wine_enrichment_execution WHERE id = ?`, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete execution %d", id)
	}
	return checkRowsAffected(res, "execution", id)
}

func (s *SQLiteStore) CreateEnrichment(ctx context.Context, e *model.Enrichment) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO wine_enrichment (
			id_execution, product_id, product_title,
			country, country_confidence, type, type_confidence,
			classification, classification_confidence, grape_variety, grape_variety_confidence,
			size, size_confidence, closure, closure_confidence,
			pairings, pairings_confidence, provider, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ExecutionID, e.ProductID, e.ProductTitle,
		e.Country, e.CountryConfidence, e.Type, e.TypeConfidence,
		e.Classification, e.ClassificationConfidence, e.GrapeVariety, e.GrapeVarietyConfidence,
		e.Size, e.SizeConfidence, e.Closure, e.ClosureConfidence,
		e.Pairings, e.PairingsConfidence, e.Provider, string(e.Status), e.Error,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert enrichment")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: enrichment id")
	}
	return id, nil
}

func (s *SQLiteStore) ListEnrichments(ctx context.Context, executionID int64) ([]model.Enrichment, error) {
	return s.listEnrichments(ctx, executionID, false)
}

func (s *SQLiteStore) ListOKEnrichments(ctx context.Context, executionID int64) ([]model.Enrichment, error) {
	return s.listEnrichments(ctx, executionID, true)
}

func (s *SQLiteStore) listEnrichments(ctx context.Context, executionID int64, okOnly bool) ([]model.Enrichment, error) {
	query := `SELECT ` + enrichmentColumns + ` FROM wine_enrichment WHERE id_execution = ?`
	args := []any{executionID}
	if okOnly {
		query += ` AND status = ?`
		args = append(args, string(model.StatusOK))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list enrichments")
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
			return nil, eris.Wrap(err, "sqlite: scan enrichment")
		}
		e.Status = model.ProcessingStatus(status)
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list enrichments")
}

func (s *SQLiteStore) UpsertProducts(ctx context.Context, products []model.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO product (id, product_variant_id, title, country, type, classification, grape_variety, size, closure, pairings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			product_variant_id = excluded.product_variant_id,
			title = excluded.title,
			country = excluded.country,
			type = excluded.type,
			classification = excluded.classification,
			grape_variety = excluded.grape_variety,
			size = excluded.size,
			closure = excluded.closure,
			pairings = excluded.pairings`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.ProductVariantID, p.Title, p.Country, p.Type,
			p.Classification, p.GrapeVariety, p.Size, p.Closure, p.Pairings,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert product %d", p.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return len(products), nil
}

func (s *SQLiteStore) GetProducts(ctx context.Context, ids []int) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_variant_id, title, country, type, classification, grape_variety, size, closure, pairings
		FROM product WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get products")
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *SQLiteStore) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count products")
	}
	return n, nil
}

// rowScanner abstracts *sql.Rows for shared scan helpers.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanProducts(rows rowScanner) ([]model.Product, error) {
	var out []model.Product
	for rows.Next() {
		var p model.Product
		var title, country, typ, classification, grape, size, closure, pairings sql.NullString
		if err := rows.Scan(
			&p.ID, &p.ProductVariantID, &title, &country, &typ,
			&classification, &grape, &size, &closure, &pairings,
		); err != nil {
			return nil, eris.Wrap(err, "store: scan product")
		}
		p.Title = title.String
		p.Country = country.String
		p.Type = typ.String
		p.Classification = classification.String
		p.GrapeVariety = grape.String
		p.Size = size.String
		p.Closure = closure.String
		p.Pairings = pairings.String
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "store: scan products")
}

// checkRowsAffected converts a zero-row update into ErrNotFound.
func checkRowsAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "store: rows affected for %s %d", entity, id)
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, fmt.Sprint(id))
	}
	return nil
}
