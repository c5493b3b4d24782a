// Package store persists executions, enrichment records and ground-truth
// products behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/vinoteca/enrich-cli/internal/model"
)

// ErrNotFound reports a missing row.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for the enrichment pipeline.
//
// Enrichment rows are written one at a time, immediately after each input
// row resolves — never buffered into a batch transaction. Partial progress
// must survive a mid-batch crash.
type Store interface {
	// Executions
	CreateExecution(ctx context.Context, provider string) (*model.Execution, error)
	FinalizeExecution(ctx context.Context, id int64, status model.ExecutionStatus) error
	GetExecution(ctx context.Context, id int64) (*model.Execution, error)
	ListExecutions(ctx context.Context, limit int) ([]model.Execution, error)
	// DeleteExecution removes an execution and, by cascade, its enrichments.
	DeleteExecution(ctx context.Context, id int64) error

	// Enrichments (append-only per execution)
	CreateEnrichment(ctx context.Context, e *model.Enrichment) (int64, error)
	// ListEnrichments returns all rows of an execution in insertion order.
	ListEnrichments(ctx context.Context, executionID int64) ([]model.Enrichment, error)
	// ListOKEnrichments returns only rows with status OK, in insertion order.
	ListOKEnrichments(ctx context.Context, executionID int64) ([]model.Enrichment, error)

	// Ground-truth products (read-mostly reference data)
	UpsertProducts(ctx context.Context, products []model.Product) (int, error)
	GetProducts(ctx context.Context, ids []int) ([]model.Product, error)
	CountProducts(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// enrichmentColumns is the canonical column order shared by both backends.
const enrichmentColumns = `id, id_execution, product_id, product_title,
	country, country_confidence, type, type_confidence,
	classification, classification_confidence, grape_variety, grape_variety_confidence,
	size, size_confidence, closure, closure_confidence,
	pairings, pairings_confidence, provider, status, error`
