// Package model defines the domain records shared across the enrichment pipeline.
package model

import (
	"math"
	"time"
)

// ProcessingStatus tracks the outcome of a single enrichment attempt.
type ProcessingStatus string

const (
	StatusOK      ProcessingStatus = "OK"
	StatusError   ProcessingStatus = "Error"
	StatusPending ProcessingStatus = "Pending"
)

// ExecutionStatus tracks the rolled-up outcome of a batch execution.
type ExecutionStatus string

const (
	ExecutionPending ExecutionStatus = "Pending"
	ExecutionOK      ExecutionStatus = "OK"
	ExecutionError   ExecutionStatus = "ERROR"
)

// WineInput is one row to enrich, parsed from an uploaded CSV.
// It exists only for the duration of a processing run.
type WineInput struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// AttributeWithConfidence pairs an attribute value with the model's
// self-reported confidence. Value is either a member of the field's
// vocabulary or "" (unknown / below threshold). Confidence is always an
// integer in [0,100].
type AttributeWithConfidence struct {
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
}

// PairingsWithConfidence is the multi-valued variant used for food pairings.
// Values preserve the order the model returned them in.
type PairingsWithConfidence struct {
	Values     []string `json:"values"`
	Confidence int      `json:"confidence"`
}

// WineAttributes is the validated result of one attribute-generation call.
// Created by a provider adapter, consumed once by the orchestrator, never
// mutated afterward.
type WineAttributes struct {
	ID             int                     `json:"id"`
	Title          string                  `json:"title"`
	Country        AttributeWithConfidence `json:"country"`
	Type           AttributeWithConfidence `json:"type"`
	Classification AttributeWithConfidence `json:"classification"`
	GrapeVariety   AttributeWithConfidence `json:"grape_variety"`
	Size           AttributeWithConfidence `json:"size"`
	Closure        AttributeWithConfidence `json:"closure"`
	Pairings       PairingsWithConfidence  `json:"pairings"`
	Status         ProcessingStatus        `json:"status"`
	Error          string                  `json:"error,omitempty"`
	// Confidence is the overall confidence: provider-supplied when present,
	// otherwise the rounded mean of the seven field confidences. Nil until
	// one of those applies.
	Confidence *int `json:"confidence"`
}

// MeanConfidence returns the mean of the seven field confidences, rounded
// to the nearest integer.
func (w *WineAttributes) MeanConfidence() int {
	sum := w.Country.Confidence +
		w.Type.Confidence +
		w.Classification.Confidence +
		w.GrapeVariety.Confidence +
		w.Size.Confidence +
		w.Closure.Confidence +
		w.Pairings.Confidence
	return int(math.Round(float64(sum) / 7))
}

// Execution is one batch upload. Status moves Pending → OK/ERROR exactly once.
type Execution struct {
	ID            int64           `json:"id"`
	ExecutionDate time.Time       `json:"execution_date"`
	Provider      string          `json:"provider"`
	Status        ExecutionStatus `json:"status"`
}

// Enrichment is one persisted row per processed input row, owned by an
// execution and append-only. Attribute fields are nil when the row failed.
type Enrichment struct {
	ID                       int64            `json:"id"`
	ExecutionID              int64            `json:"execution_id"`
	ProductID                int              `json:"product_id"`
	ProductTitle             string           `json:"product_title"`
	Country                  *string          `json:"country"`
	CountryConfidence        *int             `json:"country_confidence"`
	Type                     *string          `json:"type"`
	TypeConfidence           *int             `json:"type_confidence"`
	Classification           *string          `json:"classification"`
	ClassificationConfidence *int             `json:"classification_confidence"`
	GrapeVariety             *string          `json:"grape_variety"`
	GrapeVarietyConfidence   *int             `json:"grape_variety_confidence"`
	Size                     *string          `json:"size"`
	SizeConfidence           *int             `json:"size_confidence"`
	Closure                  *string          `json:"closure"`
	ClosureConfidence        *int             `json:"closure_confidence"`
	Pairings                 *string          `json:"pairings"` // semicolon-joined
	PairingsConfidence       *int             `json:"pairings_confidence"`
	Provider                 string           `json:"provider"`
	Status                   ProcessingStatus `json:"status"`
	Error                    *string          `json:"error,omitempty"`
}

// Product is an externally-owned ground-truth catalog record, matched to
// enrichments by id and title. Read-only from the pipeline's perspective.
type Product struct {
	ID               int    `json:"id"`
	ProductVariantID *int   `json:"product_variant_id,omitempty"`
	Title            string `json:"title"`
	Country          string `json:"country"`
	Type             string `json:"type"`
	Classification   string `json:"classification"`
	GrapeVariety     string `json:"grape_variety"`
	Size             string `json:"size"`
	Closure          string `json:"closure"`
	Pairings         string `json:"pairings"`
}
