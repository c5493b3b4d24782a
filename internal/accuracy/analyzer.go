// Package accuracy compares an execution's AI output against the
// ground-truth catalog, stratified by the model's self-reported confidence.
package accuracy

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/store"
)

// ErrNotAnalyzable reports an execution that cannot be analyzed: it failed,
// so its output is not trustworthy ground for an accuracy claim.
var ErrNotAnalyzable = eris.New("accuracy: execution not analyzable")

// Fields lists the compared attribute fields in report order. Pairings are
// excluded: the multi-valued comparison is not stable enough to score.
var Fields = []string{"country", "type", "classification", "grape_variety", "size", "closure"}

// bandRanges are the display labels for each confidence band.
var bandRanges = map[model.ConfidenceBand]string{
	model.BandPerfect: "100%",
	model.BandHigh:    "90-99%",
	model.BandMedium:  "80-89%",
	model.BandLow:     "70-79%",
}

// Analyzer builds accuracy reports from persisted executions.
type Analyzer struct {
	store store.Store
}

// NewAnalyzer creates an analyzer over the given store.
func NewAnalyzer(st store.Store) *Analyzer {
	return &Analyzer{store: st}
}

// AnalyzeExecution scores one execution against the products table.
//
// Only rows with status OK participate. Each row joins to its ground-truth
// product by product id AND title; fields whose ground truth is empty (or
// whose row has no matching product) are skipped. Values are normalized
// (lowercase, trim, punctuation stripped) before comparison, and every
// comparison is bucketed by the field's declared confidence.
func (a *Analyzer) AnalyzeExecution(ctx context.Context, executionID int64) (*model.AccuracyReport, error) {
	var (
		exec        *model.Execution
		enrichments []model.Enrichment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		exec, err = a.store.GetExecution(gctx, executionID)
		return err
	})
	g.Go(func() error {
		var err error
		enrichments, err = a.store.ListOKEnrichments(gctx, executionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if exec.Status == model.ExecutionError {
		return nil, eris.Wrapf(ErrNotAnalyzable, "execution %d failed", executionID)
	}

	products, err := a.loadProducts(ctx, enrichments)
	if err != nil {
		return nil, err
	}

	report := newReport(exec, len(enrichments))
	totalComparisons, totalMatches := 0, 0

	for i := range enrichments {
		e := &enrichments[i]
		p, ok := products[productKey{id: e.ProductID, title: e.ProductTitle}]
		if !ok {
			continue
		}

		for _, cmp := range fieldComparisons(e, p) {
			if cmp.truth == "" {
				continue
			}

			band := model.BandFor(cmp.confidence)
			match := Normalize(cmp.ai) == Normalize(cmp.truth)

			level := report.ConfidenceLevels[band]
			level.TotalFields++
			fb := level.FieldBreakdown[cmp.name]
			fb.Total++
			if match {
				level.MatchingFields++
				fb.Matches++
			}
			level.FieldBreakdown[cmp.name] = fb

			fs := report.FieldAccuracy[cmp.name]
			fs.TotalComparisons++
			cb := fs.ConfidenceBreakdown[band]
			cb.Total++
			if match {
				fs.Matches++
				cb.Matches++
			}
			fs.ConfidenceBreakdown[band] = cb

			totalComparisons++
			if match {
				totalMatches++
			}
		}
	}

	finalize(report, totalMatches, totalComparisons)
	return report, nil
}

type productKey struct {
	id    int
	title string
}

// loadProducts fetches the ground truth for the enriched rows, keyed by the
// composite join key.
func (a *Analyzer) loadProducts(ctx context.Context, enrichments []model.Enrichment) (map[productKey]model.Product, error) {
	if len(enrichments) == 0 {
		return nil, nil
	}

	seen := make(map[int]bool, len(enrichments))
	ids := make([]int, 0, len(enrichments))
	for i := range enrichments {
		if id := enrichments[i].ProductID; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	products, err := a.store.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	byKey := make(map[productKey]model.Product, len(products))
	for _, p := range products {
		byKey[productKey{id: p.ID, title: p.Title}] = p
	}
	return byKey, nil
}

type comparison struct {
	name       string
	ai         string
	truth      string
	confidence *int
}

func fieldComparisons(e *model.Enrichment, p model.Product) []comparison {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return []comparison{
		{"country", deref(e.Country), p.Country, e.CountryConfidence},
		{"type", deref(e.Type), p.Type, e.TypeConfidence},
		{"classification", deref(e.Classification), p.Classification, e.ClassificationConfidence},
		{"grape_variety", deref(e.GrapeVariety), p.GrapeVariety, e.GrapeVarietyConfidence},
		{"size", deref(e.Size), p.Size, e.SizeConfidence},
		{"closure", deref(e.Closure), p.Closure, e.ClosureConfidence},
	}
}

func newReport(exec *model.Execution, totalRecords int) *model.AccuracyReport {
	report := &model.AccuracyReport{
		ExecutionID:      exec.ID,
		ExecutionDate:    exec.ExecutionDate,
		Provider:         exec.Provider,
		TotalRecords:     totalRecords,
		ConfidenceLevels: make(map[model.ConfidenceBand]*model.ConfidenceLevelStats, 4),
		FieldAccuracy:    make(map[string]*model.FieldAccuracyStats, len(Fields)),
	}
	for _, band := range model.Bands() {
		level := &model.ConfidenceLevelStats{
			Range:          bandRanges[band],
			FieldBreakdown: make(map[string]model.MatchCounter, len(Fields)),
		}
		for _, field := range Fields {
			level.FieldBreakdown[field] = model.MatchCounter{}
		}
		report.ConfidenceLevels[band] = level
	}
	for _, field := range Fields {
		fs := &model.FieldAccuracyStats{
			ConfidenceBreakdown: make(map[model.ConfidenceBand]model.MatchCounter, 4),
		}
		for _, band := range model.Bands() {
			fs.ConfidenceBreakdown[band] = model.MatchCounter{}
		}
		report.FieldAccuracy[field] = fs
	}
	return report
}

func finalize(report *model.AccuracyReport, totalMatches, totalComparisons int) {
	for _, level := range report.ConfidenceLevels {
		level.AccuracyPercentage = percentage(level.MatchingFields, level.TotalFields)
		for field, fb := range level.FieldBreakdown {
			fb.Finalize()
			level.FieldBreakdown[field] = fb
		}
	}
	for _, fs := range report.FieldAccuracy {
		fs.AccuracyPercentage = percentage(fs.Matches, fs.TotalComparisons)
		for band, cb := range fs.ConfidenceBreakdown {
			cb.Finalize()
			fs.ConfidenceBreakdown[band] = cb
		}
	}
	report.OverallAccuracy = percentage(totalMatches, totalComparisons)
}

func percentage(matches, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(matches)/float64(total)*100 + 0.5)
}

var lowerPT = cases.Lower(language.BrazilianPortuguese)

// Normalize prepares a value for equality: Portuguese lowercasing, trimmed,
// with everything except letters, digits, underscores and spaces removed.
func Normalize(value string) string {
	lowered := lowerPT.String(strings.TrimSpace(value))
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeList splits a multi-valued field on ";" or ",", normalizes each
// entry and sorts the result. Kept for order-insensitive list comparison.
func NormalizeList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if n := Normalize(part); n != "" {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
