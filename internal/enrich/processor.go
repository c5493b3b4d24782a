package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/provider"
	"github.com/vinoteca/enrich-cli/internal/store"
)

// BatchResult is the outcome of one ProcessCSV run.
type BatchResult struct {
	ExecutionID int64                  `json:"execution_id"`
	Total       int                    `json:"total"`
	Successful  int                    `json:"successful"`
	Failed      int                    `json:"failed"`
	Records     []model.WineAttributes `json:"records"`
	Session     string                 `json:"session"`
	OutputPath  string                 `json:"output_path"`
}

// Processor runs the enrichment pipeline for one uploaded CSV.
type Processor struct {
	store store.Store
	gen   provider.Generator
	files *FileStore
}

// NewProcessor wires the pipeline dependencies.
func NewProcessor(st store.Store, gen provider.Generator, files *FileStore) *Processor {
	return &Processor{store: st, gen: gen, files: files}
}

// ProcessCSV parses the upload, enriches every row sequentially and
// persists each outcome as it resolves. The loop never aborts on a row
// failure: a failed row becomes a zero-confidence Error record and the run
// continues. The execution rolls up to OK only when every row succeeded.
//
// The returned records match the input row for row, in input order.
func (p *Processor) ProcessCSV(ctx context.Context, raw []byte) (*BatchResult, error) {
	inputs, err := ParseInput(raw)
	if err != nil {
		return nil, err
	}

	exec, err := p.store.CreateExecution(ctx, p.gen.Name())
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		ExecutionID: exec.ID,
		Total:       len(inputs),
		Records:     make([]model.WineAttributes, 0, len(inputs)),
	}

	for _, input := range inputs {
		record := p.enrichOne(ctx, input)

		if record.Status == model.StatusOK {
			result.Successful++
		} else {
			result.Failed++
		}

		if _, err := p.store.CreateEnrichment(ctx, toEnrichment(exec.ID, p.gen.Name(), &record)); err != nil {
			zap.L().Error("enrich: persist record",
				zap.Int64("execution_id", exec.ID),
				zap.Int("product_id", record.ID),
				zap.Error(err),
			)
		}
		result.Records = append(result.Records, record)
	}

	status := model.ExecutionOK
	if result.Failed > 0 {
		status = model.ExecutionError
	}
	if err := p.store.FinalizeExecution(ctx, exec.ID, status); err != nil {
		return nil, err
	}

	output, err := EncodeOutput(result.Records)
	if err != nil {
		return nil, err
	}
	if p.files != nil {
		session, outPath, err := p.files.WriteSession(raw, output)
		if err != nil {
			return nil, err
		}
		result.Session = session
		result.OutputPath = outPath
	}

	zap.L().Info("enrich: batch complete",
		zap.Int64("execution_id", exec.ID),
		zap.Int("total", result.Total),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// Preview enriches a single input without touching the store. A failed
// generation yields the zero-confidence placeholder instead of an error.
func (p *Processor) Preview(ctx context.Context, input model.WineInput) model.WineAttributes {
	return p.enrichOne(ctx, input)
}

func (p *Processor) enrichOne(ctx context.Context, input model.WineInput) model.WineAttributes {
	attrs, err := p.gen.GenerateOne(ctx, input)
	if err != nil {
		zap.L().Warn("enrich: generation failed",
			zap.Int("product_id", input.ID),
			zap.String("title", input.Title),
			zap.Error(err),
		)
		return provider.ErrorAttributes(input, eris.Cause(err).Error())
	}

	if attrs.Confidence == nil {
		mean := attrs.MeanConfidence()
		attrs.Confidence = &mean
	}
	return *attrs
}

// toEnrichment flattens a generated record into its persisted row. Failed
// records keep null attribute columns.
func toEnrichment(executionID int64, providerName string, r *model.WineAttributes) *model.Enrichment {
	e := &model.Enrichment{
		ExecutionID:  executionID,
		ProductID:    r.ID,
		ProductTitle: r.Title,
		Provider:     providerName,
		Status:       r.Status,
	}
	if r.Status != model.StatusOK {
		if r.Error != "" {
			msg := r.Error
			e.Error = &msg
		}
		return e
	}

	set := func(a model.AttributeWithConfidence) (*string, *int) {
		v, c := a.Value, a.Confidence
		return &v, &c
	}
	e.Country, e.CountryConfidence = set(r.Country)
	e.Type, e.TypeConfidence = set(r.Type)
	e.Classification, e.ClassificationConfidence = set(r.Classification)
	e.GrapeVariety, e.GrapeVarietyConfidence = set(r.GrapeVariety)
	e.Size, e.SizeConfidence = set(r.Size)
	e.Closure, e.ClosureConfidence = set(r.Closure)

	pairings := joinPairings(r.Pairings.Values)
	e.Pairings = &pairings
	pc := r.Pairings.Confidence
	e.PairingsConfidence = &pc
	return e
}
