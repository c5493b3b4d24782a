package provider

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/vocab"
)

// rawAttribute is the wire shape of a single attribute in a model response.
// Value and Confidence are left loosely typed: models return numbers as
// strings, strings as numbers, and occasionally null.
type rawAttribute struct {
	Value      any `json:"value"`
	Confidence any `json:"confidence"`
}

// rawPairings is the wire shape of the multi-valued harmonização field.
// Values may arrive as an array or as a single string.
type rawPairings struct {
	Values     any `json:"values"`
	Confidence any `json:"confidence"`
}

// rawRecord is one product's attributes as returned by a model. Field names
// follow the response contract embedded in the prompt.
type rawRecord struct {
	ID            any          `json:"id"`
	Nome          string       `json:"nome"`
	Pais          rawAttribute `json:"pais"`
	Tipo          rawAttribute `json:"tipo"`
	Classificacao rawAttribute `json:"classificacao"`
	Uva           rawAttribute `json:"uva"`
	Tamanho       rawAttribute `json:"tamanho"`
	Tampa         rawAttribute `json:"tampa"`
	Harmonizacao  rawPairings  `json:"harmonizacao"`
}

// cleanJSON extracts a JSON object or array from text that may contain
// markdown code fences, surrounding prose, or a double-escaped JSON string.
func cleanJSON(text string, array bool) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	opener, closer := "{", "}"
	if array {
		opener, closer = "[", "]"
	}

	start := strings.Index(text, opener)
	end := strings.LastIndex(text, closer)
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// unescapeJSON undoes one level of string escaping for models that return
// the JSON document itself as an escaped string literal
// (e.g. {\"pais\": ...}).
func unescapeJSON(text string) (string, bool) {
	if !strings.Contains(text, `\"`) {
		return "", false
	}
	unquoted, err := strconv.Unquote(`"` + text + `"`)
	if err != nil {
		return "", false
	}
	return unquoted, true
}

// parseSingle decodes a one-object model response.
func parseSingle(text string) (*rawRecord, error) {
	cleaned := cleanJSON(text, false)

	var rec rawRecord
	if err := json.Unmarshal([]byte(cleaned), &rec); err == nil {
		return &rec, nil
	} else if unescaped, ok := unescapeJSON(cleaned); ok {
		if err2 := json.Unmarshal([]byte(cleanJSON(unescaped, false)), &rec); err2 == nil {
			return &rec, nil
		}
		return nil, eris.Wrap(err, "provider: parse response object")
	} else {
		return nil, eris.Wrap(err, "provider: parse response object")
	}
}

// parseMany decodes an array model response.
func parseMany(text string) ([]rawRecord, error) {
	cleaned := cleanJSON(text, true)

	var recs []rawRecord
	if err := json.Unmarshal([]byte(cleaned), &recs); err == nil {
		return recs, nil
	} else if unescaped, ok := unescapeJSON(cleaned); ok {
		if err2 := json.Unmarshal([]byte(cleanJSON(unescaped, true)), &recs); err2 == nil {
			return recs, nil
		}
		return nil, eris.Wrap(err, "provider: parse response array")
	} else {
		return nil, eris.Wrap(err, "provider: parse response array")
	}
}

// validateRecord runs every field of a raw record through the vocabulary
// validator and echoes id/title from the input when the model's echo is
// unusable. Validation never fails: out-of-vocabulary values degrade to "".
func validateRecord(raw *rawRecord, input model.WineInput) model.WineAttributes {
	attrs := model.WineAttributes{
		ID:    cleanID(raw.ID, input.ID),
		Title: raw.Nome,
		Country: model.AttributeWithConfidence{
			Value:      vocab.ValidateEnum(stringValue(raw.Pais.Value), vocab.Countries),
			Confidence: vocab.ValidateConfidence(raw.Pais.Confidence),
		},
		Type: model.AttributeWithConfidence{
			Value:      vocab.ValidateEnum(stringValue(raw.Tipo.Value), vocab.WineTypes),
			Confidence: vocab.ValidateConfidence(raw.Tipo.Confidence),
		},
		Classification: model.AttributeWithConfidence{
			Value:      vocab.ValidateEnum(stringValue(raw.Classificacao.Value), vocab.Classifications),
			Confidence: vocab.ValidateConfidence(raw.Classificacao.Confidence),
		},
		GrapeVariety: model.AttributeWithConfidence{
			Value:      vocab.ValidateEnum(stringValue(raw.Uva.Value), vocab.GrapeVarieties),
			Confidence: vocab.ValidateConfidence(raw.Uva.Confidence),
		},
		Size: model.AttributeWithConfidence{
			Value:      vocab.ValidateEnum(stringValue(raw.Tamanho.Value), vocab.Sizes),
			Confidence: vocab.ValidateConfidence(raw.Tamanho.Confidence),
		},
		Closure: model.AttributeWithConfidence{
			Value:      vocab.ValidateEnum(stringValue(raw.Tampa.Value), vocab.Closures),
			Confidence: vocab.ValidateConfidence(raw.Tampa.Confidence),
		},
		Pairings: model.PairingsWithConfidence{
			Values:     vocab.ValidateMultipleEnum(stringValues(raw.Harmonizacao.Values), vocab.WinePairings),
			Confidence: vocab.ValidateConfidence(raw.Harmonizacao.Confidence),
		},
		Status: model.StatusOK,
	}

	if attrs.Title == "" {
		attrs.Title = input.Title
	}

	return attrs
}

// cleanID strips brackets and quotes from a model's id echo and parses it;
// the input id wins when the echo is unusable.
func cleanID(raw any, fallback int) int {
	var s string
	switch v := raw.(type) {
	case float64:
		return int(v)
	case string:
		s = v
	default:
		return fallback
	}

	s = strings.Trim(strings.TrimSpace(s), `[]"'`)
	id, err := strconv.Atoi(s)
	if err != nil {
		zap.L().Debug("provider: unparseable id echo", zap.String("raw", s))
		return fallback
	}
	return id
}

func stringValue(raw any) string {
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}

// stringValues accepts either a JSON array of strings or a bare string.
func stringValues(raw any) []string {
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{strings.TrimSpace(v)}
	default:
		return nil
	}
}

// matchResults pairs parsed records with their inputs, by echoed id first
// and position second, so GenerateMany always returns one record per input
// in input order. Inputs with no usable record get the error placeholder.
func matchResults(recs []rawRecord, inputs []model.WineInput) []model.WineAttributes {
	byID := make(map[int]*rawRecord, len(recs))
	for i := range recs {
		if id := cleanID(recs[i].ID, 0); id != 0 {
			byID[id] = &recs[i]
		}
	}

	out := make([]model.WineAttributes, len(inputs))
	for i, input := range inputs {
		rec := byID[input.ID]
		if rec == nil && i < len(recs) {
			rec = &recs[i]
		}
		if rec == nil {
			out[i] = ErrorAttributes(input, "no record in model response")
			continue
		}
		out[i] = validateRecord(rec, input)
	}
	return out
}
