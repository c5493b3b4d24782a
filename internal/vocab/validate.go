package vocab

import (
	"encoding/json"
	"math"
	"strconv"

	"go.uber.org/zap"
)

// ValidateEnum returns value when it is a member of set, else "".
// A rejected value is logged, never surfaced as an error: one hallucinated
// field from a probabilistic model must not fail an otherwise-valid record.
func ValidateEnum(value string, set []string) string {
	if value == "" {
		return ""
	}
	for _, member := range set {
		if value == member {
			return value
		}
	}
	zap.L().Warn("vocab: value outside vocabulary, dropping",
		zap.String("value", value),
	)
	return ""
}

// ValidateMultipleEnum filters values down to the members of set,
// preserving input order. Duplicates are kept as returned.
func ValidateMultipleEnum(values []string, set []string) []string {
	valid := make([]string, 0, len(values))
	for _, v := range values {
		if ValidateEnum(v, set) != "" {
			valid = append(valid, v)
		}
	}
	return valid
}

// ValidateConfidence coerces a raw confidence value from a provider into an
// integer in [0,100]. Non-numeric input, NaN, negatives and values above 100
// all degrade to 0; in-range floats are rounded to the nearest integer.
// Models occasionally return confidences as quoted strings, so those are
// parsed too.
func ValidateConfidence(raw any) int {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			zap.L().Debug("vocab: non-numeric confidence", zap.String("raw", v))
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || f < 0 || f > 100 {
		return 0
	}
	return int(math.Round(f))
}
