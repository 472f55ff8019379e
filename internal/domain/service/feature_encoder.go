package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bibbank/churn-service/internal/domain/model"
)

// placeholderChoice is the unselected option shown by form front ends.
const placeholderChoice = "Select"

// FeatureEncoder turns loosely typed requests and human-readable answers into
// validated FeatureRecords.
type FeatureEncoder struct {
	features []model.Feature
}

// NewFeatureEncoder creates a new FeatureEncoder over the fixed schema.
func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{features: model.Features()}
}

// Decode strictly decodes a pre-encoded request. The first missing field in
// schema order wins over any invalid value; among invalid values the first in
// schema order is reported. Keys outside the schema are ignored.
func (e *FeatureEncoder) Decode(raw model.RawRequest) (model.FeatureRecord, error) {
	if raw == nil {
		return model.FeatureRecord{}, model.NewMalformedInputError("request must be a mapping of field names to values")
	}

	for _, f := range e.features {
		if _, ok := raw[f.Name]; !ok {
			return model.FeatureRecord{}, model.NewMissingFieldError(f.Name)
		}
	}

	values := make([]float64, len(e.features))
	for i, f := range e.features {
		v, err := coerceNumber(f, raw[f.Name])
		if err != nil {
			return model.FeatureRecord{}, err
		}
		if err := f.Validate(v); err != nil {
			return model.FeatureRecord{}, err
		}
		values[i] = v
	}

	return model.NewFeatureRecord(values)
}

// EncodeAnswers maps human-readable answers ("Yes", "Fiber optic", "12") to a
// pre-encoded request. Blank tenure and charges default to 0; blank or
// placeholder choices are rejected.
func (e *FeatureEncoder) EncodeAnswers(answers map[string]string) (model.RawRequest, error) {
	raw := make(model.RawRequest, len(e.features))
	for _, f := range e.features {
		answer, ok := answers[f.Name]
		answer = strings.TrimSpace(answer)

		if f.IsNumeric() {
			if answer == "" {
				raw[f.Name] = 0
				continue
			}
			n, err := strconv.ParseFloat(answer, 64)
			if err != nil {
				return nil, model.NewInvalidValueError(f.Name, fmt.Sprintf("cannot parse %q as a number", answer))
			}
			if err := f.Validate(n); err != nil {
				return nil, err
			}
			raw[f.Name] = n
			continue
		}

		if !ok {
			return nil, model.NewMissingFieldError(f.Name)
		}
		if answer == "" || strings.EqualFold(answer, placeholderChoice) {
			return nil, model.NewInvalidValueError(f.Name, "no option selected")
		}
		code, found := f.CodeFor(answer)
		if !found {
			return nil, model.NewInvalidValueError(f.Name,
				fmt.Sprintf("unknown option %q, expected one of %s", answer, labels(f)))
		}
		raw[f.Name] = code
	}

	return raw, nil
}

// coerceNumber converts a decoded wire value to float64. Numeric strings are
// accepted; booleans and nulls are not.
func coerceNumber(f model.Feature, value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, model.NewInvalidValueError(f.Name, "value is null")
	case bool:
		return 0, model.NewInvalidValueError(f.Name, "must be a number, got boolean")
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, model.NewInvalidValueError(f.Name, fmt.Sprintf("cannot parse %q as a number", v.String()))
		}
		return n, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, model.NewInvalidValueError(f.Name, "must not be empty")
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, model.NewInvalidValueError(f.Name, fmt.Sprintf("cannot parse %q as a number", v))
		}
		return n, nil
	default:
		return 0, model.NewInvalidValueError(f.Name, fmt.Sprintf("unsupported value type %T", value))
	}
}

func labels(f model.Feature) string {
	out := make([]string, len(f.Choices))
	for i, c := range f.Choices {
		out[i] = strconv.Quote(c.Label)
	}
	return strings.Join(out, ", ")
}
