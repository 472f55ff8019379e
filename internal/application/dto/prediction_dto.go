package dto

import (
	"time"

	"github.com/bibbank/churn-service/internal/domain/model"
)

// PredictChurnRequest is the input DTO for the PredictChurn use case.
type PredictChurnRequest struct {
	Fields model.RawRequest
}

// PredictionResponse is the output DTO returned after a successful prediction.
type PredictionResponse struct {
	Prediction      string  `json:"prediction"`
	RiskProbability float64 `json:"risk_probability"`
}

// ErrorResponse is the body returned for a failed prediction.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// ChoiceDescriptor describes one accepted answer of a field.
type ChoiceDescriptor struct {
	Label string `json:"label" yaml:"label"`
	Code  int    `json:"code" yaml:"code"`
}

// FieldDescriptor describes one schema field.
type FieldDescriptor struct {
	Name    string             `json:"name" yaml:"name"`
	Title   string             `json:"title" yaml:"title"`
	Kind    string             `json:"kind" yaml:"kind"`
	Choices []ChoiceDescriptor `json:"choices,omitempty" yaml:"choices,omitempty"`
	Index   int                `json:"index" yaml:"index"`
}

// SchemaResponse is the ordered field table plus the active thresholds.
type SchemaResponse struct {
	Fields     []FieldDescriptor `json:"fields" yaml:"fields"`
	Thresholds Thresholds        `json:"thresholds" yaml:"thresholds"`
}

// Thresholds are the lower bounds of the two elevated risk labels.
type Thresholds struct {
	LikelyToChurn float64 `json:"likely_to_churn" yaml:"likely_to_churn"`
	Churn         float64 `json:"churn" yaml:"churn"`
}

// ModelInfo describes an imported or loaded model artifact.
type ModelInfo struct {
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Name      string    `json:"name" yaml:"name"`
	Checksum  string    `json:"checksum" yaml:"checksum"`
	Trees     int       `json:"trees" yaml:"trees"`
}

// FromResult maps a domain prediction to the response DTO.
func FromResult(r model.PredictionResult) PredictionResponse {
	return PredictionResponse{
		RiskProbability: r.RiskProbability(),
		Prediction:      r.Label().String(),
	}
}

// FromError maps a prediction failure to the error body.
func FromError(err error) ErrorResponse {
	pe := model.AsPredictionError(err)
	return ErrorResponse{
		Error: pe.Error(),
		Kind:  pe.Kind.String(),
		Field: pe.Field,
	}
}

// FromFeatures maps the schema to its descriptor.
func FromFeatures(features []model.Feature) []FieldDescriptor {
	out := make([]FieldDescriptor, len(features))
	for i, f := range features {
		d := FieldDescriptor{
			Index: i,
			Name:  f.Name,
			Title: f.Title,
			Kind:  f.Kind.String(),
		}
		for _, c := range f.Choices {
			d.Choices = append(d.Choices, ChoiceDescriptor{Label: c.Label, Code: c.Code})
		}
		out[i] = d
	}
	return out
}
