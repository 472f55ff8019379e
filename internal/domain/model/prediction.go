package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/churn-service/internal/domain/valueobject"
)

// ReportedPrecision is the number of decimal places of the reported probability.
const ReportedPrecision = 2

// PredictionResult is the successful outcome of a prediction request.
type PredictionResult struct {
	label       valueobject.RiskLabel
	probability float64
}

// NewPredictionResult classifies a raw model probability. The label is derived
// from the unrounded value.
func NewPredictionResult(probability float64) (PredictionResult, error) {
	label, err := valueobject.RiskLabelFromProbability(probability)
	if err != nil {
		return PredictionResult{}, NewInternalError("scorer returned an invalid probability", err)
	}

	return PredictionResult{
		probability: probability,
		label:       label,
	}, nil
}

// Probability returns the unrounded model output.
func (r PredictionResult) Probability() float64 {
	return r.probability
}

// RiskProbability returns the probability rounded for reporting.
func (r PredictionResult) RiskProbability() float64 {
	rounded, _ := decimal.NewFromFloat(r.probability).Round(ReportedPrecision).Float64()
	return rounded
}

// Label returns the risk label.
func (r PredictionResult) Label() valueobject.RiskLabel {
	return r.label
}
