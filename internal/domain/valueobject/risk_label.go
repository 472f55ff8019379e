package valueobject

import (
	"fmt"
	"math"
)

// Probability thresholds separating the three risk labels. A probability equal
// to a threshold belongs to the upper bracket.
const (
	LikelyToChurnThreshold = 0.40
	ChurnThreshold         = 0.70
)

// RiskLabel is an immutable value object representing the churn risk classification.
type RiskLabel struct {
	value string
}

var (
	RiskLabelNoChurn       = RiskLabel{value: "No Churn"}
	RiskLabelLikelyToChurn = RiskLabel{value: "Likely to Churn"}
	RiskLabelChurn         = RiskLabel{value: "Churn"}
)

// RiskLabelFromString reconstructs a RiskLabel from its string representation.
func RiskLabelFromString(s string) (RiskLabel, error) {
	switch s {
	case "No Churn":
		return RiskLabelNoChurn, nil
	case "Likely to Churn":
		return RiskLabelLikelyToChurn, nil
	case "Churn":
		return RiskLabelChurn, nil
	default:
		return RiskLabel{}, fmt.Errorf("invalid risk label: %q", s)
	}
}

// RiskLabelFromProbability classifies a churn probability in [0,1].
// Callers must pass the unrounded probability.
func RiskLabelFromProbability(p float64) (RiskLabel, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return RiskLabel{}, fmt.Errorf("probability must be within [0, 1], got %v", p)
	}

	switch {
	case p < LikelyToChurnThreshold:
		return RiskLabelNoChurn, nil
	case p < ChurnThreshold:
		return RiskLabelLikelyToChurn, nil
	default:
		return RiskLabelChurn, nil
	}
}

// String returns the string representation.
func (l RiskLabel) String() string {
	return l.value
}

// Equal checks equality with another RiskLabel.
func (l RiskLabel) Equal(other RiskLabel) bool {
	return l.value == other.value
}
