package valueobject

import "fmt"

// Severity is an immutable value object describing how a risk label should be
// presented to the person reading the prediction.
type Severity struct {
	value   string
	message string
}

var (
	SeveritySuccess = Severity{value: "SUCCESS", message: "This customer is not likely to churn. They are loyal!"}
	SeverityInfo    = Severity{value: "INFO", message: "This customer is likely to churn. Consider retention strategies."}
	SeverityWarning = Severity{value: "WARNING", message: "This customer is at high risk of churning!"}
)

// SeverityFromLabel maps a risk label to its presentation severity.
func SeverityFromLabel(label RiskLabel) (Severity, error) {
	switch {
	case label.Equal(RiskLabelChurn):
		return SeverityWarning, nil
	case label.Equal(RiskLabelLikelyToChurn):
		return SeverityInfo, nil
	case label.Equal(RiskLabelNoChurn):
		return SeveritySuccess, nil
	default:
		return Severity{}, fmt.Errorf("no severity for risk label %q", label.String())
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return s.value
}

// Message returns the advice shown alongside the label.
func (s Severity) Message() string {
	return s.message
}
