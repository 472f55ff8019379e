package model

import (
	"fmt"
	"math"
	"strings"
)

// FeatureCount is the fixed arity of a FeatureRecord.
const FeatureCount = 16

// FeatureKind is the semantic type of a schema field.
type FeatureKind int

const (
	// KindBinary is a yes/no answer encoded as 0/1.
	KindBinary FeatureKind = iota + 1
	// KindTriState is yes/no/not-applicable encoded as 1/0/-1.
	KindTriState
	// KindCategorical is a closed set of three or four codes.
	KindCategorical
	// KindCount is a non-negative integer.
	KindCount
	// KindContinuous is a non-negative floating-point number.
	KindContinuous
)

// String returns the lower-case name of the kind.
func (k FeatureKind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindTriState:
		return "tri_state"
	case KindCategorical:
		return "categorical"
	case KindCount:
		return "count"
	case KindContinuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Choice pairs a human-readable answer with the code the model was trained on.
type Choice struct {
	Label string
	Code  int
}

// Feature describes one slot of the FeatureRecord.
type Feature struct {
	// Name is the external wire name used by requests and model artifacts.
	Name    string
	Title   string
	Kind    FeatureKind
	Choices []Choice
}

// IsNumeric reports whether the field takes a free numeric value instead of a code.
func (f Feature) IsNumeric() bool {
	return f.Kind == KindCount || f.Kind == KindContinuous
}

// AcceptsCode reports whether code belongs to the field's closed code set.
func (f Feature) AcceptsCode(code int) bool {
	for _, c := range f.Choices {
		if c.Code == code {
			return true
		}
	}
	return false
}

// CodeFor returns the code for a human-readable answer. Matching ignores case
// and surrounding whitespace.
func (f Feature) CodeFor(label string) (int, bool) {
	label = strings.TrimSpace(label)
	for _, c := range f.Choices {
		if strings.EqualFold(c.Label, label) {
			return c.Code, true
		}
	}
	return 0, false
}

// Codes returns the field's code set in declaration order.
func (f Feature) Codes() []int {
	codes := make([]int, len(f.Choices))
	for i, c := range f.Choices {
		codes[i] = c.Code
	}
	return codes
}

// Validate checks v against the field's domain. Violations are returned as an
// InvalidValue *PredictionError.
func (f Feature) Validate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewInvalidValueError(f.Name, "must be a finite number")
	}

	switch f.Kind {
	case KindContinuous:
		if v < 0 {
			return NewInvalidValueError(f.Name, "must be non-negative")
		}
	case KindCount:
		if v != math.Trunc(v) {
			return NewInvalidValueError(f.Name, "must be an integer")
		}
		if v < 0 {
			return NewInvalidValueError(f.Name, "must be non-negative")
		}
	default:
		if v != math.Trunc(v) || !f.AcceptsCode(int(v)) {
			return NewInvalidValueError(f.Name, fmt.Sprintf("must be one of %v", f.Codes()))
		}
	}
	return nil
}

var (
	yesNo = []Choice{{Label: "Yes", Code: 1}, {Label: "No", Code: 0}}

	phoneTriState = []Choice{
		{Label: "Yes", Code: 1},
		{Label: "No", Code: 0},
		{Label: "No phone service", Code: -1},
	}

	internetTriState = []Choice{
		{Label: "Yes", Code: 1},
		{Label: "No", Code: 0},
		{Label: "No internet service", Code: -1},
	}
)

// schema is the single ordered table of model inputs. The model was fit on
// features in exactly this order.
var schema = [FeatureCount]Feature{
	{Name: "gender", Title: "Gender", Kind: KindCategorical, Choices: []Choice{
		{Label: "Female", Code: 0},
		{Label: "Male", Code: 1},
	}},
	{Name: "SeniorCitizen", Title: "Senior Citizen", Kind: KindBinary, Choices: yesNo},
	{Name: "Partner", Title: "Partner", Kind: KindBinary, Choices: yesNo},
	{Name: "Dependents", Title: "Dependents", Kind: KindBinary, Choices: yesNo},
	{Name: "tenure", Title: "Tenure (Months)", Kind: KindCount},
	{Name: "MultipleLines", Title: "Multiple Lines", Kind: KindTriState, Choices: phoneTriState},
	{Name: "InternetService", Title: "Internet Service", Kind: KindCategorical, Choices: []Choice{
		{Label: "DSL", Code: 1},
		{Label: "Fiber optic", Code: 2},
		{Label: "No", Code: 0},
	}},
	{Name: "OnlineSecurity", Title: "Online Security", Kind: KindTriState, Choices: internetTriState},
	{Name: "OnlineBackup", Title: "Online Backup", Kind: KindTriState, Choices: internetTriState},
	{Name: "DeviceProtection", Title: "Device Protection", Kind: KindTriState, Choices: internetTriState},
	{Name: "TechSupport", Title: "Tech Support", Kind: KindTriState, Choices: internetTriState},
	{Name: "Contract", Title: "Contract", Kind: KindCategorical, Choices: []Choice{
		{Label: "Month-to-month", Code: 0},
		{Label: "One year", Code: 1},
		{Label: "Two year", Code: 2},
	}},
	{Name: "PaperlessBilling", Title: "Paperless Billing", Kind: KindBinary, Choices: yesNo},
	{Name: "PaymentMethod", Title: "Payment Method", Kind: KindCategorical, Choices: []Choice{
		{Label: "Electronic check", Code: 0},
		{Label: "Mailed check", Code: 1},
		{Label: "Bank transfer (automatic)", Code: 2},
		{Label: "Credit card (automatic)", Code: 3},
	}},
	{Name: "MonthlyCharges", Title: "Monthly Charges", Kind: KindContinuous},
	{Name: "TotalCharges", Title: "Total Charges", Kind: KindContinuous},
}

// Features returns a copy of the schema in model order.
func Features() []Feature {
	out := make([]Feature, FeatureCount)
	for i, f := range schema {
		f.Choices = append([]Choice(nil), f.Choices...)
		out[i] = f
	}
	return out
}

// FeatureNames returns the external field names in model order.
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// FeatureByName looks up a field by its external name.
func FeatureByName(name string) (Feature, int, bool) {
	for i, f := range schema {
		if f.Name == name {
			return f, i, true
		}
	}
	return Feature{}, -1, false
}
