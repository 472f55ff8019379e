package model

import "fmt"

// RawRequest is a loosely typed field→value mapping as received at the boundary.
type RawRequest map[string]any

// FeatureRecord is the fixed-order, fixed-arity numeric vector consumed by the
// scoring model. The zero value is not a valid record; use NewFeatureRecord.
type FeatureRecord struct {
	values [FeatureCount]float64
}

// NewFeatureRecord validates values against the schema and returns an immutable
// record. Violations are reported as InvalidValue failures naming the field.
func NewFeatureRecord(values []float64) (FeatureRecord, error) {
	if len(values) != FeatureCount {
		return FeatureRecord{}, NewInternalError(
			fmt.Sprintf("feature record requires %d values, got %d", FeatureCount, len(values)), nil)
	}

	var r FeatureRecord
	for i, v := range values {
		if err := schema[i].Validate(v); err != nil {
			return FeatureRecord{}, err
		}
		r.values[i] = v
	}

	return r, nil
}

// Values returns a copy of the record in model order.
func (r FeatureRecord) Values() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, r.values[:])
	return out
}

// Value returns the slot at position i.
func (r FeatureRecord) Value(i int) float64 {
	return r.values[i]
}

// Get returns the value of the named field.
func (r FeatureRecord) Get(name string) (float64, bool) {
	_, i, ok := FeatureByName(name)
	if !ok {
		return 0, false
	}
	return r.values[i], true
}
