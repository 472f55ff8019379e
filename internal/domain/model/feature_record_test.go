package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/churn-service/internal/domain/model"
)

func validValues() []float64 {
	return []float64{1, 0, 1, 0, 12, 0, 1, 0, 1, 0, 0, 0, 1, 0, 70.35, 845.5}
}

func TestNewFeatureRecord_Valid(t *testing.T) {
	record, err := model.NewFeatureRecord(validValues())
	require.NoError(t, err)

	assert.Equal(t, validValues(), record.Values())
	assert.Equal(t, 12.0, record.Value(4))

	v, ok := record.Get("MonthlyCharges")
	require.True(t, ok)
	assert.Equal(t, 70.35, v)

	_, ok = record.Get("unknown")
	assert.False(t, ok)
}

func TestNewFeatureRecord_ValuesIsCopy(t *testing.T) {
	record, err := model.NewFeatureRecord(validValues())
	require.NoError(t, err)

	values := record.Values()
	values[0] = 99
	assert.Equal(t, 1.0, record.Value(0))
}

func TestNewFeatureRecord_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		field string
		index int
		value float64
	}{
		{name: "gender outside code set", field: "gender", index: 0, value: 2},
		{name: "binary negative", field: "Partner", index: 2, value: -1},
		{name: "tenure fractional", field: "tenure", index: 4, value: 1.5},
		{name: "tenure negative", field: "tenure", index: 4, value: -3},
		{name: "tri-state out of range", field: "OnlineSecurity", index: 7, value: 2},
		{name: "internet service fractional", field: "InternetService", index: 6, value: 1.2},
		{name: "payment method out of range", field: "PaymentMethod", index: 13, value: 4},
		{name: "monthly charges negative", field: "MonthlyCharges", index: 14, value: -0.01},
		{name: "total charges NaN", field: "TotalCharges", index: 15, value: math.NaN()},
		{name: "total charges infinite", field: "TotalCharges", index: 15, value: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validValues()
			values[tt.index] = tt.value

			_, err := model.NewFeatureRecord(values)
			require.Error(t, err)

			var pe *model.PredictionError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, model.FailureInvalidValue, pe.Kind)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestNewFeatureRecord_WrongArity(t *testing.T) {
	_, err := model.NewFeatureRecord([]float64{1, 2, 3})
	require.Error(t, err)

	pe := model.AsPredictionError(err)
	assert.Equal(t, model.FailureInternal, pe.Kind)
	assert.Contains(t, err.Error(), "requires 16 values, got 3")
}
