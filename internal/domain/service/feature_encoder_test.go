package service_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/service"
)

func validRequest() model.RawRequest {
	return model.RawRequest{
		"gender":           1,
		"SeniorCitizen":    0,
		"Partner":          1,
		"Dependents":       0,
		"tenure":           12,
		"MultipleLines":    0,
		"InternetService":  1,
		"OnlineSecurity":   0,
		"OnlineBackup":     1,
		"DeviceProtection": 0,
		"TechSupport":      0,
		"Contract":         0,
		"PaperlessBilling": 1,
		"PaymentMethod":    0,
		"MonthlyCharges":   70.35,
		"TotalCharges":     845.5,
	}
}

func requirePredictionError(t *testing.T, err error, kind model.FailureKind, field string) {
	t.Helper()
	require.Error(t, err)

	var pe *model.PredictionError
	require.True(t, errors.As(err, &pe), "expected *model.PredictionError, got %T", err)
	assert.Equal(t, kind, pe.Kind, pe.Error())
	assert.Equal(t, field, pe.Field)
}

func TestFeatureEncoder_DecodeValid(t *testing.T) {
	encoder := service.NewFeatureEncoder()

	record, err := encoder.Decode(validRequest())
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0, 1, 0, 12, 0, 1, 0, 1, 0, 0, 0, 1, 0, 70.35, 845.5}, record.Values())
}

func TestFeatureEncoder_DecodeMissingEachField(t *testing.T) {
	encoder := service.NewFeatureEncoder()

	for _, name := range model.FeatureNames() {
		t.Run(name, func(t *testing.T) {
			raw := validRequest()
			delete(raw, name)

			_, err := encoder.Decode(raw)
			requirePredictionError(t, err, model.FailureMissingField, name)
			assert.Equal(t, "missing field: "+name, err.Error())
		})
	}
}

func TestFeatureEncoder_DecodeFirstMissingInSchemaOrder(t *testing.T) {
	raw := validRequest()
	delete(raw, "TotalCharges")
	delete(raw, "Partner")
	raw["gender"] = "not a number"

	_, err := service.NewFeatureEncoder().Decode(raw)
	requirePredictionError(t, err, model.FailureMissingField, "Partner")
}

func TestFeatureEncoder_DecodeCategoricalDomains(t *testing.T) {
	encoder := service.NewFeatureEncoder()

	for _, f := range model.Features() {
		if f.IsNumeric() {
			continue
		}

		for _, code := range f.Codes() {
			t.Run(f.Name+"/in-set", func(t *testing.T) {
				raw := validRequest()
				raw[f.Name] = code

				record, err := encoder.Decode(raw)
				require.NoError(t, err)
				v, _ := record.Get(f.Name)
				assert.Equal(t, float64(code), v)
			})
		}

		for _, bad := range []int{-2, 4, 7, 100} {
			if f.AcceptsCode(bad) {
				continue
			}
			t.Run(f.Name+"/out-of-set", func(t *testing.T) {
				raw := validRequest()
				raw[f.Name] = bad

				_, err := encoder.Decode(raw)
				requirePredictionError(t, err, model.FailureInvalidValue, f.Name)
			})
		}
	}
}

func TestFeatureEncoder_DecodeGenderCodeSet(t *testing.T) {
	encoder := service.NewFeatureEncoder()

	for _, bad := range []any{2, -1, 0.5} {
		raw := validRequest()
		raw["gender"] = bad

		_, err := encoder.Decode(raw)
		requirePredictionError(t, err, model.FailureInvalidValue, "gender")
	}
}

func TestFeatureEncoder_DecodeValueTypes(t *testing.T) {
	tests := []struct {
		value   any
		name    string
		field   string
		wantErr bool
	}{
		{name: "json number", field: "tenure", value: json.Number("24")},
		{name: "numeric string", field: "tenure", value: "24"},
		{name: "padded numeric string", field: "MonthlyCharges", value: " 19.99 "},
		{name: "float for integer field", field: "Contract", value: 2.0},
		{name: "int64", field: "tenure", value: int64(3)},
		{name: "null", field: "Partner", value: nil, wantErr: true},
		{name: "boolean", field: "Partner", value: true, wantErr: true},
		{name: "word", field: "tenure", value: "twelve", wantErr: true},
		{name: "empty string", field: "TotalCharges", value: "", wantErr: true},
		{name: "negative tenure", field: "tenure", value: -1, wantErr: true},
		{name: "fractional tenure", field: "tenure", value: 1.5, wantErr: true},
		{name: "negative charges", field: "MonthlyCharges", value: -5.0, wantErr: true},
		{name: "NaN string", field: "TotalCharges", value: "NaN", wantErr: true},
		{name: "infinite", field: "TotalCharges", value: math.Inf(1), wantErr: true},
		{name: "list", field: "Contract", value: []any{1}, wantErr: true},
		{name: "bad json number", field: "tenure", value: json.Number("1e"), wantErr: true},
	}

	encoder := service.NewFeatureEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRequest()
			raw[tt.field] = tt.value

			_, err := encoder.Decode(raw)
			if tt.wantErr {
				requirePredictionError(t, err, model.FailureInvalidValue, tt.field)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFeatureEncoder_DecodeFirstInvalidInSchemaOrder(t *testing.T) {
	raw := validRequest()
	raw["TotalCharges"] = "abc"
	raw["Dependents"] = 5

	_, err := service.NewFeatureEncoder().Decode(raw)
	requirePredictionError(t, err, model.FailureInvalidValue, "Dependents")
}

func TestFeatureEncoder_DecodeIgnoresExtraKeys(t *testing.T) {
	raw := validRequest()
	raw["customerID"] = "7590-VHVEG"

	_, err := service.NewFeatureEncoder().Decode(raw)
	require.NoError(t, err)
}

func TestFeatureEncoder_DecodeNil(t *testing.T) {
	_, err := service.NewFeatureEncoder().Decode(nil)
	requirePredictionError(t, err, model.FailureMalformedInput, "")
}

func validAnswers() map[string]string {
	return map[string]string{
		"gender":           "Male",
		"SeniorCitizen":    "No",
		"Partner":          "Yes",
		"Dependents":       "No",
		"tenure":           "12",
		"MultipleLines":    "No",
		"InternetService":  "DSL",
		"OnlineSecurity":   "No",
		"OnlineBackup":     "Yes",
		"DeviceProtection": "No",
		"TechSupport":      "No",
		"Contract":         "Month-to-month",
		"PaperlessBilling": "Yes",
		"PaymentMethod":    "Electronic check",
		"MonthlyCharges":   "70.35",
		"TotalCharges":     "845.5",
	}
}

func TestFeatureEncoder_EncodeAnswers(t *testing.T) {
	encoder := service.NewFeatureEncoder()

	raw, err := encoder.EncodeAnswers(validAnswers())
	require.NoError(t, err)

	record, err := encoder.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1, 0, 12, 0, 1, 0, 1, 0, 0, 0, 1, 0, 70.35, 845.5}, record.Values())
}

func TestFeatureEncoder_EncodeAnswersNotApplicable(t *testing.T) {
	answers := validAnswers()
	answers["MultipleLines"] = "No phone service"
	answers["InternetService"] = "No"
	answers["OnlineSecurity"] = "No internet service"
	answers["TechSupport"] = "No internet service"

	raw, err := service.NewFeatureEncoder().EncodeAnswers(answers)
	require.NoError(t, err)

	assert.Equal(t, -1, raw["MultipleLines"])
	assert.Equal(t, 0, raw["InternetService"])
	assert.Equal(t, -1, raw["OnlineSecurity"])
	assert.Equal(t, -1, raw["TechSupport"])
}

func TestFeatureEncoder_EncodeAnswersBlankNumericDefaultsToZero(t *testing.T) {
	answers := validAnswers()
	delete(answers, "tenure")
	answers["TotalCharges"] = "  "

	raw, err := service.NewFeatureEncoder().EncodeAnswers(answers)
	require.NoError(t, err)

	assert.Equal(t, 0, raw["tenure"])
	assert.Equal(t, 0, raw["TotalCharges"])
}

func TestFeatureEncoder_EncodeAnswersRejections(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		answer string
		kind   model.FailureKind
		remove bool
	}{
		{name: "placeholder", field: "Contract", answer: "Select", kind: model.FailureInvalidValue},
		{name: "blank choice", field: "PaymentMethod", answer: "", kind: model.FailureInvalidValue},
		{name: "unknown choice", field: "InternetService", answer: "Satellite", kind: model.FailureInvalidValue},
		{name: "wrong not-applicable", field: "MultipleLines", answer: "No internet service", kind: model.FailureInvalidValue},
		{name: "non-numeric tenure", field: "tenure", answer: "a year", kind: model.FailureInvalidValue},
		{name: "negative charges", field: "MonthlyCharges", answer: "-1", kind: model.FailureInvalidValue},
		{name: "missing choice", field: "gender", remove: true, kind: model.FailureMissingField},
	}

	encoder := service.NewFeatureEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := validAnswers()
			if tt.remove {
				delete(answers, tt.field)
			} else {
				answers[tt.field] = tt.answer
			}

			_, err := encoder.EncodeAnswers(answers)
			requirePredictionError(t, err, tt.kind, tt.field)
		})
	}
}
