package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/application/usecase"
	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/service"
	"github.com/bibbank/churn-service/internal/infrastructure/ml"
)

// --- Mock implementations ---

type mockScorer struct {
	scoreFunc func(ctx context.Context, record model.FeatureRecord) (float64, error)
	calls     int
	mu        sync.Mutex
}

func (m *mockScorer) Score(ctx context.Context, record model.FeatureRecord) (float64, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.scoreFunc(ctx, record)
}

type mockMetrics struct {
	predictions []string
	failures    []string
	mu          sync.Mutex
}

func (m *mockMetrics) RecordPrediction(_ context.Context, label string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, label)
}

func (m *mockMetrics) RecordFailure(_ context.Context, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, kind)
}

// --- Tests ---

func exampleRequest() dto.PredictChurnRequest {
	return dto.PredictChurnRequest{Fields: model.RawRequest{
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
	}}
}

func fixedScorer(p float64) *mockScorer {
	return &mockScorer{scoreFunc: func(context.Context, model.FeatureRecord) (float64, error) {
		return p, nil
	}}
}

func fixtureForest(t *testing.T) *ml.Forest {
	t.Helper()
	forest, err := ml.LoadFile(filepath.Join("..", "..", "infrastructure", "ml", "testdata", "forest.json"))
	require.NoError(t, err)
	return forest
}

func TestPredictChurn_Execute(t *testing.T) {
	t.Run("scores the example request with the fixture forest", func(t *testing.T) {
		metrics := &mockMetrics{}
		uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), fixtureForest(t), metrics, nil)

		resp, err := uc.Execute(context.Background(), exampleRequest())
		require.NoError(t, err)

		assert.Equal(t, 0.68, resp.RiskProbability)
		assert.Equal(t, "Likely to Churn", resp.Prediction)
		assert.Equal(t, []string{"Likely to Churn"}, metrics.predictions)
		assert.Empty(t, metrics.failures)
	})

	t.Run("label follows the unrounded probability", func(t *testing.T) {
		uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), fixedScorer(0.6999), nil, nil)

		resp, err := uc.Execute(context.Background(), exampleRequest())
		require.NoError(t, err)

		assert.Equal(t, 0.7, resp.RiskProbability)
		assert.Equal(t, "Likely to Churn", resp.Prediction)
	})

	t.Run("boundaries", func(t *testing.T) {
		tests := []struct {
			label       string
			probability float64
		}{
			{"No Churn", 0.0},
			{"No Churn", 0.39999},
			{"Likely to Churn", 0.40},
			{"Likely to Churn", 0.69999},
			{"Churn", 0.70},
			{"Churn", 1.0},
		}
		for _, tt := range tests {
			uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), fixedScorer(tt.probability), nil, nil)
			resp, err := uc.Execute(context.Background(), exampleRequest())
			require.NoError(t, err)
			assert.Equal(t, tt.label, resp.Prediction, "probability %v", tt.probability)
		}
	})

	t.Run("missing field is reported before scoring", func(t *testing.T) {
		scorer := fixedScorer(0.5)
		metrics := &mockMetrics{}
		uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), scorer, metrics, nil)

		req := exampleRequest()
		delete(req.Fields, "PaymentMethod")

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)

		var pe *model.PredictionError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, model.FailureMissingField, pe.Kind)
		assert.Equal(t, "PaymentMethod", pe.Field)
		assert.Equal(t, 0, scorer.calls)
		assert.Equal(t, []string{"missing_field"}, metrics.failures)
	})

	t.Run("invalid value", func(t *testing.T) {
		uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), fixedScorer(0.5), nil, nil)

		req := exampleRequest()
		req.Fields["InternetService"] = 3

		_, err := uc.Execute(context.Background(), req)
		pe := model.AsPredictionError(err)
		assert.Equal(t, model.FailureInvalidValue, pe.Kind)
		assert.Equal(t, "InternetService", pe.Field)
	})

	t.Run("scorer error becomes internal error", func(t *testing.T) {
		scorer := &mockScorer{scoreFunc: func(context.Context, model.FeatureRecord) (float64, error) {
			return 0, errors.New("corrupt model")
		}}
		metrics := &mockMetrics{}
		uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), scorer, metrics, nil)

		resp, err := uc.Execute(context.Background(), exampleRequest())
		require.Error(t, err)
		assert.Equal(t, dto.PredictionResponse{}, resp)
		assert.Equal(t, model.FailureInternal, model.AsPredictionError(err).Kind)
		assert.Contains(t, err.Error(), "corrupt model")
		assert.Equal(t, []string{"internal"}, metrics.failures)
	})
}

func TestPredictChurn_ModelUnavailable(t *testing.T) {
	metrics := &mockMetrics{}
	uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), nil, metrics, nil)
	assert.False(t, uc.ModelLoaded())

	// Even a malformed request fails with ModelUnavailable.
	for _, req := range []dto.PredictChurnRequest{exampleRequest(), {Fields: model.RawRequest{}}} {
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrModelUnavailable)
		assert.Equal(t, model.FailureModelUnavailable, model.AsPredictionError(err).Kind)
	}
	assert.Equal(t, []string{"model_unavailable", "model_unavailable"}, metrics.failures)
}

func TestPredictChurn_Reject(t *testing.T) {
	cause := model.NewMalformedInputError("request body is not valid JSON")

	t.Run("loaded model keeps the cause", func(t *testing.T) {
		metrics := &mockMetrics{}
		uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), fixedScorer(0.5), metrics, nil)

		err := uc.Reject(context.Background(), cause)
		assert.Equal(t, model.FailureMalformedInput, model.AsPredictionError(err).Kind)
		assert.Equal(t, []string{"malformed_input"}, metrics.failures)
	})

	t.Run("degraded service reports model unavailable", func(t *testing.T) {
		metrics := &mockMetrics{}
		uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), nil, metrics, nil)

		err := uc.Reject(context.Background(), cause)
		assert.ErrorIs(t, err, model.ErrModelUnavailable)
		assert.Equal(t, []string{"model_unavailable"}, metrics.failures)
	})
}

func TestPredictChurn_ConcurrentRequests(t *testing.T) {
	uc := usecase.NewPredictChurn(service.NewFeatureEncoder(), fixtureForest(t), &mockMetrics{}, nil)
	require.True(t, uc.ModelLoaded())

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			resp, err := uc.Execute(context.Background(), exampleRequest())
			if err != nil {
				return err
			}
			if resp.RiskProbability != 0.68 {
				return errors.New("unexpected probability")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
