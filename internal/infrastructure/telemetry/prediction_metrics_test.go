package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/churn-service/internal/infrastructure/telemetry"
	"github.com/bibbank/churn-service/pkg/observability"
)

func TestPredictionMetrics_Exposition(t *testing.T) {
	m, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: "churn-service"})
	require.NoError(t, err)

	recorder, err := telemetry.NewPredictionMetrics(m.Meter())
	require.NoError(t, err)

	ctx := context.Background()
	recorder.RecordPrediction(ctx, "Churn", 2*time.Millisecond)
	recorder.RecordPrediction(ctx, "No Churn", time.Millisecond)
	recorder.RecordFailure(ctx, "missing_field")

	rec := httptest.NewRecorder()
	m.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `churn_predictions_total{`)
	assert.Contains(t, body, `prediction="Churn"`)
	assert.Contains(t, body, `kind="missing_field"`)
	assert.Contains(t, body, "churn_prediction_duration_seconds_bucket")
}
