package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PredictionMetrics implements port.MetricsRecorder with OpenTelemetry instruments.
type PredictionMetrics struct {
	predictions metric.Int64Counter
	failures    metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewPredictionMetrics registers the prediction instruments on meter.
func NewPredictionMetrics(meter metric.Meter) (*PredictionMetrics, error) {
	predictions, err := meter.Int64Counter("churn_predictions_total",
		metric.WithDescription("Successful predictions by risk label."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create predictions counter: %w", err)
	}

	failures, err := meter.Int64Counter("churn_prediction_failures_total",
		metric.WithDescription("Failed predictions by failure kind."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	latency, err := meter.Float64Histogram("churn_prediction_duration_seconds",
		metric.WithDescription("Time spent validating and scoring a request."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}

	return &PredictionMetrics{
		predictions: predictions,
		failures:    failures,
		latency:     latency,
	}, nil
}

// RecordPrediction counts a successful prediction.
func (m *PredictionMetrics) RecordPrediction(ctx context.Context, label string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("prediction", label))
	m.predictions.Add(ctx, 1, attrs)
	m.latency.Record(ctx, duration.Seconds(), attrs)
}

// RecordFailure counts a failed prediction.
func (m *PredictionMetrics) RecordFailure(ctx context.Context, kind string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
