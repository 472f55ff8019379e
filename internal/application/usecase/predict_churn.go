package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/port"
	"github.com/bibbank/churn-service/internal/domain/service"
)

const tracerName = "github.com/bibbank/churn-service/internal/application/usecase"

// PredictChurn is the use case for scoring a single customer.
type PredictChurn struct {
	encoder *service.FeatureEncoder
	scorer  port.Scorer
	metrics port.MetricsRecorder
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewPredictChurn creates a new PredictChurn use case. A nil scorer puts the
// use case in the degraded state where every request fails with
// ModelUnavailable.
func NewPredictChurn(
	encoder *service.FeatureEncoder,
	scorer port.Scorer,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
) *PredictChurn {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictChurn{
		encoder: encoder,
		scorer:  scorer,
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// ModelLoaded reports whether a scorer is available.
func (uc *PredictChurn) ModelLoaded() bool {
	return uc.scorer != nil
}

// Execute validates, encodes, scores and classifies one request.
func (uc *PredictChurn) Execute(ctx context.Context, req dto.PredictChurnRequest) (dto.PredictionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "PredictChurn.Execute")
	defer span.End()

	start := time.Now()

	// 1. Fail fast when the model never loaded.
	if uc.scorer == nil {
		return dto.PredictionResponse{}, uc.fail(ctx, span, model.NewModelUnavailableError())
	}

	// 2. Decode the loosely typed request into a FeatureRecord.
	record, err := uc.encoder.Decode(req.Fields)
	if err != nil {
		return dto.PredictionResponse{}, uc.fail(ctx, span, err)
	}

	// 3. Score and classify.
	result, err := service.ScoreRecord(ctx, uc.scorer, record)
	if err != nil {
		return dto.PredictionResponse{}, uc.fail(ctx, span, err)
	}

	label := result.Label().String()
	span.SetAttributes(
		attribute.String("churn.prediction", label),
		attribute.Float64("churn.probability", result.Probability()),
		attribute.Float64("churn.risk_probability", result.RiskProbability()),
	)
	uc.metrics.RecordPrediction(ctx, label, time.Since(start))

	return dto.FromResult(result), nil
}

// Reject reports a request the transport could not turn into a field mapping.
// A degraded service answers ModelUnavailable instead of cause.
func (uc *PredictChurn) Reject(ctx context.Context, cause error) error {
	ctx, span := uc.tracer.Start(ctx, "PredictChurn.Reject")
	defer span.End()

	if uc.scorer == nil {
		return uc.fail(ctx, span, model.NewModelUnavailableError())
	}
	return uc.fail(ctx, span, cause)
}

func (uc *PredictChurn) fail(ctx context.Context, span trace.Span, err error) error {
	pe := model.AsPredictionError(err)

	span.SetAttributes(attribute.String("churn.failure", pe.Kind.String()))
	uc.metrics.RecordFailure(ctx, pe.Kind.String())

	if pe.IsClientError() {
		span.SetStatus(codes.Error, pe.Kind.String())
		uc.logger.DebugContext(ctx, "prediction rejected",
			"kind", pe.Kind.String(),
			"field", pe.Field,
		)
		return pe
	}

	span.RecordError(pe)
	span.SetStatus(codes.Error, pe.Error())
	uc.logger.ErrorContext(ctx, "prediction failed",
		"kind", pe.Kind.String(),
		"error", pe.Error(),
	)
	return pe
}

type noopMetrics struct{}

func (noopMetrics) RecordPrediction(context.Context, string, time.Duration) {}
func (noopMetrics) RecordFailure(context.Context, string)                   {}
