package rest

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bibbank/churn-service/internal/application/usecase"
	"github.com/bibbank/churn-service/internal/domain/model"
)

// RouterConfig wires the HTTP surface of the service.
type RouterConfig struct {
	Predict *usecase.PredictChurn
	Schema  *usecase.DescribeSchema
	Logger  *slog.Logger
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Limiter throttles non-probe routes when set.
	Limiter *RateLimiter
	Service string
	// Checks are consulted by /readyz in addition to model availability.
	Checks []ReadinessCheck
}

// NewRouter builds the instrumented HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	checks := append([]ReadinessCheck{ModelReadinessCheck(cfg.Predict)}, cfg.Checks...)

	mux := http.NewServeMux()
	NewHealthHandler(cfg.Logger, cfg.Service, checks...).RegisterRoutes(mux)
	NewPredictionHandler(cfg.Predict, cfg.Schema, cfg.Logger).RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	instrumented := otelhttp.NewHandler(mux, "churn-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return Chain(instrumented,
		RecoverMiddleware(cfg.Logger),
		RequestIDMiddleware(),
		LoggingMiddleware(cfg.Logger),
		RateLimitMiddleware(cfg.Limiter),
	)
}

// ModelReadinessCheck reports ModelUnavailable while the service is degraded.
func ModelReadinessCheck(predict *usecase.PredictChurn) ReadinessCheck {
	return ReadinessCheck{
		Name: "model",
		Check: func(context.Context) error {
			if !predict.ModelLoaded() {
				return model.ErrModelUnavailable
			}
			return nil
		},
	}
}
