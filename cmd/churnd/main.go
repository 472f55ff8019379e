package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/churn-service/internal/application/usecase"
	"github.com/bibbank/churn-service/internal/domain/port"
	"github.com/bibbank/churn-service/internal/domain/service"
	"github.com/bibbank/churn-service/internal/infrastructure/config"
	"github.com/bibbank/churn-service/internal/infrastructure/ml"
	"github.com/bibbank/churn-service/internal/infrastructure/postgres"
	"github.com/bibbank/churn-service/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/churn-service/internal/presentation/grpc"
	"github.com/bibbank/churn-service/internal/presentation/rest"
	"github.com/bibbank/churn-service/pkg/observability"
	pgpkg "github.com/bibbank/churn-service/pkg/postgres"
)

const serviceName = "churn-service"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		slog.Error("churn-service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: serviceName,
		Environment: cfg.Environment,
	})

	logger.Info("starting churn-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"model_source", cfg.ModelSource,
	)

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.OTLPEndpoint,
			SampleRatio: 1,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	metrics, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:       serviceName,
		RuntimeCollectors: true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = metrics.Provider.Shutdown(context.Background()) }()

	predictionMetrics, err := telemetry.NewPredictionMetrics(metrics.Meter())
	if err != nil {
		return err
	}

	// Model loading. A load failure leaves the service running in the
	// degraded state rather than exiting.
	var (
		scorer port.Scorer
		checks []rest.ReadinessCheck
	)
	switch cfg.ModelSource {
	case config.ModelSourcePostgres:
		pool, err := connectStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := postgres.NewModelArtifactRepository(pool)
		checks = append(checks, rest.ReadinessCheck{Name: "database", Check: repo.Ping})

		loaded, err := usecase.NewLoadModel(repo, ml.Parser{}, logger).Execute(ctx, cfg.ModelName)
		if err != nil {
			logger.Error("failed to load model, serving in degraded mode", "name", cfg.ModelName, "error", err)
		} else {
			scorer = loaded
		}
	default:
		forest, err := ml.LoadFile(cfg.ModelPath)
		if err != nil {
			logger.Error("failed to load model, serving in degraded mode", "path", cfg.ModelPath, "error", err)
		} else {
			logger.Info("model loaded", "name", forest.Name(), "trees", forest.Size(), "path", cfg.ModelPath)
			scorer = forest
		}
	}

	// Wire use cases.
	predictChurnUC := usecase.NewPredictChurn(service.NewFeatureEncoder(), scorer, predictionMetrics, logger)
	describeSchemaUC := usecase.NewDescribeSchema()

	// gRPC server.
	grpcHandler := grpcpresentation.NewChurnServiceHandler(predictChurnUC, describeSchemaUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		Reflection:  cfg.GRPCReflection,
		ModelLoaded: predictChurnUC.ModelLoaded(),
	}, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	var limiter *rest.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = rest.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Predict: predictChurnUC,
			Schema:  describeSchemaUC,
			Logger:  logger,
			Metrics: metrics.Handler,
			Limiter: limiter,
			Service: serviceName,
			Checks:  checks,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("churn-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"model_loaded", predictChurnUC.ModelLoaded(),
	)

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down churn-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("churn-service stopped")
	return serveErr
}

// connectStore opens the artifact store and applies pending migrations.
func connectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if err := pgpkg.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		return nil, err
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgpkg.NewPool(dbCtx, cfg.PostgresPool())
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")
	return pool, nil
}
