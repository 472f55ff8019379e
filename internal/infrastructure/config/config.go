package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	pgpkg "github.com/bibbank/churn-service/pkg/postgres"
)

// Model sources.
const (
	ModelSourceFile     = "file"
	ModelSourcePostgres = "postgres"
)

// Config holds all configuration for the churn service.
type Config struct {
	GRPCPort        string        `env:"GRPC_PORT" envDefault:"8090"`
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"5000"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ModelSource     string        `env:"MODEL_SOURCE" envDefault:"file"`
	ModelPath       string        `env:"MODEL_PATH" envDefault:"models/churn_forest.json"`
	ModelName       string        `env:"MODEL_NAME" envDefault:"churn_rf"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	MigrationsDir   string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	DBMaxConns      int32         `env:"DB_MAX_CONNS" envDefault:"4"`
	DBMinConns      int32         `env:"DB_MIN_CONNS" envDefault:"0"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	TLSCertFile     string        `env:"GRPC_TLS_CERT_FILE"`
	TLSKeyFile      string        `env:"GRPC_TLS_KEY_FILE"`
	RateLimit       float64       `env:"RATE_LIMIT" envDefault:"100"`
	RateBurst       int           `env:"RATE_BURST" envDefault:"200"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	TracingEnabled  bool          `env:"TRACING_ENABLED" envDefault:"false"`
	GRPCReflection  bool          `env:"GRPC_REFLECTION" envDefault:"false"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.ModelSource {
	case ModelSourceFile:
		if c.ModelPath == "" {
			return fmt.Errorf("MODEL_PATH is required when MODEL_SOURCE=%s", ModelSourceFile)
		}
	case ModelSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when MODEL_SOURCE=%s", ModelSourcePostgres)
		}
		if c.ModelName == "" {
			return fmt.Errorf("MODEL_NAME is required when MODEL_SOURCE=%s", ModelSourcePostgres)
		}
	default:
		return fmt.Errorf("unsupported MODEL_SOURCE %q (want %s or %s)", c.ModelSource, ModelSourceFile, ModelSourcePostgres)
	}

	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	if c.DBMaxConns < 0 || c.DBMinConns < 0 || (c.DBMaxConns > 0 && c.DBMinConns > c.DBMaxConns) {
		return fmt.Errorf("DB_MIN_CONNS (%d) and DB_MAX_CONNS (%d) must be non-negative with min <= max", c.DBMinConns, c.DBMaxConns)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must be non-negative, got %v", c.RateLimit)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q (want json or text)", c.LogFormat)
	}
	return nil
}

// PostgresPool returns the artifact store pool settings.
func (c *Config) PostgresPool() pgpkg.Config {
	return pgpkg.Config{
		URL:      c.DatabaseURL,
		MaxConns: c.DBMaxConns,
		MinConns: c.DBMinConns,
	}
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}
