package port

import (
	"context"
	"errors"
	"time"

	"github.com/bibbank/churn-service/internal/domain/model"
)

// ErrArtifactNotFound is returned when no artifact is stored under the requested name.
var ErrArtifactNotFound = errors.New("model artifact not found")

// ModelArtifactRepository defines the persistence port for serialized models.
type ModelArtifactRepository interface {
	// Save inserts or replaces the artifact stored under its name.
	Save(ctx context.Context, artifact model.ModelArtifact) error

	// FindByName retrieves the artifact stored under name.
	FindByName(ctx context.Context, name string) (model.ModelArtifact, error)
}

// Scorer defines the port for a loaded probabilistic binary classifier.
type Scorer interface {
	// Score returns the probability of the positive (churn) class.
	Score(ctx context.Context, record model.FeatureRecord) (float64, error)
}

// LoadedModel is a scorer decoded from a serialized artifact.
type LoadedModel interface {
	Scorer
	Name() string
	Size() int
}

// ModelParser decodes and validates a serialized artifact.
type ModelParser interface {
	Parse(payload []byte) (LoadedModel, error)
}

// MetricsRecorder receives prediction outcomes.
type MetricsRecorder interface {
	RecordPrediction(ctx context.Context, label string, duration time.Duration)
	RecordFailure(ctx context.Context, kind string)
}
