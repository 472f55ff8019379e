package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/port"
	pgutil "github.com/bibbank/churn-service/pkg/postgres"
)

// ModelArtifactRepository implements port.ModelArtifactRepository using PostgreSQL.
type ModelArtifactRepository struct {
	pool *pgxpool.Pool
}

// NewModelArtifactRepository creates a new PostgreSQL-backed artifact repository.
func NewModelArtifactRepository(pool *pgxpool.Pool) *ModelArtifactRepository {
	return &ModelArtifactRepository{pool: pool}
}

// Save upserts the artifact and records the import in one transaction.
func (r *ModelArtifactRepository) Save(ctx context.Context, artifact model.ModelArtifact) error {
	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := upsertArtifact(ctx, tx, artifact); err != nil {
			return err
		}
		return recordImport(ctx, tx, artifact)
	})
}

// FindByName retrieves the artifact stored under name.
func (r *ModelArtifactRepository) FindByName(ctx context.Context, name string) (model.ModelArtifact, error) {
	return findArtifact(ctx, r.pool, name)
}

// ImportCount returns how many times an artifact has been imported under name.
func (r *ModelArtifactRepository) ImportCount(ctx context.Context, name string) (int, error) {
	return countImports(ctx, r.pool, name)
}

// Ping reports whether the database is reachable.
func (r *ModelArtifactRepository) Ping(ctx context.Context) error {
	return pgutil.HealthCheck(ctx, r.pool)
}

func upsertArtifact(ctx context.Context, q pgutil.Querier, artifact model.ModelArtifact) error {
	_, err := q.Exec(ctx, `
		INSERT INTO model_artifacts (name, payload, checksum, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (name) DO UPDATE SET
			payload = EXCLUDED.payload,
			checksum = EXCLUDED.checksum,
			updated_at = EXCLUDED.updated_at
	`,
		artifact.Name(),
		artifact.Payload(),
		artifact.Checksum(),
		artifact.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save model artifact: %w", err)
	}
	return nil
}

func recordImport(ctx context.Context, q pgutil.Querier, artifact model.ModelArtifact) error {
	_, err := q.Exec(ctx,
		`INSERT INTO model_artifact_imports (name, checksum, imported_at) VALUES ($1, $2, $3)`,
		artifact.Name(), artifact.Checksum(), artifact.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to record model import: %w", err)
	}
	return nil
}

func findArtifact(ctx context.Context, q pgutil.Querier, name string) (model.ModelArtifact, error) {
	var (
		payload   []byte
		checksum  string
		updatedAt time.Time
	)

	err := q.QueryRow(ctx,
		`SELECT payload, checksum, updated_at FROM model_artifacts WHERE name = $1`,
		name,
	).Scan(&payload, &checksum, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ModelArtifact{}, fmt.Errorf("%w: %s", port.ErrArtifactNotFound, name)
		}
		return model.ModelArtifact{}, fmt.Errorf("failed to query model artifact: %w", err)
	}

	return model.ReconstructModelArtifact(name, payload, checksum, updatedAt), nil
}

func countImports(ctx context.Context, q pgutil.Querier, name string) (int, error) {
	var n int
	err := q.QueryRow(ctx,
		`SELECT count(*) FROM model_artifact_imports WHERE name = $1`, name,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count model imports: %w", err)
	}
	return n, nil
}
