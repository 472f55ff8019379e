//go:build integration

package postgres_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/churn-service/internal/application/usecase"
	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/port"
	"github.com/bibbank/churn-service/internal/infrastructure/ml"
	"github.com/bibbank/churn-service/internal/infrastructure/postgres"
	"github.com/bibbank/churn-service/pkg/testutil"
)

func TestModelArtifactRepository_Integration(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	pc.RunMigrations(t, filepath.Join("..", "..", "..", "migrations"))

	repo := postgres.NewModelArtifactRepository(pc.Pool)
	require.NoError(t, repo.Ping(ctx))

	payload, err := os.ReadFile(filepath.Join("..", "ml", "testdata", "forest.json"))
	require.NoError(t, err)

	t.Run("find missing artifact", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "absent")
		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrArtifactNotFound)
	})

	t.Run("save then find preserves bytes", func(t *testing.T) {
		artifact, err := model.NewModelArtifact("churn_rf", payload)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, artifact))

		found, err := repo.FindByName(ctx, "churn_rf")
		require.NoError(t, err)
		assert.Equal(t, payload, found.Payload())
		assert.Equal(t, artifact.Checksum(), found.Checksum())
		require.NoError(t, found.Verify())
	})

	t.Run("save again upserts and records the import", func(t *testing.T) {
		artifact, err := model.NewModelArtifact("churn_rf", payload)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, artifact))

		n, err := repo.ImportCount(ctx, "churn_rf")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("load model use case reads from the store", func(t *testing.T) {
		loaded, err := usecase.NewLoadModel(repo, ml.Parser{}, testLogger()).Execute(ctx, "churn_rf")
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Size())
	})
}
