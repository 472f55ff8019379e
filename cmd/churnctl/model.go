package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bibbank/churn-service/internal/application/usecase"
	"github.com/bibbank/churn-service/internal/infrastructure/ml"
	"github.com/bibbank/churn-service/internal/infrastructure/postgres"
	pgpkg "github.com/bibbank/churn-service/pkg/postgres"
)

const (
	modelFileFlag     = "file"
	modelNameFlag     = "name"
	databaseURLFlag   = "database-url"
	migrationsDirFlag = "migrations-dir"
)

func artifactFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     modelFileFlag,
		Usage:    "Path to the forest artifact (JSON)",
		Required: true,
	}
}

func modelCmd() *cli.Command {
	return &cli.Command{
		Name:  "model",
		Usage: "Manage stored model artifacts",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Validate a forest artifact and store it in PostgreSQL",
				UsageText: "churnctl model import --file models/churn_forest.json --database-url postgres://...",
				Flags: []cli.Flag{
					artifactFileFlag(),
					&cli.StringFlag{
						Name:  modelNameFlag,
						Usage: "Name to store the artifact under (defaults to the name inside the artifact)",
					},
					&cli.StringFlag{
						Name:    databaseURLFlag,
						Usage:   "PostgreSQL connection string",
						Sources: cli.EnvVars("DATABASE_URL"),
					},
					&cli.StringFlag{
						Name:    migrationsDirFlag,
						Usage:   "Directory with schema migrations, applied before the import (skipped when empty)",
						Value:   "migrations",
						Sources: cli.EnvVars("MIGRATIONS_DIR"),
					},
				},
				Action: cmdModelImport,
			},
			{
				Name:   "validate",
				Usage:  "Validate a forest artifact without storing it",
				Flags:  []cli.Flag{artifactFileFlag()},
				Action: cmdModelValidate,
			},
		},
	}
}

func cmdModelImport(ctx context.Context, cmd *cli.Command) error {
	dsn := cmd.String(databaseURLFlag)
	if dsn == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	payload, err := os.ReadFile(cmd.String(modelFileFlag))
	if err != nil {
		return fmt.Errorf("reading artifact: %w", err)
	}

	if dir := cmd.String(migrationsDirFlag); dir != "" {
		slog.Debug("applying migrations", "dir", dir)
		if err := pgpkg.RunMigrations(dsn, dir); err != nil {
			return err
		}
	}

	pool, err := pgpkg.NewPool(ctx, pgpkg.Config{URL: dsn})
	if err != nil {
		return err
	}
	defer pool.Close()

	importModel := usecase.NewImportModel(postgres.NewModelArtifactRepository(pool), ml.Parser{})
	info, err := importModel.Execute(ctx, cmd.String(modelNameFlag), payload)
	if err != nil {
		return err
	}

	slog.Info("model imported", "name", info.Name, "checksum", info.Checksum)
	return encode(cmd.Root().Writer, formatYAML, info)
}

func cmdModelValidate(_ context.Context, cmd *cli.Command) error {
	forest, err := ml.LoadFile(cmd.String(modelFileFlag))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "%s: %d trees, ok\n", forest.Name(), forest.Size())
	return err
}
