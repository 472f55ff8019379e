package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/port"
)

// LoadModel is the use case for reading the scoring model from the artifact store.
type LoadModel struct {
	repo   port.ModelArtifactRepository
	parser port.ModelParser
	logger *slog.Logger
}

// NewLoadModel creates a new LoadModel use case.
func NewLoadModel(repo port.ModelArtifactRepository, parser port.ModelParser, logger *slog.Logger) *LoadModel {
	return &LoadModel{repo: repo, parser: parser, logger: logger}
}

// Execute fetches, verifies and parses the named artifact.
func (uc *LoadModel) Execute(ctx context.Context, name string) (port.LoadedModel, error) {
	artifact, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find model artifact %q: %w", name, err)
	}
	if err := artifact.Verify(); err != nil {
		return nil, fmt.Errorf("failed to verify model artifact: %w", err)
	}

	loaded, err := uc.parser.Parse(artifact.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %q: %w", name, err)
	}

	uc.logger.InfoContext(ctx, "model loaded from artifact store",
		"name", artifact.Name(),
		"checksum", artifact.Checksum(),
		"trees", loaded.Size(),
	)
	return loaded, nil
}

// ImportModel is the use case for validating and storing a serialized model.
type ImportModel struct {
	repo   port.ModelArtifactRepository
	parser port.ModelParser
}

// NewImportModel creates a new ImportModel use case.
func NewImportModel(repo port.ModelArtifactRepository, parser port.ModelParser) *ImportModel {
	return &ImportModel{repo: repo, parser: parser}
}

// Execute parses payload and upserts it under name. When name is empty the
// artifact's own name is used.
func (uc *ImportModel) Execute(ctx context.Context, name string, payload []byte) (dto.ModelInfo, error) {
	loaded, err := uc.parser.Parse(payload)
	if err != nil {
		return dto.ModelInfo{}, fmt.Errorf("failed to parse model artifact: %w", err)
	}
	if name == "" {
		name = loaded.Name()
	}

	artifact, err := model.NewModelArtifact(name, payload)
	if err != nil {
		return dto.ModelInfo{}, fmt.Errorf("failed to create model artifact: %w", err)
	}
	if err := uc.repo.Save(ctx, artifact); err != nil {
		return dto.ModelInfo{}, fmt.Errorf("failed to save model artifact: %w", err)
	}

	return dto.ModelInfo{
		Name:      artifact.Name(),
		Checksum:  artifact.Checksum(),
		UpdatedAt: artifact.UpdatedAt(),
		Trees:     loaded.Size(),
	}, nil
}
