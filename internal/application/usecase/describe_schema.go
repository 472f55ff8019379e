package usecase

import (
	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/valueobject"
)

// DescribeSchema is the use case for listing the expected request fields.
type DescribeSchema struct{}

// NewDescribeSchema creates a new DescribeSchema use case.
func NewDescribeSchema() *DescribeSchema {
	return &DescribeSchema{}
}

// Execute returns the ordered field table. Each call builds a fresh response.
func (uc *DescribeSchema) Execute() dto.SchemaResponse {
	return dto.SchemaResponse{
		Fields: dto.FromFeatures(model.Features()),
		Thresholds: dto.Thresholds{
			LikelyToChurn: valueobject.LikelyToChurnThreshold,
			Churn:         valueobject.ChurnThreshold,
		},
	}
}
