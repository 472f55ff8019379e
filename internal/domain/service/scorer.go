package service

import (
	"context"
	"fmt"
	"math"

	"github.com/bibbank/churn-service/internal/domain/model"
	"github.com/bibbank/churn-service/internal/domain/port"
)

// ScoreRecord runs scorer on record and classifies the output. Scorer errors,
// panics and probabilities outside [0, 1] become InternalError failures so no
// fabricated probability is ever returned.
func ScoreRecord(ctx context.Context, scorer port.Scorer, record model.FeatureRecord) (result model.PredictionResult, err error) {
	if scorer == nil {
		return model.PredictionResult{}, model.NewModelUnavailableError()
	}

	defer func() {
		if r := recover(); r != nil {
			result = model.PredictionResult{}
			err = model.NewInternalError("scorer panicked", fmt.Errorf("%v", r))
		}
	}()

	p, err := scorer.Score(ctx, record)
	if err != nil {
		return model.PredictionResult{}, model.NewInternalError("scoring failed", err)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return model.PredictionResult{}, model.NewInternalError(fmt.Sprintf("scorer returned non-finite probability %v", p), nil)
	}

	return model.NewPredictionResult(p)
}
