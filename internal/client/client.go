// Package client provides HTTP and gRPC clients for the churn service.
//
// Both transports return the same DTOs and report service-side failures as
// *APIError so callers can render them without caring about the wire.
package client

import (
	"context"
	"fmt"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/domain/model"
)

// Client talks to a running churn service.
type Client interface {
	Predict(ctx context.Context, fields model.RawRequest) (dto.PredictionResponse, error)
	Schema(ctx context.Context) (dto.SchemaResponse, error)
	// Health returns the liveness status reported by the service.
	Health(ctx context.Context) (string, error)
	Close() error
}

// APIError is a failure reported by the service.
type APIError struct {
	Kind    string
	Field   string
	Message string
	// Status is the HTTP status or gRPC code name.
	Status string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s, field %s): %s", e.Status, e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Status, e.Kind, e.Message)
}
