package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/domain/model"
	churngrpc "github.com/bibbank/churn-service/internal/presentation/grpc"
)

// GRPCClient calls churn.v1.ChurnService.
type GRPCClient struct {
	conn   *grpc.ClientConn
	churn  churngrpc.ChurnServiceClient
	health healthpb.HealthClient
}

var _ Client = (*GRPCClient)(nil)

// DialGRPC creates a client for addr. Nil creds dial without TLS.
func DialGRPC(addr string, creds credentials.TransportCredentials, opts ...grpc.DialOption) (*GRPCClient, error) {
	if creds == nil {
		creds = insecure.NewCredentials()
	}
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial churn service at %s: %w", addr, err)
	}

	return &GRPCClient{
		conn:   conn,
		churn:  churngrpc.NewChurnServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
	}, nil
}

// Predict calls ChurnService/Predict.
func (c *GRPCClient) Predict(ctx context.Context, fields model.RawRequest) (dto.PredictionResponse, error) {
	resp, err := c.churn.Predict(ctx, &churngrpc.PredictRequest{Fields: fields})
	if err != nil {
		return dto.PredictionResponse{}, fromStatus(err)
	}
	return dto.PredictionResponse{
		RiskProbability: resp.RiskProbability,
		Prediction:      resp.Prediction,
	}, nil
}

// Schema calls ChurnService/DescribeSchema.
func (c *GRPCClient) Schema(ctx context.Context) (dto.SchemaResponse, error) {
	resp, err := c.churn.DescribeSchema(ctx, &churngrpc.DescribeSchemaRequest{})
	if err != nil {
		return dto.SchemaResponse{}, fromStatus(err)
	}
	return dto.SchemaResponse{Fields: resp.Fields, Thresholds: resp.Thresholds}, nil
}

// Health checks the overall server status.
func (c *GRPCClient) Health(ctx context.Context) (string, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return "", fromStatus(err)
	}
	return resp.GetStatus().String(), nil
}

// Close closes the underlying connection.
func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	kind, field := churngrpc.FailureFromStatus(err)
	return &APIError{
		Status:  st.Code().String(),
		Kind:    kind,
		Field:   field,
		Message: st.Message(),
	}
}
