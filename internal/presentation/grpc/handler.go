package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/application/usecase"
	"github.com/bibbank/churn-service/internal/domain/model"
)

// errorDomain identifies this service in ErrorInfo details.
const errorDomain = "churn.v1"

// Compile-time assertion that ChurnServiceHandler implements ChurnServiceServer.
var _ ChurnServiceServer = (*ChurnServiceHandler)(nil)

// ChurnServiceHandler implements the gRPC ChurnServiceServer interface.
type ChurnServiceHandler struct {
	UnimplementedChurnServiceServer
	predict *usecase.PredictChurn
	schema  *usecase.DescribeSchema
	logger  *slog.Logger
}

// NewChurnServiceHandler creates a new gRPC handler.
func NewChurnServiceHandler(
	predict *usecase.PredictChurn,
	schema *usecase.DescribeSchema,
	logger *slog.Logger,
) *ChurnServiceHandler {
	return &ChurnServiceHandler{
		predict: predict,
		schema:  schema,
		logger:  logger,
	}
}

// Predict scores one customer.
func (h *ChurnServiceHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil || req.Fields == nil {
		return nil, toStatus(h.predict.Reject(ctx, model.NewMalformedInputError("fields mapping is required")))
	}

	resp, err := h.predict.Execute(ctx, dto.PredictChurnRequest{Fields: req.Fields})
	if err != nil {
		return nil, toStatus(err)
	}

	return &PredictResponse{
		RiskProbability: resp.RiskProbability,
		Prediction:      resp.Prediction,
	}, nil
}

// DescribeSchema returns the ordered field table.
func (h *ChurnServiceHandler) DescribeSchema(_ context.Context, _ *DescribeSchemaRequest) (*DescribeSchemaResponse, error) {
	resp := h.schema.Execute()
	return &DescribeSchemaResponse{Fields: resp.Fields, Thresholds: resp.Thresholds}, nil
}

// CodeFor maps a failure kind to its gRPC status code.
func CodeFor(kind model.FailureKind) codes.Code {
	switch kind {
	case model.FailureMalformedInput, model.FailureMissingField, model.FailureInvalidValue:
		return codes.InvalidArgument
	case model.FailureModelUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// toStatus converts a prediction failure to a gRPC status carrying ErrorInfo
// and, for field errors, a BadRequest violation.
func toStatus(err error) error {
	pe := model.AsPredictionError(err)
	st := status.New(CodeFor(pe.Kind), pe.Error())

	info := &errdetails.ErrorInfo{
		Reason: pe.Kind.String(),
		Domain: errorDomain,
	}
	if pe.Field != "" {
		info.Metadata = map[string]string{"field": pe.Field}
		detailed, derr := st.WithDetails(info, &errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{
				{Field: pe.Field, Description: pe.Error()},
			},
		})
		if derr == nil {
			return detailed.Err()
		}
		return st.Err()
	}

	if detailed, derr := st.WithDetails(info); derr == nil {
		return detailed.Err()
	}
	return st.Err()
}

// FailureFromStatus recovers the failure kind and field from a status built by toStatus.
func FailureFromStatus(err error) (kind, field string) {
	st, ok := status.FromError(err)
	if !ok {
		return "", ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return info.GetReason(), info.GetMetadata()["field"]
		}
	}
	return "", ""
}
