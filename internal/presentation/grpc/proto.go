package grpc

// proto.go defines the churn.v1.ChurnService service by hand. Messages are
// plain Go structs carried by the JSON codec registered in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/churn-service/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "churn.v1.ChurnService"

const (
	predictMethod        = "/" + ServiceName + "/Predict"
	describeSchemaMethod = "/" + ServiceName + "/DescribeSchema"
)

// PredictRequest carries the loosely typed field mapping.
type PredictRequest struct {
	Fields map[string]any `json:"fields"`
}

// PredictResponse mirrors the HTTP success body.
type PredictResponse struct {
	Prediction      string  `json:"prediction"`
	RiskProbability float64 `json:"risk_probability"`
}

// DescribeSchemaRequest is empty.
type DescribeSchemaRequest struct{}

// DescribeSchemaResponse lists the expected fields.
type DescribeSchemaResponse struct {
	Fields     []dto.FieldDescriptor `json:"fields"`
	Thresholds dto.Thresholds        `json:"thresholds"`
}

// ChurnServiceServer is the server API for ChurnService.
type ChurnServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	DescribeSchema(context.Context, *DescribeSchemaRequest) (*DescribeSchemaResponse, error)
	mustEmbedUnimplementedChurnServiceServer()
}

// UnimplementedChurnServiceServer provides forward-compatible default implementations.
type UnimplementedChurnServiceServer struct{}

func (UnimplementedChurnServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedChurnServiceServer) DescribeSchema(context.Context, *DescribeSchemaRequest) (*DescribeSchemaResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DescribeSchema not implemented")
}
func (UnimplementedChurnServiceServer) mustEmbedUnimplementedChurnServiceServer() {}

// RegisterChurnServiceServer registers the ChurnServiceServer with the gRPC server.
func RegisterChurnServiceServer(s grpclib.ServiceRegistrar, srv ChurnServiceServer) {
	s.RegisterService(&_ChurnService_serviceDesc, srv)
}

var _ChurnService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChurnServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _ChurnService_Predict_Handler},
		{MethodName: "DescribeSchema", Handler: _ChurnService_DescribeSchema_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "churn/v1/churn.proto",
}

func _ChurnService_Predict_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChurnServiceServer).Predict(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: predictMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChurnServiceServer).Predict(ctx, req.(*PredictRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _ChurnService_DescribeSchema_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(DescribeSchemaRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChurnServiceServer).DescribeSchema(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: describeSchemaMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChurnServiceServer).DescribeSchema(ctx, req.(*DescribeSchemaRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// ChurnServiceClient is the client API for ChurnService.
type ChurnServiceClient interface {
	Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error)
	DescribeSchema(ctx context.Context, in *DescribeSchemaRequest, opts ...grpclib.CallOption) (*DescribeSchemaResponse, error)
}

type churnServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewChurnServiceClient creates a client that speaks the JSON codec.
func NewChurnServiceClient(cc grpclib.ClientConnInterface) ChurnServiceClient {
	return &churnServiceClient{cc: cc}
}

func (c *churnServiceClient) Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error) {
	out := new(PredictResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, predictMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *churnServiceClient) DescribeSchema(ctx context.Context, in *DescribeSchemaRequest, opts ...grpclib.CallOption) (*DescribeSchemaResponse, error) {
	out := new(DescribeSchemaResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, describeSchemaMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
