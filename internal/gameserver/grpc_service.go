package gameserver

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/structpb"
)

// BattleServiceName is the fully qualified gRPC service name.
const BattleServiceName = "battlesim.v1.BattleService"

// Request and response field names.
const (
	FieldCreatureA = "creature_a"
	FieldCreatureB = "creature_b"
	FieldAttacking = "attacking"
	FieldDefending = "defending"
	FieldCreature  = "creature"
	FieldReport    = "report"
)

// BattleServiceServer is the server API of BattleService. Every method takes
// and returns a google.protobuf.Struct.
type BattleServiceServer interface {
	SimulateBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTypeEffectiveness(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWeaknessesAndResistances(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCreatureReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(BattleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + BattleServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(BattleServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// BattleServiceDesc describes BattleService for grpc.ServiceRegistrar.
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: BattleServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("SimulateBattle", BattleServiceServer.SimulateBattle),
		unaryMethod("GetTypeEffectiveness", BattleServiceServer.GetTypeEffectiveness),
		unaryMethod("GetWeaknessesAndResistances", BattleServiceServer.GetWeaknessesAndResistances),
		unaryMethod("GetCreatureReport", BattleServiceServer.GetCreatureReport),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "battlesim/v1/battle.proto",
}

// RegisterBattleServiceServer registers srv with s.
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

// BattleServiceClient is a thin client for BattleService.
type BattleServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBattleServiceClient wraps cc.
func NewBattleServiceClient(cc grpc.ClientConnInterface) *BattleServiceClient {
	return &BattleServiceClient{cc: cc}
}

// Call invokes method with fields as the request and returns the report field.
func (c *BattleServiceClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (string, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return "", fmt.Errorf("building %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+BattleServiceName+"/"+method, in, out, opts...); err != nil {
		return "", err
	}
	return out.GetFields()[FieldReport].GetStringValue(), nil
}

// PartialReport returns the report a failed call carries as a status detail,
// such as the log of a battle aborted by a provider fault.
//
// Postcondition: ok is false when err carries no report detail.
func PartialReport(err error) (report string, ok bool) {
	for _, d := range status.Convert(err).Details() {
		if s, isStruct := d.(*structpb.Struct); isStruct {
			return s.GetFields()[FieldReport].GetStringValue(), true
		}
	}
	return "", false
}

// GRPCService adapts Service to BattleServiceServer.
type GRPCService struct {
	svc    *Service
	logger *zap.Logger
}

// NewGRPCService creates a GRPCService.
//
// Precondition: svc and logger must be non-nil.
func NewGRPCService(svc *Service, logger *zap.Logger) *GRPCService {
	return &GRPCService{svc: svc, logger: logger}
}

var _ BattleServiceServer = (*GRPCService)(nil)

// SimulateBattle reads creature_a and creature_b. A mid-battle fault carries
// the partial log as a Struct detail on the status.
func (g *GRPCService) SimulateBattle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text, err := g.svc.SimulateBattle(ctx, stringField(req, FieldCreatureA), stringField(req, FieldCreatureB))
	return g.respond("SimulateBattle", text, err)
}

// GetTypeEffectiveness reads attacking and defending.
func (g *GRPCService) GetTypeEffectiveness(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text, err := g.svc.TypeEffectiveness(stringField(req, FieldAttacking), stringField(req, FieldDefending))
	return g.respond("GetTypeEffectiveness", text, err)
}

// GetWeaknessesAndResistances reads creature.
func (g *GRPCService) GetWeaknessesAndResistances(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text, err := g.svc.WeaknessesAndResistances(ctx, stringField(req, FieldCreature))
	return g.respond("GetWeaknessesAndResistances", text, err)
}

// GetCreatureReport reads creature.
func (g *GRPCService) GetCreatureReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text, err := g.svc.CreatureReport(ctx, stringField(req, FieldCreature))
	return g.respond("GetCreatureReport", text, err)
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func reportStruct(text string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldReport: structpb.NewStringValue(text),
	}}
}

func (g *GRPCService) respond(method, text string, err error) (*structpb.Struct, error) {
	if err == nil {
		return reportStruct(text), nil
	}
	code := Code(err)
	g.logger.Info("request failed",
		zap.String("method", method),
		zap.Stringer("code", code),
		zap.Error(err),
	)
	st := status.New(code, UserMessage(err))
	if text != "" {
		if withDetail, derr := st.WithDetails(protoadapt.MessageV1Of(reportStruct(text))); derr == nil {
			st = withDetail
		}
	}
	return nil, st.Err()
}

// NewGRPCServer builds a gRPC server exposing BattleService and the standard
// health service, instrumented with OpenTelemetry.
//
// Postcondition: The health server reports SERVING for "" and BattleServiceName.
func NewGRPCServer(svc *Service, logger *zap.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())}, opts...)
	s := grpc.NewServer(opts...)
	RegisterBattleServiceServer(s, NewGRPCService(svc, logger))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(BattleServiceName, healthpb.HealthCheckResponse_SERVING)
	return s, hs
}

