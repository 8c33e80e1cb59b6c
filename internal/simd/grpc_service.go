package simd

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// SimulationServiceName is the fully qualified gRPC service name.
const SimulationServiceName = "archsim.v1.SimulationService"

// SimulationServiceServer is the server API of archsim.v1.SimulationService.
type SimulationServiceServer interface {
	RunSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	InjectFailure(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompareScenarios(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OptimizeArchitecture(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StopRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SimulationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func fullMethod(name string) string {
	return "/" + SimulationServiceName + "/" + name
}

func unaryHandler(name string, call unaryCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(name),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SimulationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SimulationServiceDesc describes archsim.v1.SimulationService for grpc.Server.
var SimulationServiceDesc = grpc.ServiceDesc{
	ServiceName: SimulationServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunSimulation", Handler: unaryHandler("RunSimulation", SimulationServiceServer.RunSimulation)},
		{MethodName: "InjectFailure", Handler: unaryHandler("InjectFailure", SimulationServiceServer.InjectFailure)},
		{MethodName: "CompareScenarios", Handler: unaryHandler("CompareScenarios", SimulationServiceServer.CompareScenarios)},
		{MethodName: "OptimizeArchitecture", Handler: unaryHandler("OptimizeArchitecture", SimulationServiceServer.OptimizeArchitecture)},
		{MethodName: "CreateRun", Handler: unaryHandler("CreateRun", SimulationServiceServer.CreateRun)},
		{MethodName: "GetRun", Handler: unaryHandler("GetRun", SimulationServiceServer.GetRun)},
		{MethodName: "StopRun", Handler: unaryHandler("StopRun", SimulationServiceServer.StopRun)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "archsim/v1/simulation.proto",
}

// RegisterSimulationServiceServer attaches srv to a gRPC server.
func RegisterSimulationServiceServer(s grpc.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&SimulationServiceDesc, srv)
}
