package simd

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/archsim-core/internal/scenario"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
)

// SimulationGRPCServer implements SimulationServiceServer on top of a RunExecutor.
type SimulationGRPCServer struct {
	store    *RunStore
	Executor *RunExecutor
}

var _ SimulationServiceServer = (*SimulationGRPCServer)(nil)

// NewSimulationGRPCServer creates a new SimulationGRPCServer backed by executor.
func NewSimulationGRPCServer(executor *RunExecutor) *SimulationGRPCServer {
	return &SimulationGRPCServer{
		store:    executor.Store(),
		Executor: executor,
	}
}

func (s *SimulationGRPCServer) RunSimulation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SimulateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.Executor.Simulate(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeReply(resp)
}

func (s *SimulationGRPCServer) InjectFailure(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req InjectRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.Executor.Inject(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeReply(resp)
}

func (s *SimulationGRPCServer) CompareScenarios(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CompareRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	report, err := s.Executor.CompareScenarios(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeReply(report)
}

func (s *SimulationGRPCServer) OptimizeArchitecture(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req OptimizeRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	result, err := s.Executor.Optimize(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeReply(result)
}

func (s *SimulationGRPCServer) CreateRun(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateRunRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rec, err := s.Executor.CreateRun(req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeReply(newRunResponse(rec, false))
}

func (s *SimulationGRPCServer) GetRun(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GetRunRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.Executor.GetRun(req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeReply(resp)
}

func (s *SimulationGRPCServer) StopRun(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GetRunRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	rec, err := s.Executor.Stop(req.RunID)
	if err != nil {
		return nil, grpcError(err)
	}
	logger.Info("run cancelled", "run_id", req.RunID)
	return encodeReply(newRunResponse(rec, false))
}

func encodeReply(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, ErrRunNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrRunTerminal):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrRunExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrRunIDMissing), errors.Is(err, scenario.ErrNoProfiles):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
