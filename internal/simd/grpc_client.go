package simd

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/archsim-core/internal/improvement"
	"github.com/GoSim-25-26J-441/archsim-core/internal/scenario"
)

// SimulationClient is a typed client for archsim.v1.SimulationService.
type SimulationClient struct {
	cc grpc.ClientConnInterface
}

func NewSimulationClient(cc grpc.ClientConnInterface) *SimulationClient {
	return &SimulationClient{cc: cc}
}

func (c *SimulationClient) RunSimulation(ctx context.Context, req SimulateRequest, opts ...grpc.CallOption) (*SimulateResponse, error) {
	var resp SimulateResponse
	if err := c.invoke(ctx, "RunSimulation", req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SimulationClient) InjectFailure(ctx context.Context, req InjectRequest, opts ...grpc.CallOption) (*InjectResponse, error) {
	var resp InjectResponse
	if err := c.invoke(ctx, "InjectFailure", req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SimulationClient) CompareScenarios(ctx context.Context, req CompareRequest, opts ...grpc.CallOption) (*scenario.Report, error) {
	var resp scenario.Report
	if err := c.invoke(ctx, "CompareScenarios", req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SimulationClient) OptimizeArchitecture(ctx context.Context, req OptimizeRequest, opts ...grpc.CallOption) (*improvement.OptimizationResult, error) {
	var resp improvement.OptimizationResult
	if err := c.invoke(ctx, "OptimizeArchitecture", req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SimulationClient) CreateRun(ctx context.Context, req CreateRunRequest, opts ...grpc.CallOption) (*RunResponse, error) {
	var resp RunResponse
	if err := c.invoke(ctx, "CreateRun", req, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SimulationClient) GetRun(ctx context.Context, runID string, opts ...grpc.CallOption) (*RunResponse, error) {
	var resp RunResponse
	if err := c.invoke(ctx, "GetRun", GetRunRequest{RunID: runID}, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SimulationClient) StopRun(ctx context.Context, runID string, opts ...grpc.CallOption) (*RunResponse, error) {
	var resp RunResponse
	if err := c.invoke(ctx, "StopRun", GetRunRequest{RunID: runID}, &resp, opts...); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *SimulationClient) invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return err
	}
	return fromStruct(out, resp)
}
