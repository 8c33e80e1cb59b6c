package simd

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/archsim-core/internal/improvement"
	"github.com/GoSim-25-26J-441/archsim-core/internal/metrics"
	"github.com/GoSim-25-26J-441/archsim-core/internal/scenario"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// Request and response documents shared by the HTTP and gRPC surfaces.

type SimulateRequest struct {
	Input models.SimulationInput `json:"input"`
}

type SimulateResponse struct {
	Result   models.SimulationResult `json:"result"`
	CacheHit bool                    `json:"cache_hit"`
}

type InjectRequest struct {
	Input   models.SimulationInput         `json:"input"`
	Profile models.FailureInjectionProfile `json:"profile"`
	// RequireTarget turns an unknown target id into a validation error
	// instead of an empty blast radius.
	RequireTarget bool `json:"require_target,omitempty"`
}

type InjectResponse struct {
	ImpactedComponentIDs []string                  `json:"impacted_component_ids"`
	Notes                []string                  `json:"notes"`
	MutatedInput         models.SimulationInput    `json:"mutated_input"`
	Baseline             models.SimulationResult   `json:"baseline"`
	Result               models.SimulationResult   `json:"result"`
	BlastRadius          models.BlastRadiusSummary `json:"blast_radius"`
	CacheHit             bool                      `json:"cache_hit"`
}

type CompareRequest struct {
	Input    models.SimulationInput           `json:"input"`
	Profiles []models.FailureInjectionProfile `json:"profiles"`
}

type OptimizeRequest struct {
	Input models.SimulationInput `json:"input"`
	// Objective is one of p95_latency_ms, error_rate, throughput_rps or cost.
	Objective     string `json:"objective,omitempty"`
	MaxIterations int    `json:"max_iterations,omitempty"`
	MaxReplicas   int    `json:"max_replicas,omitempty"`
	// FixedTiers limits the search to replica counts.
	FixedTiers bool `json:"fixed_tiers,omitempty"`
}

type CreateRunRequest struct {
	RunID          string                          `json:"run_id,omitempty"`
	Input          models.SimulationInput          `json:"input"`
	Profile        *models.FailureInjectionProfile `json:"profile,omitempty"`
	CallbackURL    string                          `json:"callback_url,omitempty"`
	CallbackSecret string                          `json:"callback_secret,omitempty"`
}

type GetRunRequest struct {
	RunID string `json:"run_id"`
}

type RunResponse struct {
	Run     models.Run                      `json:"run"`
	Profile *models.FailureInjectionProfile `json:"profile,omitempty"`
	Outcome *models.RunOutcome              `json:"outcome,omitempty"`
}

func newRunResponse(rec *RunRecord, withOutcome bool) RunResponse {
	resp := RunResponse{Run: rec.Run, Profile: rec.Profile}
	if withOutcome {
		resp.Outcome = rec.Outcome
	}
	return resp
}

func prepareInput(in *models.SimulationInput) error {
	config.ApplyInputDefaults(in)
	if err := config.ValidateInput(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

func prepareProfile(p models.FailureInjectionProfile, in *models.SimulationInput, requireTarget bool) error {
	var target *models.SimulationInput
	if requireTarget {
		target = in
	}
	if err := config.ValidateFailureProfile(p, target); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// Simulate evaluates one architecture synchronously.
func (e *RunExecutor) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResponse, error) {
	if err := prepareInput(&req.Input); err != nil {
		return nil, err
	}
	outcome, hit, err := e.Evaluate(ctx, req.Input, nil)
	if err != nil {
		return nil, err
	}
	return &SimulateResponse{Result: *outcome.Baseline, CacheHit: hit}, nil
}

// Inject applies one failure profile and reports the perturbed run next to
// the baseline.
func (e *RunExecutor) Inject(ctx context.Context, req InjectRequest) (*InjectResponse, error) {
	if err := prepareInput(&req.Input); err != nil {
		return nil, err
	}
	if err := prepareProfile(req.Profile, &req.Input, req.RequireTarget); err != nil {
		return nil, err
	}

	outcome, hit, err := e.Evaluate(ctx, req.Input, &req.Profile)
	if err != nil {
		return nil, err
	}
	return &InjectResponse{
		ImpactedComponentIDs: outcome.Injection.ImpactedComponentIDs,
		Notes:                outcome.Injection.Notes,
		MutatedInput:         outcome.Injection.Input,
		Baseline:             *outcome.Baseline,
		Result:               *outcome.Injected,
		BlastRadius:          *outcome.BlastRadius,
		CacheHit:             hit,
	}, nil
}

// CompareScenarios validates and ranks several failure profiles.
func (e *RunExecutor) CompareScenarios(ctx context.Context, req CompareRequest) (*scenario.Report, error) {
	if err := prepareInput(&req.Input); err != nil {
		return nil, err
	}
	if len(req.Profiles) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, scenario.ErrNoProfiles)
	}
	for i, p := range req.Profiles {
		if err := prepareProfile(p, &req.Input, false); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
	}
	return e.Compare(ctx, req.Input, req.Profiles)
}

// Optimize searches for a replica and tier layout that scores better on the
// requested objective.
func (e *RunExecutor) Optimize(ctx context.Context, req OptimizeRequest) (*improvement.OptimizationResult, error) {
	if err := prepareInput(&req.Input); err != nil {
		return nil, err
	}
	objective, err := improvement.NewObjectiveFunction(req.Objective)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if req.MaxIterations < 0 || req.MaxReplicas < 0 {
		return nil, fmt.Errorf("%w: max_iterations and max_replicas must not be negative", ErrInvalidRequest)
	}

	explorer := improvement.NewDefaultExplorer().WithTiers(!req.FixedTiers)
	if req.MaxReplicas > 0 {
		explorer = explorer.WithMaxReplicas(req.MaxReplicas)
	}
	optimizer := improvement.NewOptimizer(objective, req.MaxIterations).
		WithExplorer(explorer).
		WithParallelism(e.maxParallel).
		WithProgressReporter(func(iteration int, score float64) {
			logger.Debug("optimization step", "objective", objective.Name(), "iteration", iteration, "score", score)
		})

	start := time.Now()
	result, err := optimizer.Optimize(ctx, req.Input)
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveSimulation(metrics.KindOptimization, metrics.CacheDisabled, time.Since(start), result.BestResult.Metrics.Saturated)
	logger.Info("optimization finished",
		"objective", result.Objective,
		"iterations", result.Iterations,
		"improvement_percent", result.ImprovementPercent,
		"reason", result.ConvergenceReason)
	return result, nil
}

// CreateRun registers and starts an asynchronous run.
func (e *RunExecutor) CreateRun(req CreateRunRequest) (*RunRecord, error) {
	if err := prepareInput(&req.Input); err != nil {
		return nil, err
	}
	if req.Profile != nil {
		if err := prepareProfile(*req.Profile, &req.Input, false); err != nil {
			return nil, err
		}
	}
	if req.CallbackURL != "" {
		if err := validateCallbackURL(req.CallbackURL); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	rec, err := e.store.Create(req.RunID, req.Input, req.Profile)
	if err != nil {
		return nil, err
	}
	if req.CallbackURL != "" {
		if err := e.store.SetCallback(rec.Run.ID, req.CallbackURL, req.CallbackSecret); err != nil {
			return nil, err
		}
	}
	logger.Info("run created", "run_id", rec.Run.ID, "has_profile", req.Profile != nil)

	return e.Start(rec.Run.ID)
}

// GetRun returns a run; the outcome is attached once it completed.
func (e *RunExecutor) GetRun(req GetRunRequest) (*RunResponse, error) {
	if req.RunID == "" {
		return nil, ErrRunIDMissing
	}
	rec, ok := e.store.Get(req.RunID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, req.RunID)
	}
	resp := newRunResponse(rec, true)
	return &resp, nil
}
