package improvement

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// DefaultMaxIterations bounds a search when the caller sets no limit.
const DefaultMaxIterations = 25

// scoreEpsilon is the smallest score drop that counts as an improvement.
const scoreEpsilon = 1e-9

// Optimizer implements a steepest-descent hill climb over replica counts and
// vertical tiers, scoring each neighbor with the analytic engine.
type Optimizer struct {
	objective     ObjectiveFunction
	maxIterations int
	parallelism   int
	explorer      ParameterExplorer
	convergence   ConvergenceStrategy
	progress      func(iteration int, score float64)
}

// OptimizationStep represents a single accepted move. Step 0 is the input.
type OptimizationStep struct {
	Iteration  int                      `json:"iteration"`
	Score      float64                  `json:"score"`
	Adjustment *Adjustment              `json:"adjustment,omitempty"`
	Metrics    models.SimulationMetrics `json:"metrics"`
}

// OptimizationResult contains the final optimization result
type OptimizationResult struct {
	Objective          string                   `json:"objective"`
	InitialScore       float64                  `json:"initial_score"`
	BestScore          float64                  `json:"best_score"`
	ImprovementPercent float64                  `json:"improvement_percent"`
	InitialMetrics     models.SimulationMetrics `json:"initial_metrics"`
	BestInput          models.SimulationInput   `json:"best_input"`
	BestResult         models.SimulationResult  `json:"best_result"`
	Adjustments        []Adjustment             `json:"adjustments"`
	Iterations         int                      `json:"iterations"`
	History            []OptimizationStep       `json:"history"`
	Converged          bool                     `json:"converged"`
	ConvergenceReason  string                   `json:"convergence_reason"`
}

// NewOptimizer creates a new hill-climbing optimizer
func NewOptimizer(objective ObjectiveFunction, maxIterations int) *Optimizer {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Optimizer{
		objective:     objective,
		maxIterations: maxIterations,
		parallelism:   4,
		explorer:      NewDefaultExplorer(),
		convergence:   NewCombinedStrategy(nil),
	}
}

// WithExplorer sets a custom parameter exploration strategy
func (o *Optimizer) WithExplorer(explorer ParameterExplorer) *Optimizer {
	o.explorer = explorer
	return o
}

// WithConvergence sets the early-stop strategy; nil stops only at a local
// optimum or the iteration limit.
func (o *Optimizer) WithConvergence(strategy ConvergenceStrategy) *Optimizer {
	o.convergence = strategy
	return o
}

// WithParallelism bounds concurrent neighbor evaluations.
func (o *Optimizer) WithParallelism(n int) *Optimizer {
	if n > 0 {
		o.parallelism = n
	}
	return o
}

// WithProgressReporter is called after every accepted move.
func (o *Optimizer) WithProgressReporter(fn func(iteration int, score float64)) *Optimizer {
	o.progress = fn
	return o
}

type scored struct {
	score  float64
	result models.SimulationResult
	err    error
}

func (o *Optimizer) evaluate(in models.SimulationInput) scored {
	result := engine.Run(in)
	score, err := o.objective.Evaluate(in, result)
	return scored{score: score, result: result, err: err}
}

// Optimize searches for a better input starting from initial. The returned
// result does not depend on evaluation order.
func (o *Optimizer) Optimize(ctx context.Context, initial models.SimulationInput) (*OptimizationResult, error) {
	if o.objective == nil {
		return nil, errors.New("objective function is required")
	}

	start := o.evaluate(initial)
	if start.err != nil {
		return nil, fmt.Errorf("failed to evaluate initial configuration: %w", start.err)
	}

	current := initial.Clone()
	currentEval := start
	history := []OptimizationStep{{Iteration: 0, Score: start.score, Metrics: start.result.Metrics}}

	finish := func(iterations int, converged bool, reason string) *OptimizationResult {
		return &OptimizationResult{
			Objective:          o.objective.Name(),
			InitialScore:       start.score,
			BestScore:          currentEval.score,
			ImprovementPercent: GetImprovementPercentage(start.score, currentEval.score),
			InitialMetrics:     start.result.Metrics,
			BestInput:          current,
			BestResult:         currentEval.result,
			Adjustments:        DiffInputs(initial, current),
			Iterations:         iterations,
			History:            history,
			Converged:          converged,
			ConvergenceReason:  reason,
		}
	}

	for iteration := 1; iteration <= o.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		neighbors := o.explorer.GenerateNeighbors(current)
		if len(neighbors) == 0 {
			return finish(iteration-1, true, "no valid neighbors"), nil
		}

		evals, err := o.evaluateAll(ctx, neighbors)
		if err != nil {
			return nil, err
		}

		best := -1
		for i, ev := range evals {
			if ev.err != nil {
				continue
			}
			if best < 0 || ev.score < evals[best].score {
				best = i
			}
		}
		if best < 0 || evals[best].score >= currentEval.score-scoreEpsilon {
			return finish(iteration-1, true, "local optimum: no neighbor improves the score"), nil
		}

		current = neighbors[best].Input
		currentEval = evals[best]
		adj := neighbors[best].Adjustment
		history = append(history, OptimizationStep{
			Iteration:  iteration,
			Score:      currentEval.score,
			Adjustment: &adj,
			Metrics:    currentEval.result.Metrics,
		})
		if o.progress != nil {
			o.progress(iteration, currentEval.score)
		}

		if o.convergence != nil {
			if converged, reason := o.convergence.CheckConvergence(history); converged {
				return finish(iteration, true, reason), nil
			}
		}
	}

	return finish(o.maxIterations, false, "max iterations reached"), nil
}

func (o *Optimizer) evaluateAll(ctx context.Context, neighbors []Candidate) ([]scored, error) {
	evals := make([]scored, len(neighbors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i := range neighbors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evals[i] = o.evaluate(neighbors[i].Input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return evals, nil
}
