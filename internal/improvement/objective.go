package improvement

import (
	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// ObjectiveFunction scores an evaluated architecture. Lower scores are better.
type ObjectiveFunction interface {
	// Evaluate computes the objective value for an input and its result.
	Evaluate(in models.SimulationInput, result models.SimulationResult) (float64, error)

	// Name returns the name of the objective function.
	Name() string

	// Direction returns whether we're minimizing (true) or maximizing (false)
	// the underlying metric. Scores are always minimized.
	Direction() bool
}

// ObjectiveType represents the type of objective function
type ObjectiveType string

const (
	// ObjectiveMinimizeP95Latency minimizes P95 latency
	ObjectiveMinimizeP95Latency ObjectiveType = "p95_latency_ms"
	// ObjectiveMinimizeErrorRate minimizes error rate
	ObjectiveMinimizeErrorRate ObjectiveType = "error_rate"
	// ObjectiveMaximizeThroughput maximizes throughput (requests per second)
	ObjectiveMaximizeThroughput ObjectiveType = "throughput_rps"
	// ObjectiveMinimizeCost finds the smallest footprint that keeps every
	// component below the high-utilization line.
	ObjectiveMinimizeCost ObjectiveType = "cost"
)

// Footprint weights keep the search from buying resources that do not move
// the primary metric.
const (
	latencyFootprintWeight    = 0.05
	errorRateFootprintWeight  = 0.01
	throughputFootprintWeight = 0.1

	// costTargetUtilization is the utilization every component should stay under.
	costTargetUtilization = 80.0
)

// NewObjectiveFunction creates an objective function from a type string.
// An empty string selects the cost objective.
func NewObjectiveFunction(objType string) (ObjectiveFunction, error) {
	switch ObjectiveType(objType) {
	case ObjectiveMinimizeP95Latency:
		return &P95LatencyObjective{}, nil
	case ObjectiveMinimizeErrorRate:
		return &ErrorRateObjective{}, nil
	case ObjectiveMaximizeThroughput:
		return &ThroughputObjective{}, nil
	case ObjectiveMinimizeCost, "":
		return &CostObjective{}, nil
	default:
		return nil, &UnknownObjectiveError{ObjectiveType: objType}
	}
}

// Footprint is the resource size of an input: replicas weighted by the
// vertical tier multiplier.
func Footprint(in models.SimulationInput) float64 {
	units := 0.0
	for _, c := range in.Components {
		units += float64(c.Scaling.Replicas) * engine.VerticalFactor(c.Scaling.VerticalTier)
	}
	return units
}

// P95LatencyObjective minimizes P95 latency
type P95LatencyObjective struct{}

func (o *P95LatencyObjective) Name() string {
	return string(ObjectiveMinimizeP95Latency)
}

func (o *P95LatencyObjective) Direction() bool {
	return true
}

func (o *P95LatencyObjective) Evaluate(in models.SimulationInput, result models.SimulationResult) (float64, error) {
	return result.Metrics.P95LatencyMs + latencyFootprintWeight*Footprint(in), nil
}

// ErrorRateObjective minimizes error rate
type ErrorRateObjective struct{}

func (o *ErrorRateObjective) Name() string {
	return string(ObjectiveMinimizeErrorRate)
}

func (o *ErrorRateObjective) Direction() bool {
	return true
}

func (o *ErrorRateObjective) Evaluate(in models.SimulationInput, result models.SimulationResult) (float64, error) {
	return result.Metrics.ErrorRatePercent + errorRateFootprintWeight*Footprint(in), nil
}

// ThroughputObjective maximizes throughput
type ThroughputObjective struct{}

func (o *ThroughputObjective) Name() string {
	return string(ObjectiveMaximizeThroughput)
}

func (o *ThroughputObjective) Direction() bool {
	return false
}

func (o *ThroughputObjective) Evaluate(in models.SimulationInput, result models.SimulationResult) (float64, error) {
	// Negated so that lower is better.
	return -result.Metrics.ThroughputRPS + throughputFootprintWeight*Footprint(in), nil
}

// CostObjective minimizes footprint plus one point per utilization percent
// any component runs above 80%.
type CostObjective struct{}

func (o *CostObjective) Name() string {
	return string(ObjectiveMinimizeCost)
}

func (o *CostObjective) Direction() bool {
	return true
}

func (o *CostObjective) Evaluate(in models.SimulationInput, result models.SimulationResult) (float64, error) {
	if len(result.ComponentLoads) != len(in.Components) {
		return 0, &InvalidResultError{Reason: "component loads do not match the input"}
	}
	overload := 0.0
	for _, l := range result.ComponentLoads {
		if l.UtilizationPercent > costTargetUtilization {
			overload += l.UtilizationPercent - costTargetUtilization
		}
	}
	return Footprint(in) + overload, nil
}

// UnknownObjectiveError indicates an unknown objective type
type UnknownObjectiveError struct {
	ObjectiveType string
}

func (e *UnknownObjectiveError) Error() string {
	return "unknown objective type: " + e.ObjectiveType
}

// InvalidResultError indicates a result the objective cannot score
type InvalidResultError struct {
	Reason string
}

func (e *InvalidResultError) Error() string {
	return "invalid result: " + e.Reason
}
