package engine

import (
	"math"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/utils"
)

const (
	// replicaCoordinationFactor is the fixed overhead of running replicas side by side.
	replicaCoordinationFactor = 0.94
	// statefulPenalty models replication and consistency cost.
	statefulPenalty = 0.86
	// minCapacityRPS keeps every capacity usable as a divisor.
	minCapacityRPS = 1.0
)

// VerticalFactor returns the per-replica multiplier of a vertical tier.
// Unknown tiers count as medium.
func VerticalFactor(tier models.VerticalTier) float64 {
	switch tier {
	case models.TierSmall:
		return 0.75
	case models.TierLarge:
		return 1.45
	case models.TierXLarge:
		return 1.9
	default:
		return 1.0
	}
}

func cpuBoost(cores float64) float64 {
	return utils.ClampFloat64(0.65+cores*0.12, 0.60, 1.45)
}

func memoryBoost(gb float64) float64 {
	return utils.ClampFloat64(0.72+gb*0.045, 0.65, 1.50)
}

// EffectiveCapacity converts a component's hardware and scaling attributes
// into sustained requests per second. The result is never below 1.
func EffectiveCapacity(c models.Component) float64 {
	perReplica := c.Capacity.OpsPerSecond *
		VerticalFactor(c.Scaling.VerticalTier) *
		cpuBoost(c.Capacity.CPUCores) *
		memoryBoost(c.Capacity.MemoryGB)

	penalty := 1.0
	if c.Stateful {
		penalty = statefulPenalty
	}

	return math.Max(minCapacityRPS, perReplica*float64(c.Scaling.Replicas)*replicaCoordinationFactor*penalty)
}
