package improvement

import (
	"fmt"
	"strconv"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// Adjustable fields.
const (
	FieldReplicas     = "replicas"
	FieldVerticalTier = "vertical_tier"
)

// Adjustment is one change to one component.
type Adjustment struct {
	ComponentID string `json:"component_id"`
	Field       string `json:"field"`
	From        string `json:"from"`
	To          string `json:"to"`
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s %s %s -> %s", a.ComponentID, a.Field, a.From, a.To)
}

// Candidate is a neighboring input and the adjustment that produced it.
type Candidate struct {
	Input      models.SimulationInput
	Adjustment Adjustment
}

// ParameterExplorer defines strategies for exploring the parameter space
type ParameterExplorer interface {
	// GenerateNeighbors returns inputs one adjustment away from base, in a
	// deterministic order.
	GenerateNeighbors(base models.SimulationInput) []Candidate
	// Name returns the name of the exploration strategy
	Name() string
}

var tierOrder = []models.VerticalTier{models.TierSmall, models.TierMedium, models.TierLarge, models.TierXLarge}

// DefaultExplorer steps replica counts and vertical tiers of every component.
type DefaultExplorer struct {
	maxReplicas  int
	minReplicas  int
	replicaStep  int
	exploreTiers bool
}

// NewDefaultExplorer creates a new default parameter explorer
func NewDefaultExplorer() *DefaultExplorer {
	return &DefaultExplorer{
		maxReplicas:  20,
		minReplicas:  1,
		replicaStep:  1,
		exploreTiers: true,
	}
}

// WithMaxReplicas sets the maximum number of replicas to explore
func (e *DefaultExplorer) WithMaxReplicas(max int) *DefaultExplorer {
	if max >= e.minReplicas {
		e.maxReplicas = max
	}
	return e
}

// WithReplicaStep sets the step size for replica adjustments
func (e *DefaultExplorer) WithReplicaStep(step int) *DefaultExplorer {
	if step > 0 {
		e.replicaStep = step
	}
	return e
}

// WithTiers toggles vertical tier exploration.
func (e *DefaultExplorer) WithTiers(enabled bool) *DefaultExplorer {
	e.exploreTiers = enabled
	return e
}

func (e *DefaultExplorer) Name() string {
	return "default"
}

func (e *DefaultExplorer) GenerateNeighbors(base models.SimulationInput) []Candidate {
	neighbors := make([]Candidate, 0, len(base.Components)*4)
	for i := range base.Components {
		neighbors = append(neighbors, e.exploreReplicas(base, i)...)
		if e.exploreTiers {
			neighbors = append(neighbors, exploreTier(base, i)...)
		}
	}
	return neighbors
}

func (e *DefaultExplorer) exploreReplicas(base models.SimulationInput, i int) []Candidate {
	c := base.Components[i]
	current := c.Scaling.Replicas
	out := make([]Candidate, 0, 2)

	for _, next := range []int{current + e.replicaStep, current - e.replicaStep} {
		if next < e.minReplicas || next > e.maxReplicas {
			continue
		}
		neighbor := base.Clone()
		neighbor.Components[i].Scaling.Replicas = next
		out = append(out, Candidate{
			Input: neighbor,
			Adjustment: Adjustment{
				ComponentID: c.ID,
				Field:       FieldReplicas,
				From:        strconv.Itoa(current),
				To:          strconv.Itoa(next),
			},
		})
	}
	return out
}

func exploreTier(base models.SimulationInput, i int) []Candidate {
	c := base.Components[i]
	idx := tierIndex(c.Scaling.VerticalTier)
	out := make([]Candidate, 0, 2)

	for _, next := range []int{idx + 1, idx - 1} {
		if next < 0 || next >= len(tierOrder) {
			continue
		}
		neighbor := base.Clone()
		neighbor.Components[i].Scaling.VerticalTier = tierOrder[next]
		out = append(out, Candidate{
			Input: neighbor,
			Adjustment: Adjustment{
				ComponentID: c.ID,
				Field:       FieldVerticalTier,
				From:        string(tierOrder[idx]),
				To:          string(tierOrder[next]),
			},
		})
	}
	return out
}

// tierIndex treats unknown tiers as medium, like the capacity model.
func tierIndex(t models.VerticalTier) int {
	for i, known := range tierOrder {
		if t == known {
			return i
		}
	}
	return 1
}
