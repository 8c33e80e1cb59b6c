package improvement

import (
	"math"
	"strconv"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// DiffInputs lists the net replica and tier changes from before to after,
// in component order. Components are matched by id.
func DiffInputs(before, after models.SimulationInput) []Adjustment {
	out := make([]Adjustment, 0)
	for _, a := range after.Components {
		idx := before.FindComponent(a.ID)
		if idx < 0 {
			continue
		}
		b := before.Components[idx]
		if b.Scaling.Replicas != a.Scaling.Replicas {
			out = append(out, Adjustment{
				ComponentID: a.ID,
				Field:       FieldReplicas,
				From:        strconv.Itoa(b.Scaling.Replicas),
				To:          strconv.Itoa(a.Scaling.Replicas),
			})
		}
		if tierIndex(b.Scaling.VerticalTier) != tierIndex(a.Scaling.VerticalTier) {
			out = append(out, Adjustment{
				ComponentID: a.ID,
				Field:       FieldVerticalTier,
				From:        string(tierOrder[tierIndex(b.Scaling.VerticalTier)]),
				To:          string(tierOrder[tierIndex(a.Scaling.VerticalTier)]),
			})
		}
	}
	return out
}

// GetImprovementPercentage returns how much lower score2 is than score1, as a
// percentage of |score1|. Zero when score1 is zero.
func GetImprovementPercentage(score1, score2 float64) float64 {
	if score1 == 0 {
		return 0
	}
	return (score1 - score2) / math.Abs(score1) * 100
}
