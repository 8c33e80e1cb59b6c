package failure

import "github.com/GoSim-25-26J-441/archsim-core/pkg/models"

const (
	ZoneA = "az-a"
	ZoneB = "az-b"

	// zoneBoundaryX splits the canvas into the two zones.
	zoneBoundaryX = 2500.0
)

// ZoneOf returns the availability zone of a component. Zone membership is a
// geometric proxy on the layout x-coordinate, not a deployment fact.
func ZoneOf(c models.Component) string {
	if c.Position.X <= zoneBoundaryX {
		return ZoneA
	}
	return ZoneB
}
