package simd

import (
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

func sampleInput() models.SimulationInput {
	return models.SimulationInput{
		Components: []models.Component{
			{
				ID:       "api",
				Type:     models.ComponentAPIGateway,
				Position: models.Position{X: 1200, Y: 300},
				Capacity: models.CapacityAttributes{OpsPerSecond: 900, CPUCores: 2, MemoryGB: 4},
				Scaling:  models.ScalingAttributes{Replicas: 1, VerticalTier: models.TierMedium},
			},
			{
				ID:       "db",
				Type:     models.ComponentDatabase,
				Position: models.Position{X: 3200, Y: 300},
				Capacity: models.CapacityAttributes{OpsPerSecond: 500, CPUCores: 2, MemoryGB: 4},
				Scaling:  models.ScalingAttributes{Replicas: 1, VerticalTier: models.TierMedium},
				Stateful: true,
			},
		},
		Edges: []models.Edge{{Source: "api", Target: "db"}},
		TrafficProfile: models.TrafficProfile{
			BaselineRPS:        2800,
			PeakMultiplier:     3,
			ReadPercentage:     80,
			WritePercentage:    20,
			PayloadKB:          4,
			RegionDistribution: models.RegionDistribution{USEast: 40, USWest: 20, Europe: 30, Asia: 10},
			Burstiness:         models.BurstSpiky,
		},
	}
}

// waitForStatus polls the store until the run reaches want or the deadline passes.
func waitForStatus(t *testing.T, store *RunStore, runID string, want models.RunStatus) *RunRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec, ok := store.Get(runID)
		if ok && rec.Run.Status == want {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	rec, _ := store.Get(runID)
	if rec == nil {
		t.Fatalf("run %s not found", runID)
	}
	t.Fatalf("expected run %s to reach %s, got %s", runID, want, rec.Run.Status)
	return nil
}
