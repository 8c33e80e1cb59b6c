package engine

import "github.com/GoSim-25-26J-441/archsim-core/pkg/models"

// Run is the single entry point of the analytical engine. It is pure: the
// input is never modified and identical inputs give identical results.
//
// An empty component list is a valid "nothing drawn yet" state and yields a
// degenerate saturated result with a single critical timeline event.
func Run(in models.SimulationInput) models.SimulationResult {
	agg := Aggregate(in)
	regional := regionalPeak(agg.PeakRPS, in.TrafficProfile.RegionDistribution)

	if agg.Empty() {
		return models.SimulationResult{
			Metrics: models.SimulationMetrics{
				PeakRPS:           agg.PeakRPS,
				AdjustedDemandRPS: agg.AdjustedDemand,
				BurstFactor:       agg.BurstFactor,
				CapacityRPS:       0,
				ThroughputRPS:     0,
				ErrorRatePercent:  100,
				Saturated:         true,
			},
			Bottlenecks:     []models.Bottleneck{},
			Timeline:        invalidTopologyTimeline(),
			ComponentLoads:  []models.ComponentLoad{},
			RegionalPeakRPS: regional,
		}
	}

	latency := EstimateLatency(agg, in.TrafficProfile.PayloadKB)
	bottlenecks := agg.Bottlenecks
	if bottlenecks == nil {
		bottlenecks = []models.Bottleneck{}
	}

	return models.SimulationResult{
		Metrics: models.SimulationMetrics{
			PeakRPS:           agg.PeakRPS,
			AdjustedDemandRPS: agg.AdjustedDemand,
			BurstFactor:       agg.BurstFactor,
			CapacityRPS:       agg.SystemCapacity,
			ThroughputRPS:     agg.Throughput(),
			P50LatencyMs:      latency.P50Ms,
			P95LatencyMs:      latency.P95Ms,
			ErrorRatePercent:  latency.ErrorRatePercent,
			Saturated:         agg.Saturated(),
		},
		Bottlenecks:     bottlenecks,
		Timeline:        SynthesizeTimeline(agg),
		ComponentLoads:  agg.Loads,
		RegionalPeakRPS: regional,
	}
}

func regionalPeak(peak float64, dist models.RegionDistribution) map[string]float64 {
	if dist.Total() <= 0 {
		return nil
	}
	return map[string]float64{
		"us_east": peak * dist.USEast / 100,
		"us_west": peak * dist.USWest / 100,
		"europe":  peak * dist.Europe / 100,
		"asia":    peak * dist.Asia / 100,
	}
}
