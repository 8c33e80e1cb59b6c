package engine

import (
	"math"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/utils"
)

const (
	// idleUtilizationPercent stands in for maxUtil when nothing is a bottleneck.
	idleUtilizationPercent = 45.0
	payloadPenaltyPerKB    = 0.28
	minP50LatencyMs        = 18.0
	maxUnsaturatedErrorPct = 8.0
)

// LatencyEstimate is the latency and error view of an aggregation.
type LatencyEstimate struct {
	P50Ms            float64
	P95Ms            float64
	ErrorRatePercent float64
}

// EstimateLatency derives p50/p95 latency and the error rate from the worst
// utilization and the payload size.
func EstimateLatency(agg Aggregation, payloadKB float64) LatencyEstimate {
	maxUtil, ok := agg.MaxUtilization()
	if !ok {
		maxUtil = idleUtilizationPercent
	}

	p50 := math.Max(minP50LatencyMs,
		24+payloadKB*payloadPenaltyPerKB+math.Pow(maxUtil/100, 1.6)*190+agg.BurstFactor*6)
	p95 := p50 * (1.44 + math.Min(maxUtil/180, 0.6))

	var errorRate float64
	if agg.Saturated() {
		errorRate = utils.ClampPercent(utils.SafeRatio(agg.AdjustedDemand-agg.SystemCapacity, agg.AdjustedDemand) * 100)
	} else {
		errorRate = utils.ClampFloat64(math.Max(0, (maxUtil-88)*0.18), 0, maxUnsaturatedErrorPct)
	}

	return LatencyEstimate{P50Ms: p50, P95Ms: p95, ErrorRatePercent: errorRate}
}
