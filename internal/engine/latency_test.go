package engine

import (
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

func aggregationWithUtil(util, demand, capacity, burst float64) Aggregation {
	agg := Aggregation{
		AdjustedDemand: demand,
		SystemCapacity: capacity,
		BurstFactor:    burst,
		Loads:          []models.ComponentLoad{{ComponentID: "x"}},
	}
	if util > 0 {
		agg.Bottlenecks = []models.Bottleneck{{ComponentID: "x", UtilizationPercent: util}}
	}
	return agg
}

func TestEstimateLatencyIdleFallback(t *testing.T) {
	est := EstimateLatency(aggregationWithUtil(0, 100, 1000, 1.0), 0)

	expectedP50 := 24 + math.Pow(0.45, 1.6)*190 + 6
	if !almostEqual(est.P50Ms, expectedP50) {
		t.Errorf("Expected p50 %f, got %f", expectedP50, est.P50Ms)
	}
	if !almostEqual(est.P95Ms, expectedP50*(1.44+0.25)) {
		t.Errorf("Expected p95 %f, got %f", expectedP50*1.69, est.P95Ms)
	}
	if est.ErrorRatePercent != 0 {
		t.Errorf("Expected no errors below 88%% utilization, got %f", est.ErrorRatePercent)
	}
}

func TestEstimateLatencyPayloadPenalty(t *testing.T) {
	small := EstimateLatency(aggregationWithUtil(0, 100, 1000, 1.0), 0)
	large := EstimateLatency(aggregationWithUtil(0, 100, 1000, 1.0), 100)
	if !almostEqual(large.P50Ms-small.P50Ms, 28) {
		t.Errorf("Expected 100KB to add 28ms to p50, got %f", large.P50Ms-small.P50Ms)
	}
}

func TestEstimateLatencyP95MultiplierCap(t *testing.T) {
	est := EstimateLatency(aggregationWithUtil(500, 100, 1000, 1.0), 0)
	if !almostEqual(est.P95Ms, est.P50Ms*2.04) {
		t.Errorf("Expected p95 multiplier capped at 2.04, got %f", est.P95Ms/est.P50Ms)
	}
}

func TestEstimateLatencyUnsaturatedErrors(t *testing.T) {
	tests := []struct {
		name     string
		util     float64
		expected float64
	}{
		{"below knee", 85, 0},
		{"past knee", 95, (95 - 88) * 0.18},
		{"capped at eight percent", 200, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := EstimateLatency(aggregationWithUtil(tt.util, 100, 1000, 1.0), 0)
			if !almostEqual(est.ErrorRatePercent, tt.expected) {
				t.Errorf("Expected error rate %f, got %f", tt.expected, est.ErrorRatePercent)
			}
		})
	}
}

func TestEstimateLatencySaturatedErrors(t *testing.T) {
	est := EstimateLatency(aggregationWithUtil(300, 1000, 250, 1.2), 0)
	if !almostEqual(est.ErrorRatePercent, 75) {
		t.Errorf("Expected 75%% error rate, got %f", est.ErrorRatePercent)
	}
}

func TestEstimateLatencyP95AboveP50(t *testing.T) {
	for _, util := range []float64{0, 80, 100, 150, 1000} {
		est := EstimateLatency(aggregationWithUtil(util, 100, 50, 1.45), 12)
		if est.P95Ms <= est.P50Ms {
			t.Errorf("util=%f: expected p95 > p50, got %f <= %f", util, est.P95Ms, est.P50Ms)
		}
		if est.P50Ms < 18 {
			t.Errorf("util=%f: expected p50 >= 18, got %f", util, est.P50Ms)
		}
	}
}
