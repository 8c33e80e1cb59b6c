package engine

import (
	"math"
	"sort"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

const (
	// bottleneckThresholdPercent is the utilization at which a component is reported.
	bottleneckThresholdPercent = 80.0

	reasonOverCapacity = "demand exceeds capacity"
	reasonNearCapacity = "approaching saturation"
)

// Aggregation is the system-wide view built from every component.
type Aggregation struct {
	PeakRPS        float64
	BurstFactor    float64
	AdjustedDemand float64
	SystemCapacity float64
	Bottlenecks    []models.Bottleneck
	Loads          []models.ComponentLoad
}

// BurstFactor returns the headroom multiplier of a traffic shape.
// Unknown shapes count as steady.
func BurstFactor(b models.Burstiness) float64 {
	switch b {
	case models.BurstSpiky:
		return 1.2
	case models.BurstExtreme:
		return 1.45
	default:
		return 1.0
	}
}

// ClassifySeverity grades a utilization percentage.
func ClassifySeverity(utilizationPercent float64) models.Severity {
	switch {
	case utilizationPercent >= 140:
		return models.SeverityCritical
	case utilizationPercent >= 110:
		return models.SeverityHigh
	case utilizationPercent >= 90:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func bottleneckReason(utilizationPercent float64) string {
	if utilizationPercent >= 100 {
		return reasonOverCapacity
	}
	return reasonNearCapacity
}

// Aggregate runs every component through the capacity and demand models and
// keeps the tightest normalized capacity as the system ceiling.
func Aggregate(in models.SimulationInput) Aggregation {
	traffic := in.TrafficProfile
	agg := Aggregation{
		PeakRPS:     traffic.BaselineRPS * traffic.PeakMultiplier,
		BurstFactor: BurstFactor(traffic.Burstiness),
	}
	agg.AdjustedDemand = agg.PeakRPS * agg.BurstFactor

	if len(in.Components) == 0 {
		return agg
	}

	systemCap := math.Inf(1)
	agg.Loads = make([]models.ComponentLoad, 0, len(in.Components))
	for _, c := range in.Components {
		capacity := EffectiveCapacity(c)
		weight := DemandWeight(c.Type, traffic)
		required := math.Max(1, agg.AdjustedDemand*weight)

		systemCap = math.Min(systemCap, capacity/weight)
		utilization := required / capacity * 100

		agg.Loads = append(agg.Loads, models.ComponentLoad{
			ComponentID:        c.ID,
			ComponentType:      c.Type,
			CapacityRPS:        capacity,
			DemandWeight:       weight,
			RequiredRPS:        required,
			UtilizationPercent: utilization,
		})

		if utilization >= bottleneckThresholdPercent {
			agg.Bottlenecks = append(agg.Bottlenecks, models.Bottleneck{
				ComponentID:        c.ID,
				ComponentType:      c.Type,
				UtilizationPercent: utilization,
				RequiredRPS:        required,
				CapacityRPS:        capacity,
				Severity:           ClassifySeverity(utilization),
				Reason:             bottleneckReason(utilization),
			})
		}
	}
	agg.SystemCapacity = systemCap

	// Stable so equal utilizations keep input order and output stays reproducible.
	sort.SliceStable(agg.Bottlenecks, func(i, j int) bool {
		return agg.Bottlenecks[i].UtilizationPercent > agg.Bottlenecks[j].UtilizationPercent
	})

	return agg
}

// Empty reports whether the aggregation was built from an empty topology.
func (a Aggregation) Empty() bool {
	return a.Loads == nil
}

// Saturated reports whether adjusted demand exceeds the system ceiling.
func (a Aggregation) Saturated() bool {
	return a.Empty() || a.AdjustedDemand > a.SystemCapacity
}

// Throughput is the served rate: adjusted demand capped by the system
// ceiling, and never more than the declared peak.
func (a Aggregation) Throughput() float64 {
	if a.Empty() {
		return 0
	}
	served := math.Min(a.AdjustedDemand, a.SystemCapacity)
	return math.Max(0, math.Min(served, a.PeakRPS))
}

// MaxUtilization returns the top bottleneck's utilization, if any.
func (a Aggregation) MaxUtilization() (float64, bool) {
	if len(a.Bottlenecks) == 0 {
		return 0, false
	}
	return a.Bottlenecks[0].UtilizationPercent, true
}
