package failure

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/utils"
)

const (
	DefaultLagMs           = 250.0
	DefaultSurgeMultiplier = 2.0

	// lagMsPerPayloadKB converts injected lag into extra payload, the only
	// latency lever the model exposes.
	lagMsPerPayloadKB = 15.0
	// surgePeakDamping is how much of a surge also stretches the peak multiplier.
	surgePeakDamping = 0.35
)

// Apply clones the input and perturbs the clone according to the profile.
// The caller's input is never touched. A target id that matches no component
// is not an error: the result simply has no impacted components.
func Apply(in models.SimulationInput, profile models.FailureInjectionProfile) models.InjectionResult {
	out := models.InjectionResult{
		Input:                in.Clone(),
		ImpactedComponentIDs: []string{},
		Notes:                []string{},
	}

	switch profile.Mode {
	case models.FailureNodeDown:
		applyNodeDown(&out, profile.TargetComponentID)
	case models.FailureAZDown:
		applyAZDown(&out, profile.AZName)
	case models.FailureDependencyLag:
		applyDependencyLag(&out, profile.TargetComponentID, profile.LagMs)
	case models.FailureTrafficSurge:
		applyTrafficSurge(&out, profile.SurgeMultiplier)
	default:
		out.Notes = append(out.Notes, fmt.Sprintf("unknown failure mode %q; input left unchanged", profile.Mode))
	}

	return out
}

func applyNodeDown(out *models.InjectionResult, targetID string) {
	idx := out.Input.FindComponent(targetID)
	if idx < 0 {
		out.Notes = append(out.Notes, fmt.Sprintf("node-down target %q not found; nothing changed", targetID))
		return
	}

	c := &out.Input.Components[idx]
	c.Capacity.OpsPerSecond = 1
	c.Capacity.CPUCores *= 0.10
	c.Capacity.MemoryGB *= 0.15
	c.Scaling.Replicas = 1

	out.ImpactedComponentIDs = append(out.ImpactedComponentIDs, c.ID)
	out.Notes = append(out.Notes, fmt.Sprintf("%s taken down: throughput forced to 1 op/s on a single degraded replica", c.ID))
}

func applyAZDown(out *models.InjectionResult, zone string) {
	for i := range out.Input.Components {
		c := &out.Input.Components[i]
		if ZoneOf(*c) != zone {
			continue
		}
		c.Capacity.OpsPerSecond *= 0.28
		c.Capacity.CPUCores *= 0.6
		c.Capacity.MemoryGB *= 0.72
		c.Scaling.Replicas = utils.MaxInt(1, int(math.Floor(float64(c.Scaling.Replicas)*0.5)))
		out.ImpactedComponentIDs = append(out.ImpactedComponentIDs, c.ID)
	}

	if len(out.ImpactedComponentIDs) == 0 {
		out.Notes = append(out.Notes, fmt.Sprintf("no components placed in %s; nothing changed", zone))
		return
	}
	out.Notes = append(out.Notes, fmt.Sprintf("%s lost: %d component(s) degraded to surviving-zone capacity", zone, len(out.ImpactedComponentIDs)))
}

func applyDependencyLag(out *models.InjectionResult, targetID string, lagMs float64) {
	idx := out.Input.FindComponent(targetID)
	if idx < 0 {
		out.Notes = append(out.Notes, fmt.Sprintf("dependency-lag target %q not found; nothing changed", targetID))
		return
	}
	if lagMs <= 0 {
		lagMs = DefaultLagMs
	}

	c := &out.Input.Components[idx]
	c.Capacity.OpsPerSecond *= 0.55
	c.Capacity.CPUCores *= 0.82
	c.Capacity.MemoryGB *= 0.9

	traffic := &out.Input.TrafficProfile
	traffic.PayloadKB = utils.ClampFloat64(traffic.PayloadKB+lagMs/lagMsPerPayloadKB, models.MinPayloadKB, models.MaxPayloadKB)

	out.ImpactedComponentIDs = append(out.ImpactedComponentIDs, c.ID)
	out.Notes = append(out.Notes,
		fmt.Sprintf("%s slowed by %.0fms", c.ID, lagMs),
		fmt.Sprintf("payload raised to %.2fKB to carry the added wire latency", traffic.PayloadKB))
}

func applyTrafficSurge(out *models.InjectionResult, multiplier float64) {
	if multiplier <= 0 {
		multiplier = DefaultSurgeMultiplier
	}

	traffic := &out.Input.TrafficProfile
	traffic.BaselineRPS = math.Floor(utils.ClampFloat64(traffic.BaselineRPS*multiplier, models.MinBaselineRPS, models.MaxBaselineRPS))
	traffic.PeakMultiplier = utils.ClampFloat64(traffic.PeakMultiplier*(1+(multiplier-1)*surgePeakDamping),
		models.MinPeakMultiplier, models.MaxPeakMultiplier)

	out.Notes = append(out.Notes, fmt.Sprintf("traffic surged x%.2f: baseline %.0f rps, peak multiplier %.2f",
		multiplier, traffic.BaselineRPS, traffic.PeakMultiplier))
}
