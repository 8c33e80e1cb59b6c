package failure

import (
	"fmt"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/utils"
)

const (
	maxBlastRadiusEntries = 6
	saturationImpactBonus = 8.0
)

// DeriveBlastRadius summarizes a re-run after injection: the high and
// critical bottlenecks (at most six, already ordered by utilization) and an
// estimated share of affected users.
func DeriveBlastRadius(profile models.FailureInjectionProfile, result models.SimulationResult) models.BlastRadiusSummary {
	impacted := make([]models.ImpactedComponent, 0, maxBlastRadiusEntries)
	critical := 0
	for _, b := range result.Bottlenecks {
		if b.Severity != models.SeverityCritical && b.Severity != models.SeverityHigh {
			continue
		}
		if len(impacted) == maxBlastRadiusEntries {
			break
		}
		if b.Severity == models.SeverityCritical {
			critical++
		}
		impacted = append(impacted, models.ImpactedComponent{
			ComponentID:        b.ComponentID,
			ComponentType:      b.ComponentType,
			UtilizationPercent: b.UtilizationPercent,
			Severity:           b.Severity,
			Reason:             b.Reason,
		})
	}

	impact := result.Metrics.ErrorRatePercent
	if result.Metrics.Saturated {
		impact += saturationImpactBonus
	}
	impact = utils.ClampPercent(impact)

	var summary string
	if len(impacted) > 0 {
		summary = fmt.Sprintf("%s pushed %d component(s) into high or critical utilization (%d critical); estimated user impact %.1f%%.",
			profile.Mode, len(impacted), critical, impact)
	} else {
		summary = fmt.Sprintf("%s left every component below high utilization; estimated user impact %.1f%%.",
			profile.Mode, impact)
	}

	return models.BlastRadiusSummary{
		Mode:                       profile.Mode,
		ImpactedComponents:         impacted,
		ImpactedCount:              len(impacted),
		CriticalCount:              critical,
		EstimatedUserImpactPercent: impact,
		Summary:                    summary,
	}
}
