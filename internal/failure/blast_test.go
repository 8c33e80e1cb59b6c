package failure

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

func bottleneck(id string, utilization float64) models.Bottleneck {
	return models.Bottleneck{
		ComponentID:        id,
		ComponentType:      models.ComponentService,
		UtilizationPercent: utilization,
		Severity:           engine.ClassifySeverity(utilization),
	}
}

func TestDeriveBlastRadiusFiltersAndCaps(t *testing.T) {
	result := models.SimulationResult{
		Metrics: models.SimulationMetrics{ErrorRatePercent: 30, Saturated: true},
	}
	for i := 0; i < 8; i++ {
		result.Bottlenecks = append(result.Bottlenecks, bottleneck(fmt.Sprintf("svc-%d", i), 200-float64(i)*10))
	}
	result.Bottlenecks = append(result.Bottlenecks, bottleneck("warm", 95), bottleneck("cool", 82))

	summary := DeriveBlastRadius(models.FailureInjectionProfile{Mode: models.FailureAZDown}, result)

	require.Len(t, summary.ImpactedComponents, 6)
	assert.Equal(t, 6, summary.ImpactedCount)
	assert.Equal(t, "svc-0", summary.ImpactedComponents[0].ComponentID)
	for _, c := range summary.ImpactedComponents {
		assert.Contains(t, []models.Severity{models.SeverityCritical, models.SeverityHigh}, c.Severity)
	}
	// 200..150 are all critical.
	assert.Equal(t, 6, summary.CriticalCount)
	assert.Equal(t, 38.0, summary.EstimatedUserImpactPercent)
	assert.Equal(t, models.FailureAZDown, summary.Mode)
	assert.Contains(t, summary.Summary, "6 component(s)")
}

func TestDeriveBlastRadiusCountsCriticalSeparately(t *testing.T) {
	result := models.SimulationResult{
		Bottlenecks: []models.Bottleneck{
			bottleneck("db", 150),
			bottleneck("api", 120),
			bottleneck("cache", 85),
		},
		Metrics: models.SimulationMetrics{ErrorRatePercent: 4},
	}

	summary := DeriveBlastRadius(models.FailureInjectionProfile{Mode: models.FailureNodeDown}, result)

	assert.Equal(t, 2, summary.ImpactedCount)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 4.0, summary.EstimatedUserImpactPercent, "no saturation bonus")
}

func TestDeriveBlastRadiusImpactClamped(t *testing.T) {
	result := models.SimulationResult{
		Metrics: models.SimulationMetrics{ErrorRatePercent: 97, Saturated: true},
	}
	summary := DeriveBlastRadius(models.FailureInjectionProfile{Mode: models.FailureTrafficSurge}, result)

	assert.Equal(t, 100.0, summary.EstimatedUserImpactPercent)
	assert.Empty(t, summary.ImpactedComponents)
	assert.NotNil(t, summary.ImpactedComponents)
	assert.Contains(t, summary.Summary, "below high utilization")
}

func TestSimulateBlastRadiusIsSubsetOfBottlenecks(t *testing.T) {
	profiles := []models.FailureInjectionProfile{
		{Mode: models.FailureNodeDown, TargetComponentID: "db"},
		{Mode: models.FailureAZDown, AZName: ZoneB},
		{Mode: models.FailureDependencyLag, TargetComponentID: "api"},
		{Mode: models.FailureTrafficSurge, SurgeMultiplier: 4},
	}
	for _, p := range profiles {
		t.Run(string(p.Mode), func(t *testing.T) {
			outcome := Simulate(chainInput(), p)

			ids := make(map[string]models.Severity, len(outcome.Result.Bottlenecks))
			for _, b := range outcome.Result.Bottlenecks {
				ids[b.ComponentID] = b.Severity
			}
			assert.LessOrEqual(t, len(outcome.BlastRadius.ImpactedComponents), 6)
			for _, c := range outcome.BlastRadius.ImpactedComponents {
				sev, ok := ids[c.ComponentID]
				require.True(t, ok, "%s missing from bottlenecks", c.ComponentID)
				assert.Equal(t, sev, c.Severity)
			}

			expected := outcome.Result.Metrics.ErrorRatePercent
			if outcome.Result.Metrics.Saturated {
				expected += 8
			}
			if expected > 100 {
				expected = 100
			}
			assert.InDelta(t, expected, outcome.BlastRadius.EstimatedUserImpactPercent, 1e-9)
		})
	}
}
