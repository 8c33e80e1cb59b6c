package scenario

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/internal/failure"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

func chainInput() models.SimulationInput {
	return models.SimulationInput{
		Components: []models.Component{
			{
				ID:       "api",
				Type:     models.ComponentAPIGateway,
				Position: models.Position{X: 1200},
				Capacity: models.CapacityAttributes{OpsPerSecond: 900, CPUCores: 2, MemoryGB: 4},
				Scaling:  models.ScalingAttributes{Replicas: 3, VerticalTier: models.TierMedium},
			},
			{
				ID:       "db",
				Type:     models.ComponentDatabase,
				Position: models.Position{X: 3200},
				Capacity: models.CapacityAttributes{OpsPerSecond: 500, CPUCores: 8, MemoryGB: 16},
				Scaling:  models.ScalingAttributes{Replicas: 2, VerticalTier: models.TierLarge},
				Stateful: true,
			},
		},
		Edges: []models.Edge{{Source: "api", Target: "db"}},
		TrafficProfile: models.TrafficProfile{
			BaselineRPS:        300,
			PeakMultiplier:     2,
			ReadPercentage:     80,
			WritePercentage:    20,
			PayloadKB:          4,
			RegionDistribution: models.RegionDistribution{USEast: 50, Europe: 50},
			Burstiness:         models.BurstSteady,
		},
	}
}

func profiles() []models.FailureInjectionProfile {
	return []models.FailureInjectionProfile{
		{Name: "lag", Mode: models.FailureDependencyLag, TargetComponentID: "api", LagMs: 100},
		{Mode: models.FailureNodeDown, TargetComponentID: "db"},
		{Mode: models.FailureAZDown, AZName: failure.ZoneB},
		{Name: "surge", Mode: models.FailureTrafficSurge, SurgeMultiplier: 2},
	}
}

func TestCompareRequiresProfiles(t *testing.T) {
	_, err := Compare(context.Background(), chainInput(), nil, Options{})
	assert.ErrorIs(t, err, ErrNoProfiles)
}

func TestCompareRanksByImpact(t *testing.T) {
	in := chainInput()
	report, err := Compare(context.Background(), in, profiles(), Options{MaxParallel: 2})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 4)
	assert.True(t, strings.HasPrefix(report.ID, "cmp-"))
	assert.Equal(t, engine.Run(in), report.Baseline)

	for i, o := range report.Outcomes {
		assert.Equal(t, i+1, o.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t,
				report.Outcomes[i-1].BlastRadius.EstimatedUserImpactPercent,
				o.BlastRadius.EstimatedUserImpactPercent)
		}
		assert.Equal(t, Diff(report.Baseline.Metrics, o.Result.Metrics), o.Delta)
	}

	// Losing the only database path forces capacity to the floor.
	assert.Equal(t, "node-down:db", report.MostDisruptive)
	assert.Equal(t, report.Outcomes[0].Name, report.MostDisruptive)
}

func TestCompareMatchesSequentialEvaluation(t *testing.T) {
	in := chainInput()
	ps := profiles()

	report, err := Compare(context.Background(), in, ps, Options{})
	require.NoError(t, err)

	byName := make(map[string]Outcome, len(report.Outcomes))
	for _, o := range report.Outcomes {
		byName[o.Name] = o
	}
	for _, p := range ps {
		got, ok := byName[Name(p)]
		require.True(t, ok, "missing outcome for %s", Name(p))
		assert.Equal(t, failure.Simulate(in, p), got.Outcome)
	}
}

func TestCompareIsDeterministic(t *testing.T) {
	in := chainInput()
	first, err := Compare(context.Background(), in, profiles(), Options{MaxParallel: 1})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		next, err := Compare(context.Background(), in, profiles(), Options{MaxParallel: 8})
		require.NoError(t, err)
		assert.Equal(t, first.Outcomes, next.Outcomes)
	}
}

func TestCompareKeepsInputOrderOnTies(t *testing.T) {
	ps := []models.FailureInjectionProfile{
		{Name: "first", Mode: models.FailureNodeDown, TargetComponentID: "ghost"},
		{Name: "second", Mode: models.FailureAZDown, AZName: "az-z"},
	}
	report, err := Compare(context.Background(), chainInput(), ps, Options{})
	require.NoError(t, err)
	assert.Equal(t, "first", report.Outcomes[0].Name)
	assert.Equal(t, "second", report.Outcomes[1].Name)
}

func TestCompareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compare(ctx, chainInput(), profiles(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestName(t *testing.T) {
	assert.Equal(t, "custom", Name(models.FailureInjectionProfile{Name: "custom", Mode: models.FailureAZDown}))
	assert.Equal(t, "az-down:az-a", Name(models.FailureInjectionProfile{Mode: models.FailureAZDown, AZName: "az-a"}))
	assert.Equal(t, "dependency-lag:api", Name(models.FailureInjectionProfile{Mode: models.FailureDependencyLag, TargetComponentID: "api"}))
	assert.Equal(t, "traffic-surge", Name(models.FailureInjectionProfile{Mode: models.FailureTrafficSurge}))
}
