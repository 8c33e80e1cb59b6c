// Package scenario evaluates several failure profiles against one
// architecture and ranks them by estimated user impact.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/internal/failure"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/utils"
)

// ErrNoProfiles is returned when a comparison has nothing to compare.
var ErrNoProfiles = errors.New("at least one failure profile is required")

// MetricsDelta is injected minus baseline for the headline metrics.
type MetricsDelta struct {
	CapacityRPS      float64 `json:"capacity_rps"`
	ThroughputRPS    float64 `json:"throughput_rps"`
	P50LatencyMs     float64 `json:"p50_latency_ms"`
	P95LatencyMs     float64 `json:"p95_latency_ms"`
	ErrorRatePercent float64 `json:"error_rate_percent"`
}

// Diff compares two metric sets.
func Diff(baseline, injected models.SimulationMetrics) MetricsDelta {
	return MetricsDelta{
		CapacityRPS:      injected.CapacityRPS - baseline.CapacityRPS,
		ThroughputRPS:    injected.ThroughputRPS - baseline.ThroughputRPS,
		P50LatencyMs:     injected.P50LatencyMs - baseline.P50LatencyMs,
		P95LatencyMs:     injected.P95LatencyMs - baseline.P95LatencyMs,
		ErrorRatePercent: injected.ErrorRatePercent - baseline.ErrorRatePercent,
	}
}

// Outcome is the evaluation of one profile.
type Outcome struct {
	Name    string                         `json:"name"`
	Profile models.FailureInjectionProfile `json:"profile"`
	Rank    int                            `json:"rank"`
	failure.Outcome
	Delta MetricsDelta `json:"delta"`
}

// Report is a full comparison. Outcomes are ordered from most to least
// disruptive; ties keep the order the profiles were given in.
type Report struct {
	ID             string                  `json:"id"`
	Baseline       models.SimulationResult `json:"baseline"`
	Outcomes       []Outcome               `json:"outcomes"`
	MostDisruptive string                  `json:"most_disruptive"`
}

// Options tunes a comparison.
type Options struct {
	// MaxParallel caps concurrent evaluations; values below 1 mean unbounded.
	MaxParallel int
}

// Compare runs the baseline and every profile concurrently. The result does
// not depend on scheduling.
func Compare(ctx context.Context, in models.SimulationInput, profiles []models.FailureInjectionProfile, opts Options) (*Report, error) {
	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}

	var baseline models.SimulationResult
	outcomes := make([]Outcome, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxParallel > 0 {
		g.SetLimit(opts.MaxParallel)
	}

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		baseline = engine.Run(in)
		return nil
	})
	for i, p := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("scenario %s: %w", Name(p), err)
			}
			outcomes[i] = Outcome{
				Name:    Name(p),
				Profile: p,
				Outcome: failure.Simulate(in, p),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range outcomes {
		outcomes[i].Delta = Diff(baseline.Metrics, outcomes[i].Result.Metrics)
	}
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].BlastRadius.EstimatedUserImpactPercent > outcomes[j].BlastRadius.EstimatedUserImpactPercent
	})
	for i := range outcomes {
		outcomes[i].Rank = i + 1
	}

	return &Report{
		ID:             utils.GenerateComparisonID(),
		Baseline:       baseline,
		Outcomes:       outcomes,
		MostDisruptive: outcomes[0].Name,
	}, nil
}

// Name labels a profile: its explicit name, or the mode plus its target.
func Name(p models.FailureInjectionProfile) string {
	if p.Name != "" {
		return p.Name
	}
	switch p.Mode {
	case models.FailureNodeDown, models.FailureDependencyLag:
		if p.TargetComponentID != "" {
			return fmt.Sprintf("%s:%s", p.Mode, p.TargetComponentID)
		}
	case models.FailureAZDown:
		if p.AZName != "" {
			return fmt.Sprintf("%s:%s", p.Mode, p.AZName)
		}
	}
	return string(p.Mode)
}
