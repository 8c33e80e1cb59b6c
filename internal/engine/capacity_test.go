package engine

import (
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func component(id string, kind models.ComponentType, ops float64, replicas int, stateful bool) models.Component {
	return models.Component{
		ID:       id,
		Type:     kind,
		Capacity: models.CapacityAttributes{OpsPerSecond: ops, CPUCores: 2, MemoryGB: 4},
		Scaling:  models.ScalingAttributes{Replicas: replicas, VerticalTier: models.TierMedium},
		Stateful: stateful,
	}
}

func TestEffectiveCapacity(t *testing.T) {
	tests := []struct {
		name     string
		c        models.Component
		expected float64
	}{
		{
			name:     "stateless medium single replica",
			c:        component("api", models.ComponentAPIGateway, 900, 1, false),
			expected: 900 * 0.89 * 0.90 * 0.94,
		},
		{
			name:     "stateful penalty",
			c:        component("db", models.ComponentDatabase, 500, 1, true),
			expected: 500 * 0.89 * 0.90 * 0.94 * 0.86,
		},
		{
			name:     "replicas scale linearly",
			c:        component("svc", models.ComponentService, 1000, 3, false),
			expected: 1000 * 0.89 * 0.90 * 3 * 0.94,
		},
		{
			name:     "capacity never drops below one",
			c:        component("tiny", models.ComponentService, 0.001, 1, true),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveCapacity(tt.c)
			if !almostEqual(got, tt.expected) {
				t.Errorf("EffectiveCapacity() = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestVerticalFactor(t *testing.T) {
	tests := []struct {
		tier     models.VerticalTier
		expected float64
	}{
		{models.TierSmall, 0.75},
		{models.TierMedium, 1.0},
		{models.TierLarge, 1.45},
		{models.TierXLarge, 1.9},
		{models.VerticalTier("unknown"), 1.0},
	}

	for _, tt := range tests {
		if got := VerticalFactor(tt.tier); got != tt.expected {
			t.Errorf("VerticalFactor(%s) = %f, expected %f", tt.tier, got, tt.expected)
		}
	}
}

func TestResourceBoostClamps(t *testing.T) {
	if got := cpuBoost(0); !almostEqual(got, 0.65) {
		t.Errorf("cpuBoost(0) = %f, expected 0.65", got)
	}
	if got := cpuBoost(64); got != 1.45 {
		t.Errorf("cpuBoost(64) = %f, expected upper clamp 1.45", got)
	}
	if got := cpuBoost(-1); got != 0.60 {
		t.Errorf("cpuBoost(-1) = %f, expected lower clamp 0.60", got)
	}
	if got := memoryBoost(512); got != 1.50 {
		t.Errorf("memoryBoost(512) = %f, expected upper clamp 1.50", got)
	}
	if got := memoryBoost(-10); got != 0.65 {
		t.Errorf("memoryBoost(-10) = %f, expected lower clamp 0.65", got)
	}
}

func TestEffectiveCapacityTierOrdering(t *testing.T) {
	prev := 0.0
	for _, tier := range []models.VerticalTier{models.TierSmall, models.TierMedium, models.TierLarge, models.TierXLarge} {
		c := component("svc", models.ComponentService, 1000, 2, false)
		c.Scaling.VerticalTier = tier
		got := EffectiveCapacity(c)
		if got <= prev {
			t.Errorf("Expected capacity to grow with tier %s, got %f after %f", tier, got, prev)
		}
		prev = got
	}
}
