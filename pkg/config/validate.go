package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// ErrTargetNotFound is returned when a failure profile names a component the
// architecture does not contain.
var ErrTargetNotFound = errors.New("target component not found")

// percentTolerance absorbs float noise in percentages that must sum to 100.
const percentTolerance = 0.01

// ApplyInputDefaults fills optional fields the engine expects to be set:
// replicas default to 1, the vertical tier to medium and burstiness to steady.
func ApplyInputDefaults(in *models.SimulationInput) {
	for i := range in.Components {
		c := &in.Components[i]
		if c.Scaling.Replicas == 0 {
			c.Scaling.Replicas = 1
		}
		if c.Scaling.VerticalTier == "" {
			c.Scaling.VerticalTier = models.TierMedium
		}
	}
	if in.TrafficProfile.Burstiness == "" {
		in.TrafficProfile.Burstiness = models.BurstSteady
	}
}

// ValidateInput checks the structural and numeric invariants the engine
// assumes but never re-checks. The first violation is returned.
// An empty component list is accepted.
func ValidateInput(in *models.SimulationInput) error {
	ids := make(map[string]bool, len(in.Components))
	for i, c := range in.Components {
		if c.ID == "" {
			return fmt.Errorf("component %d: id cannot be empty", i)
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate component id: %s", c.ID)
		}
		ids[c.ID] = true
		if err := validateComponent(c); err != nil {
			return fmt.Errorf("component %s: %w", c.ID, err)
		}
	}

	for i, e := range in.Edges {
		if !ids[e.Source] {
			return fmt.Errorf("edge %d: source component %q does not exist", i, e.Source)
		}
		if !ids[e.Target] {
			return fmt.Errorf("edge %d: target component %q does not exist", i, e.Target)
		}
		if e.Source == e.Target {
			return fmt.Errorf("edge %d: self-loop on %s", i, e.Source)
		}
	}

	if err := validateTraffic(in.TrafficProfile); err != nil {
		return fmt.Errorf("traffic_profile: %w", err)
	}
	return nil
}

func validateComponent(c models.Component) error {
	if !c.Type.Valid() {
		return fmt.Errorf("unknown type %q", c.Type)
	}
	if !finitePositive(c.Capacity.OpsPerSecond) {
		return fmt.Errorf("ops_per_second must be positive, got %v", c.Capacity.OpsPerSecond)
	}
	if !finitePositive(c.Capacity.CPUCores) {
		return fmt.Errorf("cpu_cores must be positive, got %v", c.Capacity.CPUCores)
	}
	if !finitePositive(c.Capacity.MemoryGB) {
		return fmt.Errorf("memory_gb must be positive, got %v", c.Capacity.MemoryGB)
	}
	if c.Scaling.Replicas < 1 {
		return fmt.Errorf("replicas must be at least 1, got %d", c.Scaling.Replicas)
	}
	if !c.Scaling.VerticalTier.Valid() {
		return fmt.Errorf("invalid vertical_tier %q (must be small, medium, large, or xlarge)", c.Scaling.VerticalTier)
	}
	return nil
}

func validateTraffic(t models.TrafficProfile) error {
	if !inRange(t.BaselineRPS, models.MinBaselineRPS, models.MaxBaselineRPS) {
		return fmt.Errorf("baseline_rps must be between %v and %v, got %v",
			models.MinBaselineRPS, models.MaxBaselineRPS, t.BaselineRPS)
	}
	if !inRange(t.PeakMultiplier, models.MinPeakMultiplier, models.MaxPeakMultiplier) {
		return fmt.Errorf("peak_multiplier must be between %v and %v, got %v",
			models.MinPeakMultiplier, models.MaxPeakMultiplier, t.PeakMultiplier)
	}
	if !inRange(t.ReadPercentage, 0, 100) || !inRange(t.WritePercentage, 0, 100) {
		return fmt.Errorf("read_percentage and write_percentage must be between 0 and 100")
	}
	if math.Abs(t.ReadPercentage+t.WritePercentage-100) > percentTolerance {
		return fmt.Errorf("read_percentage + write_percentage must equal 100, got %v",
			t.ReadPercentage+t.WritePercentage)
	}
	if !inRange(t.PayloadKB, models.MinPayloadKB, models.MaxPayloadKB) {
		return fmt.Errorf("payload_kb must be between %v and %v, got %v",
			models.MinPayloadKB, models.MaxPayloadKB, t.PayloadKB)
	}

	d := t.RegionDistribution
	regions := []struct {
		name  string
		share float64
	}{
		{"us_east", d.USEast},
		{"us_west", d.USWest},
		{"europe", d.Europe},
		{"asia", d.Asia},
	}
	for _, r := range regions {
		if !inRange(r.share, 0, 100) {
			return fmt.Errorf("region_distribution.%s must be between 0 and 100, got %v", r.name, r.share)
		}
	}
	if math.Abs(d.Total()-100) > percentTolerance {
		return fmt.Errorf("region_distribution must sum to 100, got %v", d.Total())
	}

	if !t.Burstiness.Valid() {
		return fmt.Errorf("invalid burstiness %q (must be steady, spiky, or extreme)", t.Burstiness)
	}
	return nil
}

// ValidateFailureProfile checks that a profile carries the fields its mode
// needs. When in is non-nil the target component must also exist in it,
// otherwise ErrTargetNotFound is returned; the mutator itself treats an
// unknown target as a no-op.
func ValidateFailureProfile(p models.FailureInjectionProfile, in *models.SimulationInput) error {
	if !p.Mode.Valid() {
		return fmt.Errorf("invalid mode %q (must be node-down, az-down, dependency-lag, or traffic-surge)", p.Mode)
	}
	if p.LagMs < 0 || math.IsNaN(p.LagMs) {
		return fmt.Errorf("lag_ms cannot be negative, got %v", p.LagMs)
	}
	if p.SurgeMultiplier < 0 || math.IsNaN(p.SurgeMultiplier) {
		return fmt.Errorf("surge_multiplier cannot be negative, got %v", p.SurgeMultiplier)
	}

	switch p.Mode {
	case models.FailureNodeDown, models.FailureDependencyLag:
		if p.TargetComponentID == "" {
			return fmt.Errorf("%s requires target_component_id", p.Mode)
		}
		if in != nil && in.FindComponent(p.TargetComponentID) < 0 {
			return fmt.Errorf("%s target %q: %w", p.Mode, p.TargetComponentID, ErrTargetNotFound)
		}
	case models.FailureAZDown:
		if p.AZName == "" {
			return fmt.Errorf("az-down requires az_name")
		}
	}
	return nil
}

func validateScenarioSet(set *ScenarioSet) error {
	if len(set.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario must be defined")
	}
	for i, p := range set.Scenarios {
		if err := ValidateFailureProfile(p, nil); err != nil {
			return fmt.Errorf("scenario %d (%s): %w", i, scenarioLabel(p), err)
		}
	}
	return nil
}

func scenarioLabel(p models.FailureInjectionProfile) string {
	if p.Name != "" {
		return p.Name
	}
	return string(p.Mode)
}

func validateServerConfig(cfg *ServerConfig) error {
	validLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warn":    true,
		"warning": true,
		"error":   true,
	}
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log.level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log.format: %s (must be json or text)", cfg.Log.Format)
	}
	if cfg.HTTP.Addr == "" {
		return fmt.Errorf("http.addr cannot be empty")
	}
	if cfg.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps cannot be negative, got %v", cfg.HTTP.RateLimitRPS)
	}
	if cfg.HTTP.RateLimitRPS > 0 && cfg.HTTP.RateLimitBurst < 1 {
		return fmt.Errorf("http.rate_limit_burst must be at least 1 when limiting is enabled")
	}

	switch cfg.Cache.Backend {
	case CacheBackendNone, CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid cache.backend: %s (must be none, memory, or redis)", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative")
	}
	if cfg.Cache.Backend == CacheBackendMemory && cfg.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", cfg.Cache.MaxEntries)
	}

	if cfg.Executor.MaxParallel < 1 {
		return fmt.Errorf("executor.max_parallel must be positive, got %d", cfg.Executor.MaxParallel)
	}
	if cfg.Notifier.MaxRetries < 0 {
		return fmt.Errorf("notifier.max_retries cannot be negative, got %d", cfg.Notifier.MaxRetries)
	}
	if cfg.Notifier.BaseDelay < 0 {
		return fmt.Errorf("notifier.base_delay cannot be negative")
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
