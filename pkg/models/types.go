package models

// ComponentType is the closed set of node kinds a topology can contain.
type ComponentType string

const (
	ComponentClient       ComponentType = "client"
	ComponentLoadBalancer ComponentType = "load-balancer"
	ComponentAPIGateway   ComponentType = "api-gateway"
	ComponentService      ComponentType = "service"
	ComponentCache        ComponentType = "cache"
	ComponentDatabase     ComponentType = "database"
	ComponentQueue        ComponentType = "queue"
	ComponentCDN          ComponentType = "cdn"
	ComponentObjectStore  ComponentType = "object-store"
)

// AllComponentTypes returns every known component kind in declaration order.
func AllComponentTypes() []ComponentType {
	return []ComponentType{
		ComponentClient,
		ComponentLoadBalancer,
		ComponentAPIGateway,
		ComponentService,
		ComponentCache,
		ComponentDatabase,
		ComponentQueue,
		ComponentCDN,
		ComponentObjectStore,
	}
}

// Valid reports whether t is one of the known component kinds.
func (t ComponentType) Valid() bool {
	for _, known := range AllComponentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// VerticalTier is a coarse instance-size class.
type VerticalTier string

const (
	TierSmall  VerticalTier = "small"
	TierMedium VerticalTier = "medium"
	TierLarge  VerticalTier = "large"
	TierXLarge VerticalTier = "xlarge"
)

// Valid reports whether the tier is known.
func (t VerticalTier) Valid() bool {
	switch t {
	case TierSmall, TierMedium, TierLarge, TierXLarge:
		return true
	}
	return false
}

// Burstiness describes the traffic shape around the peak.
type Burstiness string

const (
	BurstSteady  Burstiness = "steady"
	BurstSpiky   Burstiness = "spiky"
	BurstExtreme Burstiness = "extreme"
)

// Valid reports whether the burstiness tag is known.
func (b Burstiness) Valid() bool {
	switch b {
	case BurstSteady, BurstSpiky, BurstExtreme:
		return true
	}
	return false
}

// Position is the canvas location of a component. X doubles as the
// availability-zone proxy used by az-down injection.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// CapacityAttributes are the per-replica hardware figures of a component.
type CapacityAttributes struct {
	OpsPerSecond float64 `json:"ops_per_second" yaml:"ops_per_second"`
	CPUCores     float64 `json:"cpu_cores" yaml:"cpu_cores"`
	MemoryGB     float64 `json:"memory_gb" yaml:"memory_gb"`
}

// ScalingAttributes describe horizontal and vertical scale.
type ScalingAttributes struct {
	Replicas     int          `json:"replicas" yaml:"replicas"`
	VerticalTier VerticalTier `json:"vertical_tier" yaml:"vertical_tier"`
}

// Component is a single node of the architecture diagram.
type Component struct {
	ID       string             `json:"id" yaml:"id"`
	Type     ComponentType      `json:"type" yaml:"type"`
	Label    string             `json:"label,omitempty" yaml:"label,omitempty"`
	Position Position           `json:"position" yaml:"position"`
	Capacity CapacityAttributes `json:"capacity" yaml:"capacity"`
	Scaling  ScalingAttributes  `json:"scaling" yaml:"scaling"`
	Stateful bool               `json:"stateful" yaml:"stateful"`
}

// Edge is a directed dependency between two components.
type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// RegionDistribution is the percentage of traffic per region; it sums to 100.
type RegionDistribution struct {
	USEast float64 `json:"us_east" yaml:"us_east"`
	USWest float64 `json:"us_west" yaml:"us_west"`
	Europe float64 `json:"europe" yaml:"europe"`
	Asia   float64 `json:"asia" yaml:"asia"`
}

// Total returns the sum of all region percentages.
func (d RegionDistribution) Total() float64 {
	return d.USEast + d.USWest + d.Europe + d.Asia
}

// Payload bounds shared by input validation and dependency-lag injection.
const (
	MinPayloadKB = 0.1
	MaxPayloadKB = 10240.0
)

// Baseline and peak multiplier bounds.
const (
	MinBaselineRPS    = 1.0
	MaxBaselineRPS    = 10_000_000.0
	MinPeakMultiplier = 1.0
	MaxPeakMultiplier = 50.0
)

// TrafficProfile is the declared load assumption for a topology.
type TrafficProfile struct {
	BaselineRPS        float64            `json:"baseline_rps" yaml:"baseline_rps"`
	PeakMultiplier     float64            `json:"peak_multiplier" yaml:"peak_multiplier"`
	ReadPercentage     float64            `json:"read_percentage" yaml:"read_percentage"`
	WritePercentage    float64            `json:"write_percentage" yaml:"write_percentage"`
	PayloadKB          float64            `json:"payload_kb" yaml:"payload_kb"`
	RegionDistribution RegionDistribution `json:"region_distribution" yaml:"region_distribution"`
	Burstiness         Burstiness         `json:"burstiness" yaml:"burstiness"`
}

// SimulationInput is the full description handed to the engine.
type SimulationInput struct {
	Components     []Component    `json:"components" yaml:"components"`
	Edges          []Edge         `json:"edges" yaml:"edges"`
	TrafficProfile TrafficProfile `json:"traffic_profile" yaml:"traffic_profile"`
}

// Clone returns a deep copy of the input. Components and edges hold no
// pointers, so copying the slices is enough to break aliasing.
func (in SimulationInput) Clone() SimulationInput {
	out := SimulationInput{TrafficProfile: in.TrafficProfile}
	if in.Components != nil {
		out.Components = make([]Component, len(in.Components))
		copy(out.Components, in.Components)
	}
	if in.Edges != nil {
		out.Edges = make([]Edge, len(in.Edges))
		copy(out.Edges, in.Edges)
	}
	return out
}

// FindComponent returns the index of the component with the given id, or -1.
func (in SimulationInput) FindComponent(id string) int {
	for i := range in.Components {
		if in.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// SimulationMetrics are the system-wide figures of one run.
type SimulationMetrics struct {
	PeakRPS           float64 `json:"peak_rps"`
	AdjustedDemandRPS float64 `json:"adjusted_demand_rps"`
	BurstFactor       float64 `json:"burst_factor"`
	CapacityRPS       float64 `json:"capacity_rps"`
	ThroughputRPS     float64 `json:"throughput_rps"`
	P50LatencyMs      float64 `json:"p50_latency_ms"`
	P95LatencyMs      float64 `json:"p95_latency_ms"`
	ErrorRatePercent  float64 `json:"error_rate_percent"`
	Saturated         bool    `json:"saturated"`
}

// Severity grades how far a bottleneck is past its capacity.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Bottleneck is a component running at or above 80% utilization.
type Bottleneck struct {
	ComponentID        string        `json:"component_id"`
	ComponentType      ComponentType `json:"component_type"`
	UtilizationPercent float64       `json:"utilization_percent"`
	RequiredRPS        float64       `json:"required_rps"`
	CapacityRPS        float64       `json:"capacity_rps"`
	Severity           Severity      `json:"severity"`
	Reason             string        `json:"reason"`
}

// ComponentLoad is the modeled load of every component, bottleneck or not.
type ComponentLoad struct {
	ComponentID        string        `json:"component_id"`
	ComponentType      ComponentType `json:"component_type"`
	CapacityRPS        float64       `json:"capacity_rps"`
	DemandWeight       float64       `json:"demand_weight"`
	RequiredRPS        float64       `json:"required_rps"`
	UtilizationPercent float64       `json:"utilization_percent"`
}

// EventSeverity classifies a timeline event.
type EventSeverity string

const (
	EventInfo     EventSeverity = "info"
	EventWarning  EventSeverity = "warning"
	EventCritical EventSeverity = "critical"
)

// TimelineEvent is one entry of the narrative of a run.
type TimelineEvent struct {
	Sequence       int           `json:"sequence"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	Severity       EventSeverity `json:"severity"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	ComponentID    string        `json:"component_id,omitempty"`
}

// SimulationResult is everything one engine pass produces.
type SimulationResult struct {
	Metrics         SimulationMetrics  `json:"metrics"`
	Bottlenecks     []Bottleneck       `json:"bottlenecks"`
	Timeline        []TimelineEvent    `json:"timeline"`
	ComponentLoads  []ComponentLoad    `json:"component_loads"`
	RegionalPeakRPS map[string]float64 `json:"regional_peak_rps,omitempty"`
}
