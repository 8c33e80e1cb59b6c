package models

// FailureMode selects how an input is perturbed.
type FailureMode string

const (
	FailureNodeDown      FailureMode = "node-down"
	FailureAZDown        FailureMode = "az-down"
	FailureDependencyLag FailureMode = "dependency-lag"
	FailureTrafficSurge  FailureMode = "traffic-surge"
)

// Valid reports whether the mode is known.
func (m FailureMode) Valid() bool {
	switch m {
	case FailureNodeDown, FailureAZDown, FailureDependencyLag, FailureTrafficSurge:
		return true
	}
	return false
}

// FailureInjectionProfile describes one fault. Only the fields relevant to
// Mode are read.
type FailureInjectionProfile struct {
	Mode              FailureMode `json:"mode" yaml:"mode"`
	Name              string      `json:"name,omitempty" yaml:"name,omitempty"`
	TargetComponentID string      `json:"target_component_id,omitempty" yaml:"target_component_id,omitempty"`
	AZName            string      `json:"az_name,omitempty" yaml:"az_name,omitempty"`
	LagMs             float64     `json:"lag_ms,omitempty" yaml:"lag_ms,omitempty"`
	SurgeMultiplier   float64     `json:"surge_multiplier,omitempty" yaml:"surge_multiplier,omitempty"`
}

// InjectionResult is the mutated copy of an input plus what was touched.
type InjectionResult struct {
	Input                SimulationInput `json:"input"`
	ImpactedComponentIDs []string        `json:"impacted_component_ids"`
	Notes                []string        `json:"notes"`
}

// ImpactedComponent is one entry of a blast radius.
type ImpactedComponent struct {
	ComponentID        string        `json:"component_id"`
	ComponentType      ComponentType `json:"component_type"`
	UtilizationPercent float64       `json:"utilization_percent"`
	Severity           Severity      `json:"severity"`
	Reason             string        `json:"reason"`
}

// BlastRadiusSummary condenses the impact of an injected failure.
type BlastRadiusSummary struct {
	Mode                       FailureMode         `json:"mode"`
	ImpactedComponents         []ImpactedComponent `json:"impacted_components"`
	ImpactedCount              int                 `json:"impacted_count"`
	CriticalCount              int                 `json:"critical_count"`
	EstimatedUserImpactPercent float64             `json:"estimated_user_impact_percent"`
	Summary                    string              `json:"summary"`
}
