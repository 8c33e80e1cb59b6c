package models

// RunStatus represents the status of a simulation run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether no further transitions are expected.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCancelled
}

// Run is the lifecycle record of one queued simulation.
type Run struct {
	ID              string    `json:"id"`
	Status          RunStatus `json:"status"`
	CreatedAtUnixMs int64     `json:"created_at_unix_ms"`
	StartedAtUnixMs int64     `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64     `json:"ended_at_unix_ms,omitempty"`
	Error           string    `json:"error,omitempty"`
	CacheHit        bool      `json:"cache_hit,omitempty"`
}

// RunOutcome holds what a completed run produced. Injection fields are set
// only when the run carried a failure profile.
type RunOutcome struct {
	Baseline    *SimulationResult   `json:"baseline"`
	Injection   *InjectionResult    `json:"injection,omitempty"`
	Injected    *SimulationResult   `json:"injected,omitempty"`
	BlastRadius *BlastRadiusSummary `json:"blast_radius,omitempty"`
}
