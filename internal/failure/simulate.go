package failure

import (
	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// Outcome is one full failure experiment: the mutated input, the engine
// result on it and the derived blast radius.
type Outcome struct {
	Injection   models.InjectionResult    `json:"injection"`
	Result      models.SimulationResult   `json:"result"`
	BlastRadius models.BlastRadiusSummary `json:"blast_radius"`
}

// Simulate injects the failure, re-runs the engine on the perturbed copy and
// derives the blast radius.
func Simulate(in models.SimulationInput, profile models.FailureInjectionProfile) Outcome {
	injection := Apply(in, profile)
	result := engine.Run(injection.Input)
	return Outcome{
		Injection:   injection,
		Result:      result,
		BlastRadius: DeriveBlastRadius(profile, result),
	}
}
