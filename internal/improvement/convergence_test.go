package improvement

import "testing"

func steps(scores ...float64) []OptimizationStep {
	out := make([]OptimizationStep, len(scores))
	for i, s := range scores {
		out[i] = OptimizationStep{Iteration: i, Score: s}
	}
	return out
}

func TestPlateauStrategy(t *testing.T) {
	strategy := NewPlateauStrategy(&ConvergenceConfig{
		ScoreTolerance:   0.01,
		MinIterations:    2,
		WindowIterations: 3,
	})

	if converged, reason := strategy.CheckConvergence(steps(100, 100.01, 100.005, 100.002)); !converged || reason == "" {
		t.Fatalf("expected plateau convergence")
	}
	if converged, _ := strategy.CheckConvergence(steps(100, 90, 80, 70)); converged {
		t.Fatalf("expected no convergence while improving")
	}
	if converged, _ := strategy.CheckConvergence(steps(100)); converged {
		t.Fatalf("expected no convergence before min iterations")
	}
}

func TestThresholdStrategy(t *testing.T) {
	strategy := NewThresholdStrategy(&ConvergenceConfig{
		ImprovementThreshold: 0.01,
		MinIterations:        3,
		WindowIterations:     3,
	})

	if converged, _ := strategy.CheckConvergence(steps(100, 99.95, 99.9)); !converged {
		t.Fatalf("expected convergence with tiny improvements")
	}
	if converged, _ := strategy.CheckConvergence(steps(100, 90, 89.99)); converged {
		t.Fatalf("expected no convergence with a large recent improvement")
	}
	// Negative scores come from maximized metrics.
	if converged, _ := strategy.CheckConvergence(steps(-1000, -1000.5, -1001)); !converged {
		t.Fatalf("expected convergence on negative scores")
	}
	if converged, _ := strategy.CheckConvergence(steps(-1000, -1200, -1400)); converged {
		t.Fatalf("expected no convergence with large gains on negative scores")
	}
}

func TestCombinedStrategy(t *testing.T) {
	strategy := NewCombinedStrategy(nil)
	if strategy.Name() != "combined" {
		t.Fatalf("unexpected name %q", strategy.Name())
	}
	converged, reason := strategy.CheckConvergence(steps(50, 50, 50))
	if !converged {
		t.Fatalf("expected convergence on identical scores")
	}
	if reason[:len("plateau")] != "plateau" {
		t.Errorf("expected plateau to report first, got %q", reason)
	}

	strategy.AddStrategy(NewPlateauStrategy(&ConvergenceConfig{MinIterations: 1, WindowIterations: 2, ScoreTolerance: 100}))
	if converged, _ := strategy.CheckConvergence(steps(100, 60)); !converged {
		t.Fatalf("expected the added strategy to trigger")
	}
}
