package improvement

import (
	"fmt"
	"math"
)

// ConvergenceStrategy defines how to detect convergence
type ConvergenceStrategy interface {
	// CheckConvergence checks if optimization has converged based on history
	CheckConvergence(history []OptimizationStep) (bool, string)
	// Name returns the name of the convergence strategy
	Name() string
}

// ConvergenceConfig holds configuration for convergence detection
type ConvergenceConfig struct {
	// ImprovementThreshold is the minimum relative improvement to consider significant
	ImprovementThreshold float64
	// ScoreTolerance is the absolute tolerance for score changes to be considered equal
	ScoreTolerance float64
	// MinIterations is the minimum number of iterations before convergence can be detected
	MinIterations int
	// WindowIterations is how many recent steps the strategies look at
	WindowIterations int
}

// DefaultConvergenceConfig returns a default convergence configuration
func DefaultConvergenceConfig() *ConvergenceConfig {
	return &ConvergenceConfig{
		ImprovementThreshold: 0.001,
		ScoreTolerance:       0.001,
		MinIterations:        3,
		WindowIterations:     3,
	}
}

func recentWindow(history []OptimizationStep, cfg *ConvergenceConfig) []OptimizationStep {
	if len(history) < cfg.MinIterations || cfg.WindowIterations < 2 || len(history) < cfg.WindowIterations {
		return nil
	}
	return history[len(history)-cfg.WindowIterations:]
}

// PlateauStrategy detects convergence when scores have plateaued (similar scores)
type PlateauStrategy struct {
	config *ConvergenceConfig
}

// NewPlateauStrategy creates a new plateau convergence strategy
func NewPlateauStrategy(config *ConvergenceConfig) *PlateauStrategy {
	if config == nil {
		config = DefaultConvergenceConfig()
	}
	return &PlateauStrategy{config: config}
}

func (s *PlateauStrategy) Name() string {
	return "plateau"
}

func (s *PlateauStrategy) CheckConvergence(history []OptimizationStep) (converged bool, reason string) {
	recent := recentWindow(history, s.config)
	if recent == nil {
		return false, ""
	}

	minScore, maxScore := recent[0].Score, recent[0].Score
	for _, step := range recent {
		minScore = math.Min(minScore, step.Score)
		maxScore = math.Max(maxScore, step.Score)
	}

	scoreRange := maxScore - minScore
	if scoreRange <= s.config.ScoreTolerance {
		return true, fmt.Sprintf("score plateaued for %d iterations (range: %.6f)", len(recent), scoreRange)
	}
	return false, ""
}

// ThresholdStrategy detects convergence when improvements are below threshold
type ThresholdStrategy struct {
	config *ConvergenceConfig
}

// NewThresholdStrategy creates a new improvement threshold convergence strategy
func NewThresholdStrategy(config *ConvergenceConfig) *ThresholdStrategy {
	if config == nil {
		config = DefaultConvergenceConfig()
	}
	return &ThresholdStrategy{config: config}
}

func (s *ThresholdStrategy) Name() string {
	return "improvement_threshold"
}

func (s *ThresholdStrategy) CheckConvergence(history []OptimizationStep) (converged bool, reason string) {
	recent := recentWindow(history, s.config)
	if recent == nil {
		return false, ""
	}

	// Scores can be negative (maximized metrics), so compare against magnitude.
	maxImprovement := math.Inf(-1)
	for i := 1; i < len(recent); i++ {
		prev := math.Abs(recent[i-1].Score)
		if prev == 0 {
			return false, ""
		}
		improvement := (recent[i-1].Score - recent[i].Score) / prev
		if improvement > s.config.ImprovementThreshold {
			return false, ""
		}
		maxImprovement = math.Max(maxImprovement, improvement)
	}

	return true, fmt.Sprintf("improvements below threshold (max: %.4f%%, threshold: %.4f%%)",
		maxImprovement*100, s.config.ImprovementThreshold*100)
}

// CombinedStrategy uses multiple strategies and converges if any strategy detects convergence
type CombinedStrategy struct {
	strategies []ConvergenceStrategy
}

// NewCombinedStrategy creates a new combined convergence strategy
func NewCombinedStrategy(config *ConvergenceConfig) *CombinedStrategy {
	return &CombinedStrategy{
		strategies: []ConvergenceStrategy{
			NewPlateauStrategy(config),
			NewThresholdStrategy(config),
		},
	}
}

func (s *CombinedStrategy) Name() string {
	return "combined"
}

func (s *CombinedStrategy) CheckConvergence(history []OptimizationStep) (converged bool, reason string) {
	for _, strategy := range s.strategies {
		if converged, reason := strategy.CheckConvergence(history); converged {
			return true, fmt.Sprintf("%s: %s", strategy.Name(), reason)
		}
	}
	return false, ""
}

// AddStrategy adds a custom strategy to the combined strategy
func (s *CombinedStrategy) AddStrategy(strategy ConvergenceStrategy) {
	s.strategies = append(s.strategies, strategy)
}
