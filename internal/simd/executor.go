package simd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/archsim-core/internal/cache"
	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/internal/failure"
	"github.com/GoSim-25-26J-441/archsim-core/internal/metrics"
	"github.com/GoSim-25-26J-441/archsim-core/internal/scenario"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

var (
	ErrRunNotFound    = errors.New("run not found")
	ErrRunTerminal    = errors.New("run is terminal")
	ErrRunIDMissing   = errors.New("run_id is required")
	ErrRunExists      = errors.New("run already exists")
	ErrInvalidRequest = errors.New("invalid request")
)

// RunExecutor evaluates simulations, either synchronously for request/reply
// callers or asynchronously for stored runs with per-run cancellation.
type RunExecutor struct {
	store    *RunStore
	cache    cache.ResultCache
	metrics  *metrics.Collector
	notifier *Notifier

	maxParallel int
	slots       chan struct{}

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// ExecutorOption customizes a RunExecutor.
type ExecutorOption func(*RunExecutor)

// WithCache sets the result cache. The default stores nothing.
func WithCache(c cache.ResultCache) ExecutorOption {
	return func(e *RunExecutor) { e.cache = c }
}

// WithMetrics sets the Prometheus collector.
func WithMetrics(m *metrics.Collector) ExecutorOption {
	return func(e *RunExecutor) { e.metrics = m }
}

// WithNotifier sets the completion notifier.
func WithNotifier(n *Notifier) ExecutorOption {
	return func(e *RunExecutor) { e.notifier = n }
}

// WithMaxParallel bounds how many runs evaluate at once.
func WithMaxParallel(n int) ExecutorOption {
	return func(e *RunExecutor) { e.maxParallel = n }
}

func NewRunExecutor(store *RunStore, opts ...ExecutorOption) *RunExecutor {
	e := &RunExecutor{
		store:       store,
		cache:       cache.Noop{},
		maxParallel: 4,
		cancels:     make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.NewCollector(nil)
	}
	if e.notifier == nil {
		e.notifier = NewNotifier(WithNotifierMetrics(e.metrics))
	}
	if e.maxParallel < 1 {
		e.maxParallel = 1
	}
	e.slots = make(chan struct{}, e.maxParallel)
	return e
}

// Store returns the backing run store.
func (e *RunExecutor) Store() *RunStore {
	return e.store
}

// Start begins executing a run asynchronously.
// Returns the updated run state (running) or an error.
func (e *RunExecutor) Start(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	switch {
	case rec.Run.Status == models.RunStatusRunning:
		return rec, nil
	case rec.Run.Status.Terminal():
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	updated, err := e.store.SetStatus(runID, models.RunStatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.mu.Unlock()

	e.metrics.RunStarted()
	e.wg.Add(1)
	go e.runSimulation(ctx, runID)
	return updated, nil
}

// Stop requests cancellation for a run and marks it cancelled.
func (e *RunExecutor) Stop(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	e.mu.Lock()
	cancel, ok := e.cancels[runID]
	e.mu.Unlock()

	if ok {
		cancel()
	}

	before, found := e.store.Get(runID)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	updated, err := e.store.SetStatus(runID, models.RunStatusCancelled, "")
	if err != nil {
		return nil, err
	}
	if before.Run.Status != models.RunStatusCancelled {
		e.notifier.Notify(updated)
	}
	return updated, nil
}

// Wait blocks until every started run and pending notification is done.
func (e *RunExecutor) Wait() {
	e.wg.Wait()
	e.notifier.Wait()
}

func (e *RunExecutor) cleanup(runID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[runID]; ok {
		cancel()
		delete(e.cancels, runID)
	}
	e.mu.Unlock()
}

func (e *RunExecutor) runSimulation(ctx context.Context, runID string) {
	defer e.wg.Done()
	defer e.cleanup(runID)

	finalStatus := models.RunStatusCancelled
	defer func() { e.metrics.RunFinished(string(finalStatus)) }()

	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	case <-ctx.Done():
		logger.Info("run cancelled before start", "run_id", runID)
		return
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		logger.Error("run not found", "run_id", runID)
		finalStatus = models.RunStatusFailed
		return
	}

	outcome, cacheHit, err := e.Evaluate(ctx, rec.Input, rec.Profile)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("run cancelled", "run_id", runID)
			return
		}
		logger.Error("run failed", "run_id", runID, "error", err)
		finalStatus = models.RunStatusFailed
		updated, setErr := e.store.SetStatus(runID, models.RunStatusFailed, err.Error())
		if setErr != nil {
			logger.Error("failed to set failed status", "run_id", runID, "error", setErr)
			return
		}
		e.notifier.Notify(updated)
		return
	}

	updated, err := e.store.Complete(runID, outcome, cacheHit)
	if err != nil {
		// Stop won the race; the run stays cancelled.
		logger.Info("run finished after cancellation", "run_id", runID, "error", err)
		return
	}
	finalStatus = models.RunStatusCompleted

	logger.Info("run completed",
		"run_id", runID,
		"cache_hit", cacheHit,
		"saturated", outcome.Baseline.Metrics.Saturated,
		"error_rate_percent", outcome.Baseline.Metrics.ErrorRatePercent)
	e.notifier.Notify(updated)
}

// Evaluate runs the baseline and, with a profile, the injected scenario,
// consulting the cache first. It reports whether the cache served the outcome.
func (e *RunExecutor) Evaluate(ctx context.Context, in models.SimulationInput, profile *models.FailureInjectionProfile) (*models.RunOutcome, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	kind := metrics.KindBaseline
	if profile != nil {
		kind = metrics.KindInjection
	}
	start := time.Now()

	key, err := cache.Key(in, profile)
	if err != nil {
		return nil, false, err
	}

	cached, hit, err := e.cache.Get(ctx, key)
	cacheOutcome := metrics.CacheMiss
	switch {
	case err != nil:
		logger.Warn("cache lookup failed", "error", err)
		cacheOutcome = metrics.CacheError
	case hit:
		e.observe(kind, metrics.CacheHit, start, cached)
		return cached, true, nil
	}

	outcome := compute(in, profile)
	if err := e.cache.Set(ctx, key, outcome); err != nil {
		logger.Warn("cache store failed", "error", err)
	}
	e.observe(kind, cacheOutcome, start, outcome)
	return outcome, false, nil
}

func compute(in models.SimulationInput, profile *models.FailureInjectionProfile) *models.RunOutcome {
	baseline := engine.Run(in)
	outcome := &models.RunOutcome{Baseline: &baseline}
	if profile == nil {
		return outcome
	}

	sim := failure.Simulate(in, *profile)
	outcome.Injection = &sim.Injection
	outcome.Injected = &sim.Result
	outcome.BlastRadius = &sim.BlastRadius
	return outcome
}

func (e *RunExecutor) observe(kind, cacheOutcome string, start time.Time, outcome *models.RunOutcome) {
	result := outcome.Baseline
	if outcome.Injected != nil {
		result = outcome.Injected
	}
	e.metrics.ObserveSimulation(kind, cacheOutcome, time.Since(start), result != nil && result.Metrics.Saturated)
}

// Compare evaluates several failure profiles against one input.
func (e *RunExecutor) Compare(ctx context.Context, in models.SimulationInput, profiles []models.FailureInjectionProfile) (*scenario.Report, error) {
	start := time.Now()
	report, err := scenario.Compare(ctx, in, profiles, scenario.Options{MaxParallel: e.maxParallel})
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveSimulation(metrics.KindComparison, metrics.CacheDisabled, time.Since(start), report.Baseline.Metrics.Saturated)
	return report, nil
}
