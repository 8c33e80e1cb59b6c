package simd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GoSim-25-26J-441/archsim-core/internal/cache"
	"github.com/GoSim-25-26J-441/archsim-core/internal/metrics"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

func TestRunExecutorStartCompletesRun(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Create("run-1", sampleInput(), nil); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	exec := NewRunExecutor(store)
	rec, err := exec.Start("run-1")
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if rec.Run.Status != models.RunStatusRunning {
		t.Fatalf("expected running, got %v", rec.Run.Status)
	}
	exec.Wait()

	got, ok := store.Get("run-1")
	if !ok {
		t.Fatalf("expected run to exist")
	}
	if got.Run.Status != models.RunStatusCompleted {
		t.Fatalf("expected completed, got %v (%s)", got.Run.Status, got.Run.Error)
	}
	if got.Outcome == nil || got.Outcome.Baseline == nil {
		t.Fatalf("expected baseline outcome")
	}
	if got.Outcome.Injected != nil {
		t.Fatalf("did not expect an injected result without a profile")
	}
	if got.Run.EndedAtUnixMs == 0 {
		t.Fatalf("expected ended_at_unix_ms set")
	}
}

func TestRunExecutorProfileRunCarriesBlastRadius(t *testing.T) {
	store := NewRunStore()
	profile := &models.FailureInjectionProfile{Mode: models.FailureNodeDown, TargetComponentID: "db"}
	if _, err := store.Create("run-1", sampleInput(), profile); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	exec := NewRunExecutor(store)
	if _, err := exec.Start("run-1"); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	exec.Wait()

	got, _ := store.Get("run-1")
	if got.Run.Status != models.RunStatusCompleted {
		t.Fatalf("expected completed, got %v", got.Run.Status)
	}
	o := got.Outcome
	if o.Injection == nil || o.Injected == nil || o.BlastRadius == nil {
		t.Fatalf("expected injection outcome, got %+v", o)
	}
	if len(o.Injection.ImpactedComponentIDs) != 1 || o.Injection.ImpactedComponentIDs[0] != "db" {
		t.Fatalf("expected db to be impacted, got %v", o.Injection.ImpactedComponentIDs)
	}
	if o.Injected.Metrics.ErrorRatePercent <= o.Baseline.Metrics.ErrorRatePercent {
		t.Fatalf("expected injected error rate above baseline: %v <= %v",
			o.Injected.Metrics.ErrorRatePercent, o.Baseline.Metrics.ErrorRatePercent)
	}
	if o.BlastRadius.Mode != models.FailureNodeDown {
		t.Fatalf("expected node-down blast radius, got %s", o.BlastRadius.Mode)
	}
}

func TestRunExecutorStartErrors(t *testing.T) {
	exec := NewRunExecutor(NewRunStore())

	if _, err := exec.Start(""); !errors.Is(err, ErrRunIDMissing) {
		t.Fatalf("expected ErrRunIDMissing, got %v", err)
	}
	if _, err := exec.Start("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := exec.Stop("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound from Stop, got %v", err)
	}
}

func TestRunExecutorStopPendingRun(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Create("run-1", sampleInput(), nil); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	exec := NewRunExecutor(store)

	rec, err := exec.Stop("run-1")
	if err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if rec.Run.Status != models.RunStatusCancelled {
		t.Fatalf("expected cancelled, got %v", rec.Run.Status)
	}

	if _, err := exec.Stop("run-1"); err != nil {
		t.Fatalf("expected repeated Stop to succeed, got %v", err)
	}
	if _, err := exec.Start("run-1"); !errors.Is(err, ErrRunTerminal) {
		t.Fatalf("expected ErrRunTerminal, got %v", err)
	}
}

func TestRunExecutorStopWhileQueued(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector(reg)
	store := NewRunStore()
	if _, err := store.Create("run-1", sampleInput(), nil); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	exec := NewRunExecutor(store, WithMaxParallel(1), WithMetrics(m))

	// Hold the only slot so the run stays queued.
	exec.slots <- struct{}{}
	if _, err := exec.Start("run-1"); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if _, err := exec.Stop("run-1"); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	<-exec.slots
	exec.Wait()

	got, _ := store.Get("run-1")
	if got.Run.Status != models.RunStatusCancelled {
		t.Fatalf("expected cancelled, got %v", got.Run.Status)
	}
	if got.Outcome != nil {
		t.Fatalf("did not expect an outcome for a cancelled run")
	}
	if v := testutil.ToFloat64(m.RunsFinishedTotal.WithLabelValues(string(models.RunStatusCancelled))); v != 1 {
		t.Fatalf("expected 1 cancelled run in metrics, got %v", v)
	}
	if v := testutil.ToFloat64(m.RunsInFlight); v != 0 {
		t.Fatalf("expected no runs in flight, got %v", v)
	}
}

func TestRunExecutorStopAfterCompletion(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Create("run-1", sampleInput(), nil); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	exec := NewRunExecutor(store)
	if _, err := exec.Start("run-1"); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	exec.Wait()

	if _, err := exec.Stop("run-1"); !errors.Is(err, ErrRunTerminal) {
		t.Fatalf("expected ErrRunTerminal, got %v", err)
	}
	got, _ := store.Get("run-1")
	if got.Run.Status != models.RunStatusCompleted {
		t.Fatalf("expected run to stay completed, got %v", got.Run.Status)
	}
}

func TestRunExecutorEvaluateUsesCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCollector(reg)
	mem := cache.NewMemoryCache(16, time.Minute)
	exec := NewRunExecutor(NewRunStore(), WithCache(mem), WithMetrics(m))
	ctx := context.Background()

	first, hit, err := exec.Evaluate(ctx, sampleInput(), nil)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if hit {
		t.Fatalf("did not expect a cache hit on first evaluation")
	}

	second, hit, err := exec.Evaluate(ctx, sampleInput(), nil)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !hit {
		t.Fatalf("expected a cache hit on second evaluation")
	}
	if second.Baseline.Metrics != first.Baseline.Metrics {
		t.Fatalf("expected cached metrics to match: %+v vs %+v", second.Baseline.Metrics, first.Baseline.Metrics)
	}
	if mem.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", mem.Len())
	}

	profile := &models.FailureInjectionProfile{Mode: models.FailureTrafficSurge, SurgeMultiplier: 2}
	if _, hit, _ := exec.Evaluate(ctx, sampleInput(), profile); hit {
		t.Fatalf("expected a profile to change the cache key")
	}

	if v := testutil.ToFloat64(m.SimulationsTotal.WithLabelValues(metrics.KindBaseline, metrics.CacheMiss)); v != 1 {
		t.Fatalf("expected 1 baseline miss, got %v", v)
	}
	if v := testutil.ToFloat64(m.SimulationsTotal.WithLabelValues(metrics.KindBaseline, metrics.CacheHit)); v != 1 {
		t.Fatalf("expected 1 baseline hit, got %v", v)
	}
	if v := testutil.ToFloat64(m.SimulationsTotal.WithLabelValues(metrics.KindInjection, metrics.CacheMiss)); v != 1 {
		t.Fatalf("expected 1 injection miss, got %v", v)
	}
}

func TestRunExecutorEvaluateHonorsContext(t *testing.T) {
	exec := NewRunExecutor(NewRunStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := exec.Evaluate(ctx, sampleInput(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunExecutorCompare(t *testing.T) {
	exec := NewRunExecutor(NewRunStore(), WithMaxParallel(2))
	profiles := []models.FailureInjectionProfile{
		{Mode: models.FailureNodeDown, TargetComponentID: "db"},
		{Mode: models.FailureDependencyLag, TargetComponentID: "api", LagMs: 10},
	}

	report, err := exec.Compare(context.Background(), sampleInput(), profiles)
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if len(report.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(report.Outcomes))
	}
	if report.MostDisruptive != "node-down:db" {
		t.Fatalf("expected node-down:db to be most disruptive, got %q", report.MostDisruptive)
	}
}
