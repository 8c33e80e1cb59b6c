package simd

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/utils"
)

// RunRecord is everything the daemon keeps about one run.
type RunRecord struct {
	Run            models.Run
	Input          models.SimulationInput
	Profile        *models.FailureInjectionProfile
	Outcome        *models.RunOutcome
	CallbackURL    string
	CallbackSecret string
}

// RunStore is an in-memory run registry. Records handed out are snapshots;
// mutate them through the store.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

func (r *RunRecord) snapshot() *RunRecord {
	cp := *r
	if r.Profile != nil {
		p := *r.Profile
		cp.Profile = &p
	}
	return &cp
}

// Create registers a pending run. An empty runID gets a generated one.
func (s *RunStore) Create(runID string, input models.SimulationInput, profile *models.FailureInjectionProfile) (*RunRecord, error) {
	if err := utils.ValidateRunID(runID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = utils.GenerateRunID()
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrRunExists, runID)
	}

	rec := &RunRecord{
		Run: models.Run{
			ID:              runID,
			Status:          models.RunStatusPending,
			CreatedAtUnixMs: nowUnixMs(),
		},
		Input: input.Clone(),
	}
	if profile != nil {
		p := *profile
		rec.Profile = &p
	}
	s.runs[runID] = rec
	return rec.snapshot(), nil
}

func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	return rec.snapshot(), true
}

// List returns up to limit runs, newest first. An empty status matches all.
func (s *RunStore) List(limit int, status models.RunStatus) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		if status != "" && rec.Run.Status != status {
			continue
		}
		out = append(out, rec.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Run.CreatedAtUnixMs != out[j].Run.CreatedAtUnixMs {
			return out[i].Run.CreatedAtUnixMs > out[j].Run.CreatedAtUnixMs
		}
		return out[i].Run.ID < out[j].Run.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetStatus moves a run to status. A terminal run only accepts its own
// status again; any other transition fails with ErrRunTerminal.
func (s *RunStore) SetStatus(runID string, status models.RunStatus, errMsg string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if rec.Run.Status.Terminal() {
		if rec.Run.Status == status {
			return rec.snapshot(), nil
		}
		return nil, fmt.Errorf("%w: %s is %s", ErrRunTerminal, runID, rec.Run.Status)
	}

	rec.Run.Status = status
	if errMsg != "" {
		rec.Run.Error = errMsg
	}

	switch status {
	case models.RunStatusRunning:
		if rec.Run.StartedAtUnixMs == 0 {
			rec.Run.StartedAtUnixMs = nowUnixMs()
		}
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCancelled:
		rec.Run.EndedAtUnixMs = nowUnixMs()
	}

	return rec.snapshot(), nil
}

// Complete stores the outcome and marks the run completed in one step, so
// readers never see a completed run without its outcome.
func (s *RunStore) Complete(runID string, outcome *models.RunOutcome, cacheHit bool) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if rec.Run.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrRunTerminal, runID, rec.Run.Status)
	}

	rec.Outcome = outcome
	rec.Run.CacheHit = cacheHit
	rec.Run.Status = models.RunStatusCompleted
	rec.Run.EndedAtUnixMs = nowUnixMs()
	return rec.snapshot(), nil
}

// SetCallback attaches a completion callback to a run.
func (s *RunStore) SetCallback(runID, callbackURL, callbackSecret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	rec.CallbackURL = callbackURL
	rec.CallbackSecret = callbackSecret
	return nil
}
