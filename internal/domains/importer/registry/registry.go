package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tedtalks-backend/internal/domains/importer/model"
)

// Registry tracks import runs in memory. Runs survive only as long as
// the process; Evict bounds growth for long-lived deployments.
type Registry struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*model.ImportRun
}

func New() *Registry {
	return &Registry{
		runs: make(map[uuid.UUID]*model.ImportRun),
	}
}

// Start registers a fresh run and moves it straight to PROCESSING.
// A run is never observable in PENDING for longer than registration.
func (r *Registry) Start(filename string) *model.ImportRun {
	run := model.NewImportRun(filename)
	run.Status = model.StatusProcessing

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.RunID] = run
	return run
}

// Get returns the run or model.ErrRunNotFound.
func (r *Registry) Get(runID uuid.UUID) (*model.ImportRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[runID]
	if !ok {
		return nil, model.ErrRunNotFound
	}
	return run, nil
}

// Complete finishes a run. Any failed row downgrades the status to
// PARTIALLY_COMPLETED; a run with zero rows completes cleanly.
func (r *Registry) Complete(runID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[runID]
	if !ok {
		return
	}

	now := time.Now()
	run.CompletedAt = &now
	if run.Statistics.Snapshot().Failed > 0 {
		run.Status = model.StatusPartiallyCompleted
	} else {
		run.Status = model.StatusCompleted
	}
}

// Fail marks the whole run failed with a run-level message.
// Last writer wins if Complete and Fail ever race.
func (r *Registry) Fail(runID uuid.UUID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[runID]
	if !ok {
		return
	}

	now := time.Now()
	run.CompletedAt = &now
	run.Status = model.StatusFailed
	run.Errors = append(run.Errors, message)
}

// Evict drops finished runs that completed before the cutoff.
// In-flight runs are never evicted. Returns how many were dropped.
func (r *Registry) Evict(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, run := range r.runs {
		if run.CompletedAt != nil && run.CompletedAt.Before(cutoff) {
			delete(r.runs, id)
			evicted++
		}
	}
	return evicted
}

// Len reports how many runs are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}
