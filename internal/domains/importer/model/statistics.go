package model

import (
	"sync"
	"sync/atomic"
)

// ImportStatistics accumulates counters for one run. Counters are
// atomic and the error map is mutex-guarded, so the run loop and any
// observer polling a snapshot never race.
//
// Invariant: total = successful + failed + skipped once the run ends.
type ImportStatistics struct {
	total      atomic.Int64
	successful atomic.Int64
	failed     atomic.Int64
	skipped    atomic.Int64

	mu        sync.Mutex
	rowErrors map[int64][]ValidationError
}

func NewImportStatistics() *ImportStatistics {
	return &ImportStatistics{
		rowErrors: make(map[int64][]ValidationError),
	}
}

func (s *ImportStatistics) IncTotal()      { s.total.Add(1) }
func (s *ImportStatistics) IncSuccessful() { s.successful.Add(1) }
func (s *ImportStatistics) IncFailed()     { s.failed.Add(1) }
func (s *ImportStatistics) IncSkipped()    { s.skipped.Add(1) }

// RecordRowErrors stores the errors for a failed row.
func (s *ImportStatistics) RecordRowErrors(row int64, errs []ValidationError) {
	if len(errs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowErrors[row] = append(s.rowErrors[row], errs...)
}

// StatisticsSnapshot is the JSON-safe view of the counters.
type StatisticsSnapshot struct {
	Total      int64                       `json:"total"`
	Successful int64                       `json:"successful"`
	Failed     int64                       `json:"failed"`
	Skipped    int64                       `json:"skipped"`
	RowErrors  map[int64][]ValidationError `json:"row_errors,omitempty"`
}

// Snapshot copies the current state. The error map is deep-copied so
// callers can hold it while the run keeps appending.
func (s *ImportStatistics) Snapshot() StatisticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make(map[int64][]ValidationError, len(s.rowErrors))
	for row, list := range s.rowErrors {
		cp := make([]ValidationError, len(list))
		copy(cp, list)
		errs[row] = cp
	}

	return StatisticsSnapshot{
		Total:      s.total.Load(),
		Successful: s.successful.Load(),
		Failed:     s.failed.Load(),
		Skipped:    s.skipped.Load(),
		RowErrors:  errs,
	}
}
