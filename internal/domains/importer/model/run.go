package model

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	StatusPending            RunStatus = "PENDING"
	StatusProcessing         RunStatus = "PROCESSING"
	StatusCompleted          RunStatus = "COMPLETED"
	StatusPartiallyCompleted RunStatus = "PARTIALLY_COMPLETED"
	StatusFailed             RunStatus = "FAILED"
)

// ImportRun is the in-memory record of one import. Lives in the
// registry only; runs are not persisted.
type ImportRun struct {
	RunID       uuid.UUID
	Filename    string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Statistics  *ImportStatistics
	// Errors holds run-level failures (unreadable source, storage),
	// as opposed to per-row validation errors in Statistics.
	Errors []string
}

func NewImportRun(filename string) *ImportRun {
	return &ImportRun{
		RunID:      uuid.New(),
		Filename:   filename,
		Status:     StatusPending,
		StartedAt:  time.Now(),
		Statistics: NewImportStatistics(),
	}
}

type ImportRunResponse struct {
	RunID       uuid.UUID          `json:"run_id"`
	Filename    string             `json:"filename"`
	Status      RunStatus          `json:"status"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Statistics  StatisticsSnapshot `json:"statistics"`
	Errors      []string           `json:"errors,omitempty"`
}

func (r *ImportRun) ToResponse() *ImportRunResponse {
	snap := r.Statistics.Snapshot()
	snap.RowErrors = nil // full errors live on the errors endpoint
	return &ImportRunResponse{
		RunID:       r.RunID,
		Filename:    r.Filename,
		Status:      r.Status,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Statistics:  snap,
		Errors:      r.Errors,
	}
}

// ImportErrorsResponse is the payload of the run errors endpoint.
type ImportErrorsResponse struct {
	ImportID       uuid.UUID         `json:"import_id"`
	TotalErrors    int               `json:"total_errors"`
	FailedRowCount int               `json:"failed_row_count"`
	Errors         []ValidationError `json:"errors"`
}
