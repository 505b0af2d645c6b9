package service

import (
	"context"

	"github.com/google/uuid"

	"tedtalks-backend/internal/domains/importer/model"
)

type ServiceInterface interface {
	// SubmitImport registers a run, archives the source and schedules
	// the import. It returns as soon as the run is dispatched.
	SubmitImport(ctx context.Context, filename string, data []byte) (*model.ImportRun, error)
	GetStatus(runID uuid.UUID) (*model.ImportRunResponse, error)
	GetErrors(runID uuid.UUID) (*model.ImportErrorsResponse, error)
}

// ObjectStore archives import sources for auditing.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
