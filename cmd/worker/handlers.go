package main

import (
	"github.com/hibiken/asynq"

	analysisJob "tedtalks-backend/internal/domains/analysis/job"
	importerJob "tedtalks-backend/internal/domains/importer/job"
	"tedtalks-backend/internal/shared"
	"tedtalks-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	refreshCache   *analysisJob.RefreshCacheHandler
	cleanupUploads *importerJob.CleanupUploadsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	var store importerJob.UploadStore
	if c.Storage != nil {
		store = c.Storage
	}

	return &HandlerRegistry{
		refreshCache: analysisJob.NewRefreshCacheHandler(c.Cache),
		cleanupUploads: importerJob.NewCleanupUploadsHandler(
			store,
			c.ImportRegistry,
			c.Config.Import.RetentionDays,
		),
	}
}

func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeRefreshAnalysisCache, r.refreshCache)
	mux.Handle(shared.TypeCleanupImportUploads, r.cleanupUploads)
}
