package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"tedtalks-backend/internal/domains/importer/registry"
	"tedtalks-backend/internal/shared"
	"tedtalks-backend/internal/shared/utils"
)

// UploadStore is the slice of object storage the cleanup job needs.
type UploadStore interface {
	DeleteOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
}

// CleanupUploadsHandler prunes old import source copies from object
// storage and evicts finished runs from the in-memory registry.
type CleanupUploadsHandler struct {
	storage       UploadStore
	registry      *registry.Registry
	retentionDays int
}

func NewCleanupUploadsHandler(storage UploadStore, reg *registry.Registry, retentionDays int) *CleanupUploadsHandler {
	return &CleanupUploadsHandler{
		storage:       storage,
		registry:      reg,
		retentionDays: retentionDays,
	}
}

func (h *CleanupUploadsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CleanupImportUploadsPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		return err
	}

	retentionDays := h.retentionDays
	if payload.RetentionDays > 0 {
		retentionDays = payload.RetentionDays
	}
	retention := time.Duration(retentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention)

	log.Info().
		Int("retention_days", retentionDays).
		Msg("starting import upload cleanup")

	deleted := 0
	if h.storage != nil {
		var err error
		deleted, err = h.storage.DeleteOlderThan(ctx, "imports/", cutoff)
		if err != nil {
			log.Error().Err(err).Msg("failed to prune import uploads")
			return err
		}
	}

	evicted := h.registry.Evict(retention)

	log.Info().
		Int("objects_deleted", deleted).
		Int("runs_evicted", evicted).
		Msg("import upload cleanup finished")

	return nil
}
