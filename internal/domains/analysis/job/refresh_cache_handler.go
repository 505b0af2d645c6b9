package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"tedtalks-backend/internal/shared"
	"tedtalks-backend/pkg/cache"
)

// RefreshCacheHandler clears every analysis bucket on schedule. The
// next read recomputes against current data; a nightly clear bounds
// how long a missed eviction can linger.
type RefreshCacheHandler struct {
	cache cache.Cache
}

func NewRefreshCacheHandler(cache cache.Cache) *RefreshCacheHandler {
	return &RefreshCacheHandler{
		cache: cache,
	}
}

func (h *RefreshCacheHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if err := h.cache.DeletePattern(ctx, shared.CachePatternAnalysis); err != nil {
		log.Error().Err(err).Msg("failed to clear analysis caches")
		return err
	}
	if err := h.cache.Delete(ctx, shared.CacheKeyTalksAll, shared.CacheKeySpeakersAll); err != nil {
		log.Error().Err(err).Msg("failed to clear list caches")
		return err
	}

	log.Info().Msg("analysis caches cleared")
	return nil
}
