package shared

import "time"

// Asynq task types.
const (
	TypeRefreshAnalysisCache = "analysis:refresh_cache"
	TypeCleanupImportUploads = "import:cleanup_uploads"
)

// Asynq queue names.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// CacheTTL is the backstop expiry on every cached bucket. Eviction on
// mutation is the primary mechanism; the TTL only bounds staleness if
// an eviction is ever missed.
const CacheTTL = 24 * time.Hour

// Cache buckets. Any talk or speaker mutation evicts all of them:
// coarse, but it can never serve a stale ranking.
const (
	CacheKeyTalksAll    = "talks:all"
	CacheKeySpeakersAll = "speakers:all"

	CacheKeyAnalysisPerYear       = "analysis:per_year"
	CacheKeyPrefixTopSpeakers     = "analysis:top_speakers:"
	CacheKeyPrefixSpeakerAnalysis = "analysis:speaker:"

	// Matches every analysis bucket above.
	CachePatternAnalysis = "analysis:*"
)

// CleanupImportUploadsPayload is the payload for the retention job.
type CleanupImportUploadsPayload struct {
	RetentionDays int `json:"retention_days"`
}

// RefreshAnalysisCachePayload is the payload for the scheduled cache clear.
type RefreshAnalysisCachePayload struct{}
