package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"tedtalks-backend/internal/shared"
	"tedtalks-backend/pkg/logger"
)

type Scheduler struct {
	scheduler     *asynq.Scheduler
	retentionDays int
}

func NewScheduler(redisAddress, redisPassword string, retentionDays int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress, Password: redisPassword},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:     scheduler,
		retentionDays: retentionDays,
	}
}

func (s *Scheduler) RegisterJobs() error {
	if err := s.registerRefreshAnalysisCacheJob(); err != nil {
		return err
	}
	if err := s.registerCleanupImportUploadsJob(); err != nil {
		return err
	}
	return nil
}

// Daily cache clear at 2 AM. Mutation-time eviction is the primary
// mechanism; this bounds how long a missed eviction can linger.
func (s *Scheduler) registerRefreshAnalysisCacheJob() error {
	payload, err := json.Marshal(shared.RefreshAnalysisCachePayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRefreshAnalysisCache, payload)

	_, err = s.scheduler.Register(
		"0 2 * * *", // Daily at 2 AM
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register RefreshAnalysisCache job", err)
		return err
	}

	logger.Info("Registered RefreshAnalysisCache: daily at 2 AM", nil)
	return nil
}

// Weekly prune of archived import sources and finished runs.
func (s *Scheduler) registerCleanupImportUploadsJob() error {
	payload, err := json.Marshal(shared.CleanupImportUploadsPayload{
		RetentionDays: s.retentionDays,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupImportUploads, payload)

	_, err = s.scheduler.Register(
		"0 3 * * 0", // Sundays at 3 AM
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CleanupImportUploads job", err)
		return err
	}

	logger.Info("Registered CleanupImportUploads: Sundays at 3 AM", nil)
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
