package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"tedtalks-backend/internal/config"
	infraCache "tedtalks-backend/internal/infrastructure/cache"
	"tedtalks-backend/internal/infrastructure/database"
	"tedtalks-backend/internal/infrastructure/storage"
	"tedtalks-backend/pkg/cache"
	"tedtalks-backend/pkg/workerpool"

	analysisHandler "tedtalks-backend/internal/domains/analysis/handler"
	analysisService "tedtalks-backend/internal/domains/analysis/service"
	importerHandler "tedtalks-backend/internal/domains/importer/handler"
	"tedtalks-backend/internal/domains/importer/registry"
	importerService "tedtalks-backend/internal/domains/importer/service"
	speakerHandler "tedtalks-backend/internal/domains/speaker/handler"
	speakerRepo "tedtalks-backend/internal/domains/speaker/repository"
	speakerService "tedtalks-backend/internal/domains/speaker/service"
	talkHandler "tedtalks-backend/internal/domains/talk/handler"
	talkRepo "tedtalks-backend/internal/domains/talk/repository"
	talkService "tedtalks-backend/internal/domains/talk/service"
)

// Container is the root of the dependency graph. Everything in it is
// a singleton living for the whole process.
type Container struct {
	Config  *config.Config
	DB      *database.PostgresDB
	Cache   cache.Cache
	Storage *storage.MinIOStorage

	ImportPool   *workerpool.Pool
	AnalysisPool *workerpool.Pool

	ImportRegistry *registry.Registry

	SpeakerRepo speakerRepo.RepositoryInterface
	TalkRepo    talkRepo.RepositoryInterface

	SpeakerService  speakerService.ServiceInterface
	TalkService     talkService.ServiceInterface
	ImportService   importerService.ServiceInterface
	AnalysisService analysisService.ServiceInterface

	SpeakerHandler  *speakerHandler.SpeakerHandler
	TalkHandler     *talkHandler.TalkHandler
	ImportHandler   *importerHandler.ImportHandler
	AnalysisHandler *analysisHandler.AnalysisHandler
}

// NewContainer builds the whole graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("Database connected")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Cache misses are survivable; a dead cache only costs speed.
		log.Printf("WARNING: Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("Redis connected")
	}
	c.Cache = redisCache

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		// Same policy as the cache: imports still run, only the audit
		// copies are lost.
		log.Printf("WARNING: MinIO initialization failed (non-critical): %v", err)
	} else {
		c.Storage = minioStorage
		log.Println("MinIO storage ready")
	}

	c.ImportPool = workerpool.New("import", cfg.Import.Workers, cfg.Import.QueueSize)
	c.AnalysisPool = workerpool.New("analysis", cfg.Analysis.Workers, cfg.Analysis.QueueSize)
	c.ImportRegistry = registry.New()

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("Container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.SpeakerRepo = speakerRepo.NewPostgresRepository(pool, c.Cache)
	c.TalkRepo = talkRepo.NewPostgresRepository(pool, c.Cache)
}

func (c *Container) initServices() {
	c.SpeakerService = speakerService.NewSpeakerService(c.SpeakerRepo)
	c.TalkService = talkService.NewTalkService(c.TalkRepo, c.SpeakerRepo)

	// Interfaces don't survive a nil concrete pointer; pass a real nil
	// when storage is absent.
	var store importerService.ObjectStore
	if c.Storage != nil {
		store = c.Storage
	}
	c.ImportService = importerService.NewImportService(
		c.DB.Pool,
		c.SpeakerRepo,
		c.TalkRepo,
		c.ImportRegistry,
		store,
		c.ImportPool,
		c.Config.Import.BatchSize,
	)

	c.AnalysisService = analysisService.NewAnalysisService(c.TalkRepo, c.Cache, c.AnalysisPool)
}

func (c *Container) initHandlers() {
	c.SpeakerHandler = speakerHandler.NewSpeakerHandler(c.SpeakerService)
	c.TalkHandler = talkHandler.NewTalkHandler(c.TalkService)
	c.ImportHandler = importerHandler.NewImportHandler(c.ImportService)
	c.AnalysisHandler = analysisHandler.NewAnalysisHandler(c.AnalysisService)
}

// Cleanup drains the pools and closes every connection. Call on
// shutdown after the HTTP server has stopped accepting requests.
func (c *Container) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if c.ImportPool != nil {
		if err := c.ImportPool.Shutdown(ctx); err != nil {
			log.Printf("import pool shutdown: %v", err)
		}
	}
	if c.AnalysisPool != nil {
		if err := c.AnalysisPool.Shutdown(ctx); err != nil {
			log.Printf("analysis pool shutdown: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("Container cleaned up")
}
