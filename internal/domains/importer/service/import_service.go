package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"tedtalks-backend/internal/domains/importer/csv"
	"tedtalks-backend/internal/domains/importer/excel"
	"tedtalks-backend/internal/domains/importer/model"
	"tedtalks-backend/internal/domains/importer/registry"
	speakermodel "tedtalks-backend/internal/domains/speaker/model"
	speakerrepo "tedtalks-backend/internal/domains/speaker/repository"
	talkmodel "tedtalks-backend/internal/domains/talk/model"
	talkrepo "tedtalks-backend/internal/domains/talk/repository"
	"tedtalks-backend/pkg/database"
	"tedtalks-backend/pkg/workerpool"
)

// importService coordinates a run end to end: archive the source,
// stream rows through validation and mapping, resolve speakers, batch
// the upserts inside one transaction and settle the run status.
type importService struct {
	speakerRepo speakerrepo.RepositoryInterface
	talkRepo    talkrepo.RepositoryInterface
	registry    *registry.Registry
	storage     ObjectStore
	workers     *workerpool.Pool
	mapper      *csv.Mapper
	batchSize   int

	// withTx wraps the run body in a fresh transaction. Tests swap it
	// for a passthrough.
	withTx func(ctx context.Context, fn database.TxFunc) error
}

// NewImportService creates a new import service instance. storage may
// be nil when no object store is configured.
func NewImportService(
	pool *pgxpool.Pool,
	speakerRepo speakerrepo.RepositoryInterface,
	talkRepo talkrepo.RepositoryInterface,
	reg *registry.Registry,
	storage ObjectStore,
	workers *workerpool.Pool,
	batchSize int,
) ServiceInterface {
	return &importService{
		speakerRepo: speakerRepo,
		talkRepo:    talkRepo,
		registry:    reg,
		storage:     storage,
		workers:     workers,
		mapper:      csv.NewMapper(csv.NewValidator()),
		batchSize:   batchSize,
		withTx: func(ctx context.Context, fn database.TxFunc) error {
			return database.WithTransaction(ctx, pool, fn)
		},
	}
}

func (s *importService) SubmitImport(ctx context.Context, filename string, data []byte) (*model.ImportRun, error) {
	if len(data) == 0 {
		return nil, model.ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, model.ErrUnsupportedFormat
	}

	run := s.registry.Start(filename)

	s.archiveSource(ctx, run.RunID, filename, ext, data)

	log.Info().
		Str("run_id", run.RunID.String()).
		Str("filename", filename).
		Int("size_bytes", len(data)).
		Msg("import run dispatched")

	// The request context dies with the HTTP response; the run gets
	// its own.
	s.workers.Submit(func() {
		s.executeRun(context.Background(), run, filename, data)
	})

	return run, nil
}

// archiveSource keeps an audit copy of the uploaded file. Archiving is
// best effort: a storage outage must not block imports.
func (s *importService) archiveSource(ctx context.Context, runID uuid.UUID, filename, ext string, data []byte) {
	if s.storage == nil {
		return
	}

	contentType := "text/csv"
	if ext == ".xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	key := fmt.Sprintf("imports/%s/%s", runID, filepath.Base(filename))
	if _, err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		log.Warn().Err(err).Str("run_id", runID.String()).Msg("failed to archive import source")
	}
}

func (s *importService) openSource(filename string, data []byte) (model.RecordSource, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".xlsx" {
		return excel.NewParser(data)
	}
	return csv.NewParser(io.NopCloser(bytes.NewReader(data)))
}

// executeRun runs the whole import inside one transaction. A run-level
// failure rolls back every row; nothing partial ever commits.
func (s *importService) executeRun(ctx context.Context, run *model.ImportRun, filename string, data []byte) {
	source, err := s.openSource(filename, data)
	if err != nil {
		log.Error().Err(err).Str("run_id", run.RunID.String()).Msg("import run failed to open source")
		s.registry.Fail(run.RunID, fmt.Sprintf("failed to open source: %v", err))
		return
	}
	defer source.Close()

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		return s.processRows(ctx, tx, run, source)
	})
	if err != nil {
		log.Error().Err(err).Str("run_id", run.RunID.String()).Msg("import run failed")
		s.registry.Fail(run.RunID, err.Error())
		return
	}

	// Evict after commit so a concurrent reader cannot re-cache the
	// pre-import state between flush and commit.
	s.talkRepo.InvalidateCache(ctx)
	s.registry.Complete(run.RunID)

	snap := run.Statistics.Snapshot()
	log.Info().
		Str("run_id", run.RunID.String()).
		Int64("total", snap.Total).
		Int64("successful", snap.Successful).
		Int64("failed", snap.Failed).
		Int64("skipped", snap.Skipped).
		Msg("import run finished")
}

func (s *importService) processRows(ctx context.Context, tx pgx.Tx, run *model.ImportRun, source model.RecordSource) error {
	stats := run.Statistics

	// Run-scoped speaker cache: at most one lookup and one insert per
	// distinct name per run.
	speakers := make(map[string]uuid.UUID)

	batch := make([]talkmodel.Talk, 0, s.batchSize)

	for {
		raw, ok := source.Next()
		if !ok {
			break
		}

		stats.IncTotal()

		result := s.mapper.Map(raw)
		if !result.Ok() {
			stats.RecordRowErrors(raw.Row, result.Errors)
			stats.IncFailed()
			continue
		}
		rec := result.Record

		speakerID, err := s.resolveSpeaker(ctx, tx, speakers, rec.SpeakerName)
		if err != nil {
			return fmt.Errorf("row %d: resolve speaker %q: %w", raw.Row, rec.SpeakerName, err)
		}

		exists, err := s.talkRepo.ExistsByTitleAndSpeakerIDTx(ctx, tx, rec.Title, speakerID)
		if err != nil {
			return fmt.Errorf("row %d: check duplicate: %w", raw.Row, err)
		}
		if exists {
			// Skipped, but still batched: the upsert refreshes the
			// existing talk's views and likes.
			stats.IncSkipped()
		} else {
			stats.IncSuccessful()
		}

		batch = append(batch, talkmodel.Talk{
			Title:     rec.Title,
			SpeakerID: speakerID,
			Year:      rec.Year,
			Month:     rec.Month,
			Views:     rec.Views,
			Likes:     rec.Likes,
			Link:      rec.Link,
		})

		if len(batch) >= s.batchSize {
			if err := s.talkRepo.SaveBatchTx(ctx, tx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if err := source.Err(); err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	if len(batch) > 0 {
		if err := s.talkRepo.SaveBatchTx(ctx, tx, batch); err != nil {
			return err
		}
	}

	return nil
}

func (s *importService) resolveSpeaker(ctx context.Context, tx pgx.Tx, cache map[string]uuid.UUID, name string) (uuid.UUID, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	sp, err := s.speakerRepo.FindByNameTx(ctx, tx, name)
	if errors.Is(err, speakermodel.ErrSpeakerNotFound) {
		sp, err = s.speakerRepo.CreateTx(ctx, tx, name)
	}
	if err != nil {
		return uuid.Nil, err
	}

	cache[name] = sp.ID
	return sp.ID, nil
}

func (s *importService) GetStatus(runID uuid.UUID) (*model.ImportRunResponse, error) {
	run, err := s.registry.Get(runID)
	if err != nil {
		return nil, err
	}
	return run.ToResponse(), nil
}

func (s *importService) GetErrors(runID uuid.UUID) (*model.ImportErrorsResponse, error) {
	run, err := s.registry.Get(runID)
	if err != nil {
		return nil, err
	}

	snap := run.Statistics.Snapshot()

	rows := make([]int64, 0, len(snap.RowErrors))
	for row := range snap.RowErrors {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })

	var flat []model.ValidationError
	for _, row := range rows {
		flat = append(flat, snap.RowErrors[row]...)
	}

	return &model.ImportErrorsResponse{
		ImportID:       run.RunID,
		TotalErrors:    len(flat),
		FailedRowCount: len(snap.RowErrors),
		Errors:         flat,
	}, nil
}
