package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedtalks-backend/internal/domains/importer/csv"
	"tedtalks-backend/internal/domains/importer/model"
	"tedtalks-backend/internal/domains/importer/registry"
	speakermodel "tedtalks-backend/internal/domains/speaker/model"
	talkmodel "tedtalks-backend/internal/domains/talk/model"
	"tedtalks-backend/pkg/database"
	"tedtalks-backend/pkg/workerpool"
)

// fakeSpeakerRepo keeps speakers in a map and counts inserts.
type fakeSpeakerRepo struct {
	mu       sync.Mutex
	byName   map[string]uuid.UUID
	inserted int
}

func newFakeSpeakerRepo() *fakeSpeakerRepo {
	return &fakeSpeakerRepo{byName: make(map[string]uuid.UUID)}
}

func (f *fakeSpeakerRepo) FindByNameTx(_ context.Context, _ pgx.Tx, name string) (*speakermodel.Speaker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byName[name]; ok {
		return &speakermodel.Speaker{ID: id, Name: name}, nil
	}
	return nil, speakermodel.ErrSpeakerNotFound
}

func (f *fakeSpeakerRepo) CreateTx(_ context.Context, _ pgx.Tx, name string) (*speakermodel.Speaker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.byName[name] = id
	f.inserted++
	return &speakermodel.Speaker{ID: id, Name: name}, nil
}

func (f *fakeSpeakerRepo) Create(context.Context, *speakermodel.Speaker) (*speakermodel.Speaker, error) {
	return nil, nil
}
func (f *fakeSpeakerRepo) GetByID(context.Context, uuid.UUID) (*speakermodel.Speaker, error) {
	return nil, nil
}
func (f *fakeSpeakerRepo) GetByName(context.Context, string) (*speakermodel.Speaker, error) {
	return nil, nil
}
func (f *fakeSpeakerRepo) ListWithStats(context.Context) ([]speakermodel.SpeakerWithStats, error) {
	return nil, nil
}
func (f *fakeSpeakerRepo) Search(context.Context, string) ([]speakermodel.Speaker, error) {
	return nil, nil
}
func (f *fakeSpeakerRepo) Count(context.Context) (int64, error) { return 0, nil }
func (f *fakeSpeakerRepo) UpdateBio(context.Context, uuid.UUID, string) (*speakermodel.Speaker, error) {
	return nil, nil
}
func (f *fakeSpeakerRepo) Delete(context.Context, uuid.UUID) error          { return nil }
func (f *fakeSpeakerRepo) HasTalks(context.Context, uuid.UUID) (bool, error) { return false, nil }

// fakeTalkRepo records batches and simulates pre-existing talks.
type fakeTalkRepo struct {
	mu          sync.Mutex
	existing    map[string]bool // "title|speaker" pre-seeded duplicates
	batches     [][]talkmodel.Talk
	invalidated int
}

func newFakeTalkRepo() *fakeTalkRepo {
	return &fakeTalkRepo{existing: make(map[string]bool)}
}

func (f *fakeTalkRepo) ExistsByTitleAndSpeakerIDTx(_ context.Context, _ pgx.Tx, title string, _ uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[title], nil
}

func (f *fakeTalkRepo) SaveBatchTx(_ context.Context, _ pgx.Tx, talks []talkmodel.Talk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]talkmodel.Talk, len(talks))
	copy(cp, talks)
	f.batches = append(f.batches, cp)
	return nil
}

func (f *fakeTalkRepo) InvalidateCache(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
}

func (f *fakeTalkRepo) List(context.Context) ([]talkmodel.Talk, error) { return nil, nil }
func (f *fakeTalkRepo) GetByID(context.Context, uuid.UUID) (*talkmodel.Talk, error) {
	return nil, nil
}
func (f *fakeTalkRepo) GetBySpeakerName(context.Context, string) ([]talkmodel.Talk, error) {
	return nil, nil
}
func (f *fakeTalkRepo) GetByYear(context.Context, int) ([]talkmodel.Talk, error) { return nil, nil }
func (f *fakeTalkRepo) SearchByTitle(context.Context, string) ([]talkmodel.Talk, error) {
	return nil, nil
}
func (f *fakeTalkRepo) Count(context.Context) (int64, error) { return 0, nil }
func (f *fakeTalkRepo) Create(context.Context, *talkmodel.Talk) (*talkmodel.Talk, error) {
	return nil, nil
}
func (f *fakeTalkRepo) Update(context.Context, *talkmodel.Talk) (*talkmodel.Talk, error) {
	return nil, nil
}
func (f *fakeTalkRepo) Delete(context.Context, uuid.UUID) error { return nil }
func (f *fakeTalkRepo) StreamAll(context.Context, func(talkmodel.Talk) error) error {
	return nil
}

func (f *fakeTalkRepo) savedTalks() []talkmodel.Talk {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []talkmodel.Talk
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

func newTestService(t *testing.T, speakers *fakeSpeakerRepo, talks *fakeTalkRepo, batchSize int) (*importService, *registry.Registry) {
	t.Helper()

	pool := workerpool.New("import-test", 1, 10)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})

	reg := registry.New()
	return &importService{
		speakerRepo: speakers,
		talkRepo:    talks,
		registry:    reg,
		workers:     pool,
		mapper:      csv.NewMapper(csv.NewValidator()),
		batchSize:   batchSize,
		withTx: func(ctx context.Context, fn database.TxFunc) error {
			return fn(nil)
		},
	}, reg
}

func waitForRun(t *testing.T, reg *registry.Registry, runID uuid.UUID) *model.ImportRun {
	t.Helper()
	require.Eventually(t, func() bool {
		run, err := reg.Get(runID)
		return err == nil && run.CompletedAt != nil
	}, 2*time.Second, 5*time.Millisecond)

	run, err := reg.Get(runID)
	require.NoError(t, err)
	return run
}

const csvHeader = "title,author,date,views,likes,link\n"

func TestSubmitImportHappyPath(t *testing.T) {
	speakers := newFakeSpeakerRepo()
	talks := newFakeTalkRepo()
	svc, reg := newTestService(t, speakers, talks, 1000)

	data := csvHeader +
		"Talk one,Alice,December 2021,100,10,https://ted.com/1\n" +
		"Talk two,Alice,January 2022,200,20,https://ted.com/2\n" +
		"Talk three,Bob,March 2022,300,30,https://ted.com/3\n"

	run, err := svc.SubmitImport(context.Background(), "talks.csv", []byte(data))
	require.NoError(t, err)

	done := waitForRun(t, reg, run.RunID)
	assert.Equal(t, model.StatusCompleted, done.Status)

	snap := done.Statistics.Snapshot()
	assert.EqualValues(t, 3, snap.Total)
	assert.EqualValues(t, 3, snap.Successful)
	assert.EqualValues(t, 0, snap.Failed)
	assert.EqualValues(t, 0, snap.Skipped)

	// Alice appears twice but is inserted once.
	assert.Equal(t, 2, speakers.inserted)
	assert.Len(t, talks.savedTalks(), 3)
	assert.Positive(t, talks.invalidated)
}

func TestSubmitImportRejectsEmptyAndUnknownFormats(t *testing.T) {
	svc, _ := newTestService(t, newFakeSpeakerRepo(), newFakeTalkRepo(), 1000)

	_, err := svc.SubmitImport(context.Background(), "talks.csv", nil)
	assert.ErrorIs(t, err, model.ErrEmptyFile)

	_, err = svc.SubmitImport(context.Background(), "talks.pdf", []byte("x"))
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestImportContinuesPastFailedRows(t *testing.T) {
	speakers := newFakeSpeakerRepo()
	talks := newFakeTalkRepo()
	svc, reg := newTestService(t, speakers, talks, 1000)

	data := csvHeader +
		"Talk one,Alice,December 2021,100,10,https://ted.com/1\n" +
		"Bad talk,Bob,not a date,100,10,https://ted.com/2\n" +
		"Talk three,Carol,May 2022,garbage,30,https://ted.com/3\n" +
		"Talk four,Dave,June 2022,400,40,https://ted.com/4\n"

	run, err := svc.SubmitImport(context.Background(), "talks.csv", []byte(data))
	require.NoError(t, err)

	done := waitForRun(t, reg, run.RunID)
	assert.Equal(t, model.StatusPartiallyCompleted, done.Status)

	snap := done.Statistics.Snapshot()
	assert.EqualValues(t, 4, snap.Total)
	assert.EqualValues(t, 2, snap.Successful)
	assert.EqualValues(t, 2, snap.Failed)
	assert.Len(t, snap.RowErrors, 2)
	assert.Len(t, talks.savedTalks(), 2)
}

func TestImportSkipsExistingTalksButRefreshesThem(t *testing.T) {
	speakers := newFakeSpeakerRepo()
	talks := newFakeTalkRepo()
	talks.existing["Talk one"] = true
	svc, reg := newTestService(t, speakers, talks, 1000)

	data := csvHeader +
		"Talk one,Alice,December 2021,999,99,https://ted.com/1\n" +
		"Talk two,Alice,January 2022,200,20,https://ted.com/2\n"

	run, err := svc.SubmitImport(context.Background(), "talks.csv", []byte(data))
	require.NoError(t, err)

	done := waitForRun(t, reg, run.RunID)
	snap := done.Statistics.Snapshot()
	assert.EqualValues(t, 1, snap.Skipped)
	assert.EqualValues(t, 1, snap.Successful)

	// The duplicate still rides the batch so the upsert refreshes it.
	saved := talks.savedTalks()
	require.Len(t, saved, 2)
	assert.EqualValues(t, 999, saved[0].Views)
}

func TestImportFlushesAtBatchSize(t *testing.T) {
	speakers := newFakeSpeakerRepo()
	talks := newFakeTalkRepo()
	svc, reg := newTestService(t, speakers, talks, 2)

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("Talk one,Alice,December 2021,100,10,https://ted.com/1\n")
	b.WriteString("Talk two,Alice,January 2022,200,20,https://ted.com/2\n")
	b.WriteString("Talk three,Alice,March 2022,300,30,https://ted.com/3\n")

	run, err := svc.SubmitImport(context.Background(), "talks.csv", []byte(b.String()))
	require.NoError(t, err)
	waitForRun(t, reg, run.RunID)

	talks.mu.Lock()
	defer talks.mu.Unlock()
	require.Len(t, talks.batches, 2)
	assert.Len(t, talks.batches[0], 2)
	assert.Len(t, talks.batches[1], 1)
}

func TestImportFailsWholeRunOnBrokenSource(t *testing.T) {
	speakers := newFakeSpeakerRepo()
	talks := newFakeTalkRepo()
	svc, reg := newTestService(t, speakers, talks, 1000)

	// Unterminated quote kills the stream mid-way.
	data := csvHeader +
		"Talk one,Alice,December 2021,100,10,https://ted.com/1\n" +
		"\"broken,Bob,January 2022,200,20,https://ted.com/2\n" +
		"more,Carol"

	run, err := svc.SubmitImport(context.Background(), "talks.csv", []byte(data))
	require.NoError(t, err)

	done := waitForRun(t, reg, run.RunID)
	assert.Equal(t, model.StatusFailed, done.Status)
	require.NotEmpty(t, done.Errors)
	assert.Contains(t, done.Errors[0], "failed to read source")
}

func TestImportEmptyDataRowsCompletes(t *testing.T) {
	svc, reg := newTestService(t, newFakeSpeakerRepo(), newFakeTalkRepo(), 1000)

	run, err := svc.SubmitImport(context.Background(), "talks.csv", []byte(csvHeader))
	require.NoError(t, err)

	done := waitForRun(t, reg, run.RunID)
	assert.Equal(t, model.StatusCompleted, done.Status)
	assert.EqualValues(t, 0, done.Statistics.Snapshot().Total)
}

func TestGetErrorsFlattensSortedByRow(t *testing.T) {
	svc, reg := newTestService(t, newFakeSpeakerRepo(), newFakeTalkRepo(), 1000)

	data := csvHeader +
		"Talk one,Alice,December 2021,100,10,https://ted.com/1\n" +
		",Bob,January 2022,200,20,https://ted.com/2\n" +
		"Talk three,Carol,bad date,300,30,not-a-url\n"

	run, err := svc.SubmitImport(context.Background(), "talks.csv", []byte(data))
	require.NoError(t, err)
	waitForRun(t, reg, run.RunID)

	resp, err := svc.GetErrors(run.RunID)
	require.NoError(t, err)

	assert.Equal(t, run.RunID, resp.ImportID)
	assert.Equal(t, 2, resp.FailedRowCount)
	assert.Equal(t, 3, resp.TotalErrors)
	require.Len(t, resp.Errors, 3)
	assert.EqualValues(t, 2, resp.Errors[0].Row)
	assert.EqualValues(t, 3, resp.Errors[1].Row)
}

func TestGetStatusUnknownRun(t *testing.T) {
	svc, _ := newTestService(t, newFakeSpeakerRepo(), newFakeTalkRepo(), 1000)

	_, err := svc.GetStatus(uuid.New())
	assert.ErrorIs(t, err, model.ErrRunNotFound)

	_, err = svc.GetErrors(uuid.New())
	assert.ErrorIs(t, err, model.ErrRunNotFound)
}
