package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedtalks-backend/internal/domains/analysis/model"
	talkmodel "tedtalks-backend/internal/domains/talk/model"
	"tedtalks-backend/pkg/workerpool"
)

// fakeTalkRepo serves talks from a slice in order.
type fakeTalkRepo struct {
	talks   []talkmodel.Talk
	streams int
}

func (f *fakeTalkRepo) StreamAll(_ context.Context, fn func(talkmodel.Talk) error) error {
	f.streams++
	for _, t := range f.talks {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTalkRepo) GetBySpeakerName(_ context.Context, name string) ([]talkmodel.Talk, error) {
	var out []talkmodel.Talk
	for _, t := range f.talks {
		if t.SpeakerName == name {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTalkRepo) List(context.Context) ([]talkmodel.Talk, error) { return nil, nil }
func (f *fakeTalkRepo) GetByID(context.Context, uuid.UUID) (*talkmodel.Talk, error) {
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
func (f *fakeTalkRepo) ExistsByTitleAndSpeakerIDTx(context.Context, pgx.Tx, string, uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeTalkRepo) SaveBatchTx(context.Context, pgx.Tx, []talkmodel.Talk) error { return nil }
func (f *fakeTalkRepo) InvalidateCache(context.Context)                             {}

// fakeCache round-trips values through JSON like the redis cache does.
type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

func talk(speaker string, year int, views, likes int64) talkmodel.Talk {
	return talkmodel.Talk{
		ID:          uuid.New(),
		Title:       speaker + " talk",
		SpeakerName: speaker,
		Year:        year,
		Month:       1,
		Views:       views,
		Likes:       likes,
		Link:        "https://ted.com/talks/x",
	}
}

func newTestService(t *testing.T, talks ...talkmodel.Talk) (ServiceInterface, *fakeTalkRepo, *fakeCache) {
	t.Helper()

	pool := workerpool.New("analysis-test", 4, 100)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})

	repo := &fakeTalkRepo{talks: talks}
	cache := newFakeCache()
	return NewAnalysisService(repo, cache, pool), repo, cache
}

func TestTopInfluentialSpeakersOrdersByTotalScore(t *testing.T) {
	svc, _, _ := newTestService(t,
		talk("Low", 2020, 100, 10),
		talk("High", 2021, 1_000_000, 50_000),
		talk("Mid", 2021, 10_000, 1_000),
		talk("High", 2022, 500_000, 10_000),
	)

	top, err := svc.TopInfluentialSpeakers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, "High", top[0].Speaker)
	assert.Equal(t, "Mid", top[1].Speaker)
	assert.Equal(t, "Low", top[2].Speaker)

	assert.Equal(t, 2, top[0].TotalTalks)
	assert.EqualValues(t, 1_500_000, top[0].TotalViews)
	assert.Equal(t, 2021, top[0].FirstTalkYear)
	assert.Equal(t, 2022, top[0].LastTalkYear)
}

func TestTopInfluentialSpeakersTruncatesToLimit(t *testing.T) {
	svc, _, _ := newTestService(t,
		talk("A", 2020, 300, 0),
		talk("B", 2020, 200, 0),
		talk("C", 2020, 100, 0),
	)

	top, err := svc.TopInfluentialSpeakers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Speaker)
	assert.Equal(t, "B", top[1].Speaker)
}

func TestTopInfluentialSpeakersTieKeepsEncounterOrder(t *testing.T) {
	svc, _, _ := newTestService(t,
		talk("First", 2020, 100, 100),
		talk("Second", 2021, 100, 100),
	)

	top, err := svc.TopInfluentialSpeakers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "First", top[0].Speaker)
	assert.Equal(t, "Second", top[1].Speaker)
}

func TestTopInfluentialSpeakersRejectsBadLimit(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.TopInfluentialSpeakers(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrInvalidLimit)

	_, err = svc.TopInfluentialSpeakers(context.Background(), -5)
	assert.ErrorIs(t, err, model.ErrInvalidLimit)
}

func TestTopInfluentialSpeakersExactScores(t *testing.T) {
	svc, _, _ := newTestService(t, talk("Solo", 2021, 1_000_000, 50_000))

	top, err := svc.TopInfluentialSpeakers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)

	want := decimal.NewFromInt(715_000)
	assert.True(t, top[0].TotalInfluenceScore.Equal(want), "got %s", top[0].TotalInfluenceScore)
	assert.True(t, top[0].AverageInfluenceScore.Equal(want), "got %s", top[0].AverageInfluenceScore)
}

func TestTopInfluentialSpeakersServedFromCache(t *testing.T) {
	svc, repo, _ := newTestService(t, talk("A", 2020, 100, 10))

	_, err := svc.TopInfluentialSpeakers(context.Background(), 5)
	require.NoError(t, err)

	again, err := svc.TopInfluentialSpeakers(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, 1, repo.streams, "second call must not hit the repository")
}

func TestMostInfluentialTalkPerYear(t *testing.T) {
	winner2021 := talk("Big", 2021, 1_000_000, 50_000)
	svc, _, _ := newTestService(t,
		talk("Small", 2021, 100, 10),
		winner2021,
		talk("Only", 2020, 500, 50),
	)

	highlights, err := svc.MostInfluentialTalkPerYear(context.Background())
	require.NoError(t, err)
	require.Len(t, highlights, 2)

	assert.Equal(t, 2020, highlights[0].Year)
	assert.Equal(t, "Only talk", highlights[0].Talk.Title)
	assert.Equal(t, 2021, highlights[1].Year)
	assert.Equal(t, winner2021.ID, highlights[1].Talk.ID)
}

func TestMostInfluentialTalkPerYearFirstWinsTies(t *testing.T) {
	first := talk("First", 2021, 100, 100)
	second := talk("Second", 2021, 100, 100)
	svc, _, _ := newTestService(t, first, second)

	highlights, err := svc.MostInfluentialTalkPerYear(context.Background())
	require.NoError(t, err)
	require.Len(t, highlights, 1)
	assert.Equal(t, first.ID, highlights[0].Talk.ID)
}

func TestAnalyzeSpeaker(t *testing.T) {
	svc, _, _ := newTestService(t,
		talk("Alice", 2020, 100, 10),
		talk("Alice", 2022, 200, 20),
		talk("Bob", 2021, 300, 30),
	)

	summary, err := svc.AnalyzeSpeaker(context.Background(), "Alice")
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, "Alice", summary.Speaker)
	assert.Equal(t, 2, summary.TotalTalks)
	assert.EqualValues(t, 300, summary.TotalViews)
	assert.Equal(t, 2020, summary.FirstTalkYear)
	assert.Equal(t, 2022, summary.LastTalkYear)
}

func TestAnalyzeSpeakerAbsent(t *testing.T) {
	svc, _, _ := newTestService(t, talk("Alice", 2020, 100, 10))

	summary, err := svc.AnalyzeSpeaker(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Nil(t, summary)

	summary, err = svc.AnalyzeSpeaker(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestAnalysisCacheBucketsEvictByPattern(t *testing.T) {
	svc, repo, cache := newTestService(t, talk("Alice", 2020, 100, 10))

	_, err := svc.TopInfluentialSpeakers(context.Background(), 5)
	require.NoError(t, err)
	_, err = svc.MostInfluentialTalkPerYear(context.Background())
	require.NoError(t, err)

	require.NoError(t, cache.DeletePattern(context.Background(), "analysis:*"))

	_, err = svc.TopInfluentialSpeakers(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.streams, "eviction must force recomputation")
}
