package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tedtalks-backend/internal/domains/analysis/model"
	talkmodel "tedtalks-backend/internal/domains/talk/model"
	talkrepo "tedtalks-backend/internal/domains/talk/repository"
	"tedtalks-backend/internal/shared"
	"tedtalks-backend/pkg/cache"
	"tedtalks-backend/pkg/workerpool"
)

// analysisService implements ServiceInterface. Heavy aggregations are
// fanned out per speaker onto the analysis pool; results land in a
// cache bucket keyed by query shape.
type analysisService struct {
	talkRepo talkrepo.RepositoryInterface
	cache    cache.Cache
	workers  *workerpool.Pool
}

// NewAnalysisService creates a new analysis service instance.
func NewAnalysisService(talkRepo talkrepo.RepositoryInterface, cache cache.Cache, workers *workerpool.Pool) ServiceInterface {
	return &analysisService{
		talkRepo: talkRepo,
		cache:    cache,
		workers:  workers,
	}
}

func (s *analysisService) TopInfluentialSpeakers(ctx context.Context, limit int) ([]model.SpeakerInfluenceSummary, error) {
	if limit <= 0 {
		return nil, model.ErrInvalidLimit
	}

	key := shared.CacheKeyPrefixTopSpeakers + strconv.Itoa(limit)
	var cached []model.SpeakerInfluenceSummary
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	names, groups, err := s.groupBySpeaker(ctx)
	if err != nil {
		return nil, err
	}

	// One summary task per speaker. Encounter order is preserved by
	// writing into a fixed slot per group.
	summaries := make([]model.SpeakerInfluenceSummary, len(groups))
	var wg sync.WaitGroup
	for i := range groups {
		i := i
		wg.Add(1)
		s.workers.Submit(func() {
			defer wg.Done()
			summaries[i] = summarize(names[i], groups[i])
		})
	}
	wg.Wait()

	// Stable sort: equal totals keep their encounter order, so the
	// ranking is deterministic for a given input order.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalInfluenceScore.GreaterThan(summaries[j].TotalInfluenceScore)
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}

	s.store(ctx, key, summaries)
	return summaries, nil
}

func (s *analysisService) MostInfluentialTalkPerYear(ctx context.Context) ([]model.YearHighlight, error) {
	var cached []model.YearHighlight
	if found, err := s.cache.Get(ctx, shared.CacheKeyAnalysisPerYear, &cached); err == nil && found {
		return cached, nil
	}

	// First encountered wins ties, so only a strictly higher score
	// displaces the current best.
	best := make(map[int]talkmodel.Talk)
	err := s.talkRepo.StreamAll(ctx, func(t talkmodel.Talk) error {
		cur, ok := best[t.Year]
		if !ok || t.InfluenceScore().GreaterThan(cur.InfluenceScore()) {
			best[t.Year] = t
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan talks: %w", err)
	}

	years := make([]int, 0, len(best))
	for year := range best {
		years = append(years, year)
	}
	sort.Ints(years)

	highlights := make([]model.YearHighlight, 0, len(years))
	for _, year := range years {
		t := best[year]
		highlights = append(highlights, model.YearHighlight{
			Year: year,
			Talk: t.ToResponse(),
		})
	}

	s.store(ctx, shared.CacheKeyAnalysisPerYear, highlights)
	return highlights, nil
}

func (s *analysisService) AnalyzeSpeaker(ctx context.Context, name string) (*model.SpeakerInfluenceSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	key := shared.CacheKeyPrefixSpeakerAnalysis + strings.ToLower(name)
	var cached model.SpeakerInfluenceSummary
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	talks, err := s.talkRepo.GetBySpeakerName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(talks) == 0 {
		return nil, nil
	}

	summary := summarize(name, talks)
	s.store(ctx, key, summary)
	return &summary, nil
}

// groupBySpeaker streams every talk once and buckets by speaker name
// in encounter order.
func (s *analysisService) groupBySpeaker(ctx context.Context) ([]string, [][]talkmodel.Talk, error) {
	var names []string
	index := make(map[string]int)
	var groups [][]talkmodel.Talk

	err := s.talkRepo.StreamAll(ctx, func(t talkmodel.Talk) error {
		i, ok := index[t.SpeakerName]
		if !ok {
			i = len(names)
			index[t.SpeakerName] = i
			names = append(names, t.SpeakerName)
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan talks: %w", err)
	}
	return names, groups, nil
}

// summarize folds one speaker's talks in a single pass.
func summarize(name string, talks []talkmodel.Talk) model.SpeakerInfluenceSummary {
	summary := model.SpeakerInfluenceSummary{Speaker: name}

	for _, t := range talks {
		summary.TotalTalks++
		summary.TotalViews += t.Views
		summary.TotalLikes += t.Likes
		summary.TotalInfluenceScore = summary.TotalInfluenceScore.Add(t.InfluenceScore())

		if summary.FirstTalkYear == 0 || t.Year < summary.FirstTalkYear {
			summary.FirstTalkYear = t.Year
		}
		if t.Year > summary.LastTalkYear {
			summary.LastTalkYear = t.Year
		}
	}

	if summary.TotalTalks > 0 {
		summary.AverageInfluenceScore = summary.TotalInfluenceScore.
			DivRound(decimal.NewFromInt(int64(summary.TotalTalks)), 6)
	}
	return summary
}

func (s *analysisService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, shared.CacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache analysis result")
	}
}
