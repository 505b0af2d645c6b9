package service

import (
	"context"

	"tedtalks-backend/internal/domains/analysis/model"
)

type ServiceInterface interface {
	// TopInfluentialSpeakers ranks speakers by total influence score,
	// highest first. limit must be positive.
	TopInfluentialSpeakers(ctx context.Context, limit int) ([]model.SpeakerInfluenceSummary, error)
	// MostInfluentialTalkPerYear picks each year's highest scoring
	// talk, years ascending.
	MostInfluentialTalkPerYear(ctx context.Context) ([]model.YearHighlight, error)
	// AnalyzeSpeaker summarizes one speaker by exact name. A speaker
	// with no talks yields (nil, nil).
	AnalyzeSpeaker(ctx context.Context, name string) (*model.SpeakerInfluenceSummary, error)
}
