package model

import (
	"errors"

	"github.com/shopspring/decimal"

	talkmodel "tedtalks-backend/internal/domains/talk/model"
)

var ErrInvalidLimit = errors.New("limit must be a positive integer")

// SpeakerInfluenceSummary aggregates one speaker's talks.
type SpeakerInfluenceSummary struct {
	Speaker               string          `json:"speaker"`
	TotalTalks            int             `json:"total_talks"`
	TotalViews            int64           `json:"total_views"`
	TotalLikes            int64           `json:"total_likes"`
	TotalInfluenceScore   decimal.Decimal `json:"total_influence_score"`
	AverageInfluenceScore decimal.Decimal `json:"average_influence_score"`
	FirstTalkYear         int             `json:"first_talk_year"`
	LastTalkYear          int             `json:"last_talk_year"`
}

// YearHighlight is the most influential talk of one year.
type YearHighlight struct {
	Year int                     `json:"year"`
	Talk *talkmodel.TalkResponse `json:"talk"`
}
