package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinkPattern accepts absolute http(s) URLs only.
var LinkPattern = regexp.MustCompile(`(?i)^https?://[^\s/$.?#].[^\s]*$`)

// Influence weighting. Decimal arithmetic keeps the score exact:
// 1,000,000 views and 50,000 likes is 715000, not 714999.999...
var (
	viewsWeight = decimal.NewFromFloat(0.7)
	likesWeight = decimal.NewFromFloat(0.3)
)

type Talk struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	SpeakerID   uuid.UUID `json:"speaker_id" db:"speaker_id"`
	SpeakerName string    `json:"speaker_name" db:"speaker_name"`
	Year        int       `json:"year" db:"year"`
	Month       int       `json:"month" db:"month"`
	Views       int64     `json:"views" db:"views"`
	Likes       int64     `json:"likes" db:"likes"`
	Link        string    `json:"link" db:"link"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// InfluenceScore is views*0.7 + likes*0.3. Computed on demand,
// never persisted.
func (t *Talk) InfluenceScore() decimal.Decimal {
	return Score(t.Views, t.Likes)
}

// Score computes the influence score for a raw views/likes pair.
func Score(views, likes int64) decimal.Decimal {
	v := decimal.NewFromInt(views).Mul(viewsWeight)
	l := decimal.NewFromInt(likes).Mul(likesWeight)
	return v.Add(l)
}

type TalkResponse struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	SpeakerID      uuid.UUID       `json:"speaker_id"`
	SpeakerName    string          `json:"speaker_name"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	Views          int64           `json:"views"`
	Likes          int64           `json:"likes"`
	Link           string          `json:"link"`
	InfluenceScore decimal.Decimal `json:"influence_score"`
}

func (t *Talk) ToResponse() *TalkResponse {
	return &TalkResponse{
		ID:             t.ID,
		Title:          t.Title,
		SpeakerID:      t.SpeakerID,
		SpeakerName:    t.SpeakerName,
		Year:           t.Year,
		Month:          t.Month,
		Views:          t.Views,
		Likes:          t.Likes,
		Link:           t.Link,
		InfluenceScore: t.InfluenceScore(),
	}
}
