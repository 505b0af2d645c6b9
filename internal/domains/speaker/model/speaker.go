package model

import (
	"time"

	"github.com/google/uuid"
)

type Speaker struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Bio       *string   `json:"bio" db:"bio"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SpeakerWithStats carries the aggregates computed by query.
// They are never stored on the speakers row.
type SpeakerWithStats struct {
	Speaker
	TalkCount  int64 `json:"talk_count" db:"talk_count"`
	TotalViews int64 `json:"total_views" db:"total_views"`
	TotalLikes int64 `json:"total_likes" db:"total_likes"`
}

type SpeakerResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Bio  *string   `json:"bio,omitempty"`
}

// ToResponse converts Speaker to SpeakerResponse
func (s *Speaker) ToResponse() *SpeakerResponse {
	return &SpeakerResponse{
		ID:   s.ID,
		Name: s.Name,
		Bio:  s.Bio,
	}
}
