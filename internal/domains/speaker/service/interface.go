package service

import (
	"context"

	"github.com/google/uuid"

	"tedtalks-backend/internal/domains/speaker/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error)
	GetByName(ctx context.Context, name string) (*model.Speaker, error)
	List(ctx context.Context) ([]model.SpeakerWithStats, error)
	Search(ctx context.Context, query string) ([]model.Speaker, error)
	Count(ctx context.Context) (int64, error)
	UpdateBio(ctx context.Context, id uuid.UUID, req model.UpdateBioRequest) (*model.Speaker, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
