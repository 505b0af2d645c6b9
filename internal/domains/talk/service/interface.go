package service

import (
	"context"

	"github.com/google/uuid"

	"tedtalks-backend/internal/domains/talk/model"
)

type ServiceInterface interface {
	List(ctx context.Context) ([]model.Talk, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Talk, error)
	GetBySpeakerName(ctx context.Context, name string) ([]model.Talk, error)
	GetByYear(ctx context.Context, year int) ([]model.Talk, error)
	SearchByTitle(ctx context.Context, query string) ([]model.Talk, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, req model.CreateTalkRequest) (*model.Talk, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateTalkRequest) (*model.Talk, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
