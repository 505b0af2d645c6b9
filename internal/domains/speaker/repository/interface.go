package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tedtalks-backend/internal/domains/speaker/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, s *model.Speaker) (*model.Speaker, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error)
	GetByName(ctx context.Context, name string) (*model.Speaker, error)
	ListWithStats(ctx context.Context) ([]model.SpeakerWithStats, error)
	Search(ctx context.Context, query string) ([]model.Speaker, error)
	Count(ctx context.Context) (int64, error)
	UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*model.Speaker, error)
	Delete(ctx context.Context, id uuid.UUID) error
	HasTalks(ctx context.Context, id uuid.UUID) (bool, error)

	// Transactional variants used by the import pipeline.
	FindByNameTx(ctx context.Context, tx pgx.Tx, name string) (*model.Speaker, error)
	CreateTx(ctx context.Context, tx pgx.Tx, name string) (*model.Speaker, error)
}
