package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tedtalks-backend/internal/domains/talk/model"
)

type RepositoryInterface interface {
	List(ctx context.Context) ([]model.Talk, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Talk, error)
	GetBySpeakerName(ctx context.Context, name string) ([]model.Talk, error)
	GetByYear(ctx context.Context, year int) ([]model.Talk, error)
	SearchByTitle(ctx context.Context, query string) ([]model.Talk, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, t *model.Talk) (*model.Talk, error)
	Update(ctx context.Context, t *model.Talk) (*model.Talk, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// StreamAll walks every talk without materializing the full set.
	// The callback's error aborts the walk.
	StreamAll(ctx context.Context, fn func(model.Talk) error) error

	// Transactional variants used by the import pipeline.
	ExistsByTitleAndSpeakerIDTx(ctx context.Context, tx pgx.Tx, title string, speakerID uuid.UUID) (bool, error)
	SaveBatchTx(ctx context.Context, tx pgx.Tx, talks []model.Talk) error

	// InvalidateCache drops the cached lists and analysis results.
	InvalidateCache(ctx context.Context)
}
