package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tedtalks-backend/internal/domains/speaker/model"
	"tedtalks-backend/internal/domains/speaker/repository"
)

// speakerService implements ServiceInterface.
type speakerService struct {
	repo repository.RepositoryInterface
}

// NewSpeakerService creates a new speaker service instance.
func NewSpeakerService(repo repository.RepositoryInterface) ServiceInterface {
	return &speakerService{
		repo: repo,
	}
}

func (s *speakerService) Create(ctx context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	speaker := &model.Speaker{
		Name: strings.TrimSpace(req.Name),
		Bio:  req.Bio,
	}
	return s.repo.Create(ctx, speaker)
}

func (s *speakerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error) {
	if id == uuid.Nil {
		return nil, model.ErrSpeakerNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *speakerService) GetByName(ctx context.Context, name string) (*model.Speaker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrSpeakerNotFound
	}
	return s.repo.GetByName(ctx, name)
}

func (s *speakerService) List(ctx context.Context) ([]model.SpeakerWithStats, error) {
	return s.repo.ListWithStats(ctx)
}

func (s *speakerService) Search(ctx context.Context, query string) ([]model.Speaker, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Speaker{}, nil
	}
	return s.repo.Search(ctx, query)
}

func (s *speakerService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *speakerService) UpdateBio(ctx context.Context, id uuid.UUID, req model.UpdateBioRequest) (*model.Speaker, error) {
	if id == uuid.Nil {
		return nil, model.ErrSpeakerNotFound
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateBio(ctx, id, req.Bio)
}

// Delete removes a speaker. Speakers that still own talks are protected;
// the caller gets a conflict instead of cascading deletes.
func (s *speakerService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrSpeakerNotFound
	}

	hasTalks, err := s.repo.HasTalks(ctx, id)
	if err != nil {
		return err
	}
	if hasTalks {
		return model.ErrSpeakerHasTalks
	}

	return s.repo.Delete(ctx, id)
}
