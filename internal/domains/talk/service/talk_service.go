package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	speakermodel "tedtalks-backend/internal/domains/speaker/model"
	speakerrepo "tedtalks-backend/internal/domains/speaker/repository"
	"tedtalks-backend/internal/domains/talk/model"
	"tedtalks-backend/internal/domains/talk/repository"
)

// talkService implements ServiceInterface.
type talkService struct {
	repo        repository.RepositoryInterface
	speakerRepo speakerrepo.RepositoryInterface
}

// NewTalkService creates a new talk service instance.
func NewTalkService(repo repository.RepositoryInterface, speakerRepo speakerrepo.RepositoryInterface) ServiceInterface {
	return &talkService{
		repo:        repo,
		speakerRepo: speakerRepo,
	}
}

func (s *talkService) List(ctx context.Context) ([]model.Talk, error) {
	return s.repo.List(ctx)
}

func (s *talkService) GetByID(ctx context.Context, id uuid.UUID) (*model.Talk, error) {
	if id == uuid.Nil {
		return nil, model.ErrTalkNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *talkService) GetBySpeakerName(ctx context.Context, name string) ([]model.Talk, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []model.Talk{}, nil
	}
	return s.repo.GetBySpeakerName(ctx, name)
}

func (s *talkService) GetByYear(ctx context.Context, year int) ([]model.Talk, error) {
	return s.repo.GetByYear(ctx, year)
}

func (s *talkService) SearchByTitle(ctx context.Context, query string) ([]model.Talk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Talk{}, nil
	}
	return s.repo.SearchByTitle(ctx, query)
}

func (s *talkService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Create resolves the speaker by name, creating one on first sight,
// then inserts the talk.
func (s *talkService) Create(ctx context.Context, req model.CreateTalkRequest) (*model.Talk, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	speakerName := strings.TrimSpace(req.Speaker)
	sp, err := s.speakerRepo.GetByName(ctx, speakerName)
	if errors.Is(err, speakermodel.ErrSpeakerNotFound) {
		sp, err = s.speakerRepo.Create(ctx, &speakermodel.Speaker{Name: speakerName})
	}
	if err != nil {
		return nil, err
	}

	talk := &model.Talk{
		Title:       strings.TrimSpace(req.Title),
		SpeakerID:   sp.ID,
		SpeakerName: sp.Name,
		Year:        req.Year,
		Month:       req.Month,
		Views:       req.Views,
		Likes:       req.Likes,
		Link:        req.Link,
	}
	return s.repo.Create(ctx, talk)
}

func (s *talkService) Update(ctx context.Context, id uuid.UUID, req model.UpdateTalkRequest) (*model.Talk, error) {
	if id == uuid.Nil {
		return nil, model.ErrTalkNotFound
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Year != nil {
		t.Year = *req.Year
	}
	if req.Month != nil {
		t.Month = *req.Month
	}
	if req.Views != nil {
		t.Views = *req.Views
	}
	if req.Likes != nil {
		t.Likes = *req.Likes
	}
	if req.Link != nil {
		t.Link = *req.Link
	}

	return s.repo.Update(ctx, t)
}

func (s *talkService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrTalkNotFound
	}
	return s.repo.Delete(ctx, id)
}
