package exercise

import (
	"context"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/id"
)

// Service manages the admin-curated exercise catalog.
type Service interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	Get(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	Create(ctx context.Context, in domain.ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, exerciseID string, in domain.ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, exerciseID string) error
}

type exerciseStore interface {
	Put(ctx context.Context, e *domain.Exercise) error
	Get(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	Scan(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exerciseID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, exerciseID string) error
}

type service struct {
	repo exerciseStore
}

func NewService(repo exerciseStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]domain.Exercise, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	return s.repo.Get(ctx, exerciseID)
}

func (s *service) Create(ctx context.Context, in domain.ExerciseInput) (*domain.Exercise, error) {
	e := &domain.Exercise{
		ExerciseID:  id.New(),
		Name:        in.Name,
		MuscleGroup: in.MuscleGroup,
		Equipment:   in.Equipment,
		Description: in.Description,
	}
	if err := s.repo.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Update(ctx context.Context, exerciseID string, in domain.ExerciseInput) (*domain.Exercise, error) {
	if _, err := s.repo.Get(ctx, exerciseID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":         in.Name,
		"muscle_group": in.MuscleGroup,
		"equipment":    in.Equipment,
		"description":  in.Description,
	}
	if err := s.repo.Update(ctx, exerciseID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, exerciseID)
}

func (s *service) Delete(ctx context.Context, exerciseID string) error {
	if _, err := s.repo.Get(ctx, exerciseID); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, exerciseID)
}
