package plan

import (
	"context"
	"log/slog"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/id"
)

// Service stores the user's single diet and workout plan. Saving a plan of a
// type replaces the previous one and announces it through a notification.
type Service interface {
	Save(ctx context.Context, userID, planType string, req domain.SavePlanRequest) (*domain.Plan, error)
	Get(ctx context.Context, userID, planType string) (*domain.Plan, error)
	List(ctx context.Context, userID string) ([]domain.Plan, error)
	Delete(ctx context.Context, userID, planType string) error
}

type planStore interface {
	Put(ctx context.Context, p *domain.Plan) error
	Get(ctx context.Context, userID, planType string) (*domain.Plan, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Plan, error)
	Delete(ctx context.Context, userID, planType string) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, userID string, kind domain.Kind, params map[string]string) (*notification.DispatchResult, error)
}

type service struct {
	repo       planStore
	dispatcher dispatcher
}

func NewService(repo planStore, dispatcher dispatcher) Service {
	return &service{repo: repo, dispatcher: dispatcher}
}

// Save writes the plan and dispatches the plan-created notification. The
// notification is best effort; a dispatch failure never loses the plan.
func (s *service) Save(ctx context.Context, userID, planType string, req domain.SavePlanRequest) (*domain.Plan, error) {
	planType, err := domain.ParsePlanType(planType)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Plan{
		UserID:    userID,
		PlanType:  planType,
		PlanID:    id.New(),
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}

	kind := domain.KindDietPlanCreated
	if planType == domain.PlanTypeWorkout {
		kind = domain.KindWorkoutPlanCreated
	}
	if _, err := s.dispatcher.Dispatch(ctx, userID, kind, map[string]string{"plan_id": p.PlanID}); err != nil {
		slog.Warn("plan notification dispatch failed", "user_id", userID, "kind", kind, "err", err)
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, userID, planType string) (*domain.Plan, error) {
	planType, err := domain.ParsePlanType(planType)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, planType)
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Plan, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, planType string) error {
	planType, err := domain.ParsePlanType(planType)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, planType)
}
