package badge

import (
	"context"
	"log/slog"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
)

// Service awards achievement badges. Awards are idempotent: the store does a
// conditional put, and only a genuinely new badge produces a notification.
type Service interface {
	// Award grants the badge if not already earned. Returns true when the
	// badge is newly earned.
	Award(ctx context.Context, userID string, badgeType domain.BadgeType) (bool, error)
	List(ctx context.Context, userID string) ([]domain.Badge, error)
}

type badgeStore interface {
	PutIfAbsent(ctx context.Context, b *domain.Badge) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Badge, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, userID string, kind domain.Kind, params map[string]string) (*notification.DispatchResult, error)
}

type service struct {
	repo       badgeStore
	dispatcher dispatcher
}

func NewService(repo badgeStore, dispatcher dispatcher) Service {
	return &service{repo: repo, dispatcher: dispatcher}
}

func (s *service) Award(ctx context.Context, userID string, badgeType domain.BadgeType) (bool, error) {
	if !badgeType.Valid() {
		return false, domain.ErrBadRequest
	}
	earned, err := s.repo.PutIfAbsent(ctx, &domain.Badge{
		UserID:    userID,
		BadgeType: badgeType,
		EarnedAt:  time.Now().UTC(),
	})
	if err != nil || !earned {
		return false, err
	}
	if _, err := s.dispatcher.Dispatch(ctx, userID, domain.KindBadgeEarned, map[string]string{
		"badge_type": string(badgeType),
	}); err != nil {
		slog.Warn("badge notification dispatch failed", "user_id", userID, "badge", badgeType, "err", err)
	}
	return true, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Badge, error) {
	return s.repo.ListByUser(ctx, userID)
}
