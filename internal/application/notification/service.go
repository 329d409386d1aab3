package notification

import (
	"context"
	"fmt"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
)

// Service is the read side of the notification store: what the mobile client
// sees. Mutations are limited to read-state flips and deletes, and only by
// the owning user; title, body and kind are immutable once dispatched.
type Service interface {
	List(ctx context.Context, userID string, limit int, cursor string) ([]domain.Notification, string, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context, userID string) (*domain.NotificationStats, error)
	MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, notificationID, userID string) error
	DeleteAll(ctx context.Context, userID string) (int, error)
}

type readStore interface {
	List(ctx context.Context, userID string, limit int32, cursor string) ([]domain.Notification, string, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, notificationID string) error
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context, userID string) (*domain.NotificationStats, error)
}

type service struct {
	repo readStore
}

func NewService(repo readStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID string, limit int, cursor string) ([]domain.Notification, string, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, userID, int32(limit), cursor)
}

func (s *service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) Stats(ctx context.Context, userID string) (*domain.NotificationStats, error) {
	return s.repo.Stats(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.owned(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, notificationID, userID string) error {
	if _, err := s.owned(ctx, notificationID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, notificationID)
}

func (s *service) DeleteAll(ctx context.Context, userID string) (int, error) {
	return s.repo.DeleteAllForUser(ctx, userID)
}

func (s *service) owned(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("notification belongs to another user: %w", domain.ErrForbidden)
	}
	return n, nil
}
