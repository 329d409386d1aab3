package progress

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/id"
)

const dateLayout = "2006-01-02"

type UploadPhotoRequest struct {
	Name    string `json:"name" validate:"required"`
	Data    string `json:"data" validate:"required"` // base64
	TakenAt string `json:"taken_at"`                 // YYYY-MM-DD
}

// Service logs daily completions and keeps the derived state they feed:
// the redis streak counters and the achievement badges.
type Service interface {
	Log(ctx context.Context, userID string, req domain.LogProgressRequest) (*domain.ProgressEntry, error)
	List(ctx context.Context, userID, from, to string) ([]domain.ProgressEntry, error)
	Stats(ctx context.Context, userID, from, to string) (*domain.ProgressStats, error)
	Streak(ctx context.Context, userID string) (*domain.Streak, error)

	UploadPhoto(ctx context.Context, userID string, req UploadPhotoRequest) (*domain.ProgressPhoto, error)
	ListPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error)
	DownloadPhoto(ctx context.Context, userID, photoID string) (*domain.ProgressPhoto, io.ReadCloser, error)
	DeletePhoto(ctx context.Context, userID, photoID string) error
}

type progressStore interface {
	Put(ctx context.Context, e *domain.ProgressEntry) error
	ListRange(ctx context.Context, userID, from, to string) ([]domain.ProgressEntry, error)
	CountByType(ctx context.Context, userID, progressType string) (int, error)
}

type streakStore interface {
	Record(ctx context.Context, userID, date string) (domain.Streak, error)
	Get(ctx context.Context, userID string) (domain.Streak, error)
}

type badgeAwarder interface {
	Award(ctx context.Context, userID string, badgeType domain.BadgeType) (bool, error)
}

type photoStore interface {
	Put(ctx context.Context, p *domain.ProgressPhoto) error
	Get(ctx context.Context, photoID string) (*domain.ProgressPhoto, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ProgressPhoto, error)
	Delete(ctx context.Context, photoID string) error
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo      progressStore
	streaks   streakStore
	badges    badgeAwarder
	photoRepo photoStore
	objects   objectStore
}

type ServiceDeps struct {
	ProgressRepo progressStore
	Streaks      streakStore
	Badges       badgeAwarder
	PhotoRepo    photoStore
	Objects      objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.ProgressRepo,
		streaks:   deps.Streaks,
		badges:    deps.Badges,
		photoRepo: deps.PhotoRepo,
		objects:   deps.Objects,
	}
}

// Log records a completion for the day. The entry write is the source of
// truth; streak bookkeeping and badge checks run after it and are best
// effort, so a redis outage never loses a logged workout.
func (s *service) Log(ctx context.Context, userID string, req domain.LogProgressRequest) (*domain.ProgressEntry, error) {
	progressType, err := domain.ParseProgressType(req.Type)
	if err != nil {
		return nil, err
	}
	date := req.Date
	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	entry := &domain.ProgressEntry{
		UserID:      userID,
		EntryKey:    domain.EntryKeyFor(date, progressType),
		Type:        progressType,
		Date:        date,
		Note:        req.Note,
		CompletedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, entry); err != nil {
		return nil, err
	}

	streak, err := s.streaks.Record(ctx, userID, date)
	if err != nil {
		slog.Warn("streak update failed", "user_id", userID, "err", err)
	}
	s.checkMilestones(ctx, userID, progressType, streak)
	return entry, nil
}

// checkMilestones awards whatever badges the new entry may have unlocked.
// The badge store ignores repeats, so over-checking is harmless.
func (s *service) checkMilestones(ctx context.Context, userID, progressType string, streak domain.Streak) {
	award := func(b domain.BadgeType) {
		if _, err := s.badges.Award(ctx, userID, b); err != nil {
			slog.Warn("badge award failed", "user_id", userID, "badge", b, "err", err)
		}
	}
	switch progressType {
	case domain.ProgressWorkout:
		count, err := s.repo.CountByType(ctx, userID, domain.ProgressWorkout)
		if err != nil {
			slog.Warn("workout count failed", "user_id", userID, "err", err)
			break
		}
		if count >= 1 {
			award(domain.BadgeFirstWorkout)
		}
		if count >= 10 {
			award(domain.BadgeTenWorkouts)
		}
	case domain.ProgressDiet:
		award(domain.BadgeFirstDietDay)
	}
	if streak.Current >= 7 {
		award(domain.BadgeWeekStreak)
	}
	if streak.Current >= 30 {
		award(domain.BadgeMonthStreak)
	}
}

// List returns entries over [from, to], defaulting to the last 30 days.
func (s *service) List(ctx context.Context, userID, from, to string) ([]domain.ProgressEntry, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRange(ctx, userID, from, to)
}

// Stats counts logged completions over [from, to], defaulting to the last
// 30 days, and attaches the live streak counters.
func (s *service) Stats(ctx context.Context, userID, from, to string) (*domain.ProgressStats, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	stats := &domain.ProgressStats{From: from, To: to}
	for _, e := range entries {
		switch e.Type {
		case domain.ProgressWorkout:
			stats.WorkoutDays++
		case domain.ProgressDiet:
			stats.DietDays++
		}
	}
	stats.Total = stats.WorkoutDays + stats.DietDays
	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		slog.Warn("streak read failed", "user_id", userID, "err", err)
	} else {
		stats.Streak = streak
	}
	return stats, nil
}

func normalizeRange(from, to string) (string, string, error) {
	now := time.Now().UTC()
	if to == "" {
		to = now.Format(dateLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -30).Format(dateLayout)
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return "", "", fmt.Errorf("date must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
	}
	return from, to, nil
}

func (s *service) Streak(ctx context.Context, userID string) (*domain.Streak, error) {
	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (s *service) UploadPhoto(ctx context.Context, userID string, req UploadPhotoRequest) (*domain.ProgressPhoto, error) {
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("photo data must be base64: %w", domain.ErrBadRequest)
	}
	if req.TakenAt != "" {
		if _, err := time.Parse(dateLayout, req.TakenAt); err != nil {
			return nil, fmt.Errorf("taken_at must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
	}
	photoID := id.New()
	key := objectKey(userID, photoID, req.Name)
	if _, err := s.objects.UploadBase64(ctx, key, req.Data); err != nil {
		return nil, err
	}
	photo := &domain.ProgressPhoto{
		PhotoID:   photoID,
		UserID:    userID,
		Object:    key,
		Size:      int64(len(raw)),
		Type:      path.Ext(req.Name),
		Name:      req.Name,
		TakenAt:   req.TakenAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.photoRepo.Put(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *service) ListPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	return s.photoRepo.ListByUser(ctx, userID)
}

func (s *service) DownloadPhoto(ctx context.Context, userID, photoID string) (*domain.ProgressPhoto, io.ReadCloser, error) {
	photo, err := s.owned(ctx, userID, photoID)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.objects.Download(ctx, photo.Object)
	if err != nil {
		return nil, nil, err
	}
	return photo, body, nil
}

func (s *service) DeletePhoto(ctx context.Context, userID, photoID string) error {
	photo, err := s.owned(ctx, userID, photoID)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, photo.Object); err != nil {
		return err
	}
	return s.photoRepo.Delete(ctx, photoID)
}

func (s *service) owned(ctx context.Context, userID, photoID string) (*domain.ProgressPhoto, error) {
	photo, err := s.photoRepo.Get(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.UserID != userID {
		return nil, fmt.Errorf("photo belongs to another user: %w", domain.ErrForbidden)
	}
	return photo, nil
}

// objectKey keeps the original extension so content-type detection on
// download keeps working.
func objectKey(userID, photoID, name string) string {
	return fmt.Sprintf("progress/%s/%s%s", userID, photoID, path.Ext(name))
}
