package device

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
)

// Service manages the user's single push registration and the app version
// gate. Registering a token immediately runs the deferred delivery sweep so
// notifications recorded before the token existed get their push.
type Service interface {
	RegisterToken(ctx context.Context, userID string, req domain.RegisterDeviceTokenRequest) (*domain.DeviceRegistration, *notification.SweepResult, error)
	GetToken(ctx context.Context, userID string) (*domain.DeviceRegistration, error)
	DeleteToken(ctx context.Context, userID string) error
	// CheckVersion reports whether the client version is at or above the
	// minimum supported version.
	CheckVersion(ctx context.Context, version float64) (bool, error)
}

type deviceStore interface {
	Put(ctx context.Context, d *domain.DeviceRegistration) error
	Get(ctx context.Context, userID string) (*domain.DeviceRegistration, error)
	Delete(ctx context.Context, userID string) error
}

type appVersionStore interface {
	GetLatest(ctx context.Context) (*domain.AppVersion, error)
}

type sweeper interface {
	Sweep(ctx context.Context, userID string) (*notification.SweepResult, error)
}

type service struct {
	repo           deviceStore
	appVersionRepo appVersionStore
	sweeper        sweeper
}

func NewService(repo deviceStore, appVersionRepo appVersionStore, sweeper sweeper) Service {
	return &service{repo: repo, appVersionRepo: appVersionRepo, sweeper: sweeper}
}

// RegisterToken stores the registration (last write wins, the table is keyed
// by user) and synchronously sweeps the user's unread notifications through
// the push gateway. A sweep failure never fails the registration.
func (s *service) RegisterToken(ctx context.Context, userID string, req domain.RegisterDeviceTokenRequest) (*domain.DeviceRegistration, *notification.SweepResult, error) {
	reg := &domain.DeviceRegistration{
		UserID:       userID,
		Token:        req.Token,
		Platform:     req.Platform,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, reg); err != nil {
		return nil, nil, err
	}
	swept, err := s.sweeper.Sweep(ctx, userID)
	if err != nil {
		slog.Warn("deferred delivery sweep failed after token registration", "user_id", userID, "err", err)
		return reg, nil, nil
	}
	return reg, swept, nil
}

func (s *service) GetToken(ctx context.Context, userID string) (*domain.DeviceRegistration, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) DeleteToken(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

func (s *service) CheckVersion(ctx context.Context, version float64) (bool, error) {
	latest, err := s.appVersionRepo.GetLatest(ctx)
	if err != nil {
		// No minimum version on record — pass.
		return true, nil
	}
	latestF, err := strconv.ParseFloat(latest.Version, 64)
	if err != nil {
		return true, nil
	}
	return version >= latestF, nil
}
