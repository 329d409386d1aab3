package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/config"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/redisstore"
	"github.com/robfig/cron/v3"
)

const scanPageSize = 100

type userScanner interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, userID string, kind domain.Kind, params map[string]string) (*notification.DispatchResult, error)
}

type streakStore interface {
	Get(ctx context.Context, userID string) (domain.Streak, error)
	LapsedBefore(ctx context.Context, day int64) ([]string, error)
	ClearActivity(ctx context.Context, userID string) error
}

// Scheduler runs the daily reminder fan-outs and the streak-broken check on
// cron expressions from config.
type Scheduler struct {
	cron       *cron.Cron
	users      userScanner
	dispatcher dispatcher
	streaks    streakStore
}

type SchedulerDeps struct {
	Users      userScanner
	Dispatcher dispatcher
	Streaks    streakStore
}

func NewScheduler(deps SchedulerDeps) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		users:      deps.Users,
		dispatcher: deps.Dispatcher,
		streaks:    deps.Streaks,
	}
}

// Register wires the four jobs onto their configured expressions.
func (s *Scheduler) Register(cfg *config.Config) error {
	jobs := []struct {
		expr string
		name string
		run  func()
	}{
		{cfg.DietReminderCron, "diet_reminder", func() { s.fanOut(domain.KindDietReminder) }},
		{cfg.WorkoutReminderCron, "workout_reminder", func() { s.fanOut(domain.KindWorkoutReminder) }},
		{cfg.GymReminderCron, "gym_reminder", func() { s.fanOut(domain.KindGymReminder) }},
		{cfg.StreakBrokenCheckCron, "streak_broken_check", s.checkBrokenStreaks},
	}
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.expr, j.run); err != nil {
			return fmt.Errorf("register %s job (%q): %w", j.name, j.expr, err)
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// fanOut dispatches a reminder to every user. Preference gating happens
// inside the dispatcher, so disabled users simply produce suppressions.
// Per-user failures are logged and the scan continues.
func (s *Scheduler) fanOut(kind domain.Kind) {
	ctx := context.Background()
	start := time.Now()
	var dispatched, failed int
	cursor := ""
	for {
		users, next, err := s.users.ScanPage(ctx, scanPageSize, cursor)
		if err != nil {
			slog.Error("reminder fan-out scan failed", "kind", kind, "err", err)
			return
		}
		for i := range users {
			u := &users[i]
			if !u.Enable {
				continue
			}
			if _, err := s.dispatcher.Dispatch(ctx, u.UserID, kind, nil); err != nil {
				failed++
				slog.Warn("reminder dispatch failed", "kind", kind, "user_id", u.UserID, "err", err)
				continue
			}
			dispatched++
		}
		if next == "" {
			break
		}
		cursor = next
	}
	slog.Info("reminder fan-out complete", "kind", kind,
		"dispatched", dispatched, "failed", failed, "took", time.Since(start))
}

// checkBrokenStreaks finds users whose last activity predates yesterday and
// sends each a streak-broken reminder once, clearing them from the activity
// index so the same break never fires twice.
func (s *Scheduler) checkBrokenStreaks() {
	ctx := context.Background()
	yesterday := redisstore.DayNumber(time.Now().UTC()) - 1
	lapsed, err := s.streaks.LapsedBefore(ctx, yesterday)
	if err != nil {
		slog.Error("streak check query failed", "err", err)
		return
	}
	for _, userID := range lapsed {
		streak, err := s.streaks.Get(ctx, userID)
		if err != nil {
			slog.Warn("streak read failed", "user_id", userID, "err", err)
			continue
		}
		if _, err := s.dispatcher.Dispatch(ctx, userID, domain.KindStreakBrokenReminder, map[string]string{
			"streak": strconv.Itoa(streak.Current),
		}); err != nil {
			slog.Warn("streak-broken dispatch failed", "user_id", userID, "err", err)
			continue
		}
		if err := s.streaks.ClearActivity(ctx, userID); err != nil {
			slog.Warn("streak activity clear failed", "user_id", userID, "err", err)
		}
	}
	if len(lapsed) > 0 {
		slog.Info("streak-broken check complete", "lapsed", len(lapsed))
	}
}
