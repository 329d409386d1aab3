package domain

import "time"

// BadgeType identifies a badge in the closed achievement set.
type BadgeType string

const (
	BadgeFirstWorkout BadgeType = "first_workout"
	BadgeFirstDietDay BadgeType = "first_diet_day"
	BadgeTenWorkouts  BadgeType = "ten_workouts"
	BadgeWeekStreak   BadgeType = "week_streak"
	BadgeMonthStreak  BadgeType = "month_streak"
)

func (b BadgeType) Valid() bool {
	switch b {
	case BadgeFirstWorkout, BadgeFirstDietDay, BadgeTenWorkouts, BadgeWeekStreak, BadgeMonthStreak:
		return true
	}
	return false
}

// Badge marks that a user earned an achievement. Keyed (user_id, badge_type),
// so each badge can be earned at most once.
type Badge struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	BadgeType BadgeType `json:"badge_type" dynamodbav:"badge_type"`
	EarnedAt  time.Time `json:"earned" dynamodbav:"earned_at"`
}
