package domain

import (
	"fmt"
	"time"
)

// Kind identifies one of the closed set of notification kinds the backend
// produces. Every switch over Kind enumerates the full set so that adding a
// kind forces each site to take a position on it.
type Kind string

const (
	KindWelcome              Kind = "welcome"
	KindDietPlanCreated      Kind = "diet_plan_created"
	KindWorkoutPlanCreated   Kind = "workout_plan_created"
	KindGeneral              Kind = "general"
	KindBadgeEarned          Kind = "badge_earned"
	KindDietReminder         Kind = "diet_reminder"
	KindWorkoutReminder      Kind = "workout_reminder"
	KindGymReminder          Kind = "gym_reminder"
	KindStreakBrokenReminder Kind = "streak_broken_reminder"
)

// Kinds returns every valid notification kind.
func Kinds() []Kind {
	return []Kind{
		KindWelcome,
		KindDietPlanCreated,
		KindWorkoutPlanCreated,
		KindGeneral,
		KindBadgeEarned,
		KindDietReminder,
		KindWorkoutReminder,
		KindGymReminder,
		KindStreakBrokenReminder,
	}
}

// ParseKind validates a raw string against the closed kind set.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown notification kind %q: %w", s, ErrBadRequest)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case KindWelcome, KindDietPlanCreated, KindWorkoutPlanCreated, KindGeneral,
		KindBadgeEarned, KindDietReminder, KindWorkoutReminder, KindGymReminder,
		KindStreakBrokenReminder:
		return true
	}
	return false
}

// Reminder reports whether k is a recurring reminder kind. Reminder kinds are
// subject to the user's push and category toggles; transactional kinds
// (welcome, plan created, badge earned, general) are never gated.
func (k Kind) Reminder() bool {
	switch k {
	case KindDietReminder, KindWorkoutReminder, KindGymReminder, KindStreakBrokenReminder:
		return true
	}
	return false
}

// Priority is the delivery priority stamped on a notification record and
// forwarded to the push gateway.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority maps each kind to the priority its records carry.
func (k Kind) DefaultPriority() Priority {
	switch k {
	case KindWelcome, KindBadgeEarned, KindStreakBrokenReminder:
		return PriorityHigh
	case KindGeneral:
		return PriorityLow
	case KindDietPlanCreated, KindWorkoutPlanCreated, KindDietReminder,
		KindWorkoutReminder, KindGymReminder:
		return PriorityMedium
	}
	return PriorityMedium
}

// NotificationRetention is how long a record stays queryable before the
// table's TTL reclaims it, regardless of read state.
const NotificationRetention = 30 * 24 * time.Hour

// Notification is the durable record of one dispatched notification.
// Title and body are localized once at creation and never re-resolved, so a
// record keeps the language its user had at dispatch time.
type Notification struct {
	NotificationID string            `json:"id" dynamodbav:"notification_id"`
	UserID         string            `json:"user_id" dynamodbav:"user_id"`
	Kind           Kind              `json:"kind" dynamodbav:"kind"`
	Title          string            `json:"title" dynamodbav:"title"`
	Body           string            `json:"body" dynamodbav:"body"`
	Priority       Priority          `json:"priority" dynamodbav:"priority"`
	Read           bool              `json:"read" dynamodbav:"read"`
	Metadata       map[string]string `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created" dynamodbav:"created_at"`
	ExpiresAt      int64             `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// NotificationStats is the per-user aggregate returned by the stats endpoint.
// Counts are always computed live from the table, never cached.
type NotificationStats struct {
	Total  int          `json:"total"`
	Unread int          `json:"unread"`
	ByKind map[Kind]int `json:"by_kind"`
}

type CreateTestNotificationRequest struct {
	Kind   string            `json:"kind" validate:"required"`
	Params map[string]string `json:"params"`
}
