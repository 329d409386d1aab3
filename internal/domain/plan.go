package domain

import (
	"fmt"
	"time"
)

// Plan types. Each user carries at most one active plan per type; saving a
// new one replaces it.
const (
	PlanTypeDiet    = "diet"
	PlanTypeWorkout = "workout"
)

// ParsePlanType validates a raw plan type string.
func ParsePlanType(s string) (string, error) {
	switch s {
	case PlanTypeDiet, PlanTypeWorkout:
		return s, nil
	}
	return "", fmt.Errorf("unknown plan type %q: %w", s, ErrBadRequest)
}

// Plan is a generated diet or workout program. Content is a free-form
// document produced by the plan generator on the client; the backend stores
// it opaquely and only inspects the envelope fields.
type Plan struct {
	UserID    string                 `json:"user_id" dynamodbav:"user_id"`
	PlanType  string                 `json:"plan_type" dynamodbav:"plan_type"` // "diet" | "workout"
	PlanID    string                 `json:"id" dynamodbav:"plan_id"`
	Title     string                 `json:"title" dynamodbav:"title"`
	Summary   string                 `json:"summary,omitempty" dynamodbav:"summary"`
	Content   map[string]interface{} `json:"content" dynamodbav:"content"`
	CreatedAt time.Time              `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time              `json:"updated" dynamodbav:"updated_at"`
}

type SavePlanRequest struct {
	Title   string                 `json:"title" validate:"required"`
	Summary string                 `json:"summary"`
	Content map[string]interface{} `json:"content" validate:"required"`
}
