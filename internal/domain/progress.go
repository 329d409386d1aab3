package domain

import (
	"fmt"
	"time"
)

// Completion types a user can log for a day.
const (
	ProgressWorkout = "workout"
	ProgressDiet    = "diet"
)

// ParseProgressType validates a raw completion type string.
func ParseProgressType(s string) (string, error) {
	switch s {
	case ProgressWorkout, ProgressDiet:
		return s, nil
	}
	return "", fmt.Errorf("unknown progress type %q: %w", s, ErrBadRequest)
}

// ProgressEntry records that a user completed their workout or followed their
// diet on a given day. The sort key is "<date>#<type>", so logging the same
// type twice on one day overwrites in place and stays idempotent.
type ProgressEntry struct {
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	EntryKey    string    `json:"-" dynamodbav:"entry_key"` // "<YYYY-MM-DD>#<type>"
	Type        string    `json:"type" dynamodbav:"type"`   // "workout" | "diet"
	Date        string    `json:"date" dynamodbav:"date"`   // YYYY-MM-DD
	Note        string    `json:"note,omitempty" dynamodbav:"note"`
	CompletedAt time.Time `json:"completed" dynamodbav:"completed_at"`
}

// EntryKeyFor builds the progress sort key for a date and type.
func EntryKeyFor(date, progressType string) string {
	return date + "#" + progressType
}

type LogProgressRequest struct {
	Type string `json:"type" validate:"required,oneof=workout diet"`
	Date string `json:"date"` // YYYY-MM-DD, defaults to today (UTC)
	Note string `json:"note"`
}

// Streak is the consecutive-day activity counter kept in Redis rather than
// DynamoDB: it changes on every log and is read on every stats call.
type Streak struct {
	Current      int    `json:"current"`
	Longest      int    `json:"longest"`
	LastActivity string `json:"last_activity,omitempty"` // YYYY-MM-DD
}

// ProgressStats aggregates logged completions over a date range.
type ProgressStats struct {
	From        string `json:"from"` // YYYY-MM-DD
	To          string `json:"to"`   // YYYY-MM-DD
	WorkoutDays int    `json:"workout_days"`
	DietDays    int    `json:"diet_days"`
	Total       int    `json:"total"`
	Streak      Streak `json:"streak"`
}

// ProgressPhoto is the DynamoDB side of an uploaded progress picture; the
// bytes live in S3 under Object.
type ProgressPhoto struct {
	PhotoID   string    `json:"id" dynamodbav:"photo_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Object    string    `json:"-" dynamodbav:"object"`
	Size      int64     `json:"size" dynamodbav:"size"`
	Type      string    `json:"type" dynamodbav:"type"`
	Name      string    `json:"name" dynamodbav:"name"`
	TakenAt   string    `json:"taken_at,omitempty" dynamodbav:"taken_at"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
