package domain

import "time"

// Fitness goals a user can train toward.
const (
	GoalLoseWeight = "lose_weight"
	GoalGainMuscle = "gain_muscle"
	GoalStayFit    = "stay_fit"
)

// NotificationPreferences are the per-user toggles consulted on every
// dispatch. They gate reminder kinds only; transactional notifications are
// always recorded. Every toggle defaults to true for new accounts.
type NotificationPreferences struct {
	PushEnabled             bool `json:"push_enabled" dynamodbav:"push_enabled"`
	DietRemindersEnabled    bool `json:"diet_reminders_enabled" dynamodbav:"diet_reminders_enabled"`
	WorkoutRemindersEnabled bool `json:"workout_reminders_enabled" dynamodbav:"workout_reminders_enabled"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		PushEnabled:             true,
		DietRemindersEnabled:    true,
		WorkoutRemindersEnabled: true,
	}
}

type User struct {
	UserID         string                  `json:"id" dynamodbav:"user_id"`
	Username       string                  `json:"username" dynamodbav:"username"`
	Email          string                  `json:"email" dynamodbav:"email"`
	PasswordHash   string                  `json:"-" dynamodbav:"password_hash"`
	Role           string                  `json:"role" dynamodbav:"role"`
	FirstName      string                  `json:"first_name" dynamodbav:"first_name"`
	LastName       string                  `json:"last_name" dynamodbav:"last_name"`
	Birthday       time.Time               `json:"birthday" dynamodbav:"birthday"`
	Gender         string                  `json:"gender,omitempty" dynamodbav:"gender"`
	HeightCm       float64                 `json:"height_cm,omitempty" dynamodbav:"height_cm"`
	WeightKg       float64                 `json:"weight_kg,omitempty" dynamodbav:"weight_kg"`
	Goal           string                  `json:"goal,omitempty" dynamodbav:"goal"` // lose_weight | gain_muscle | stay_fit
	Language       string                  `json:"language" dynamodbav:"language"`   // BCP 47 tag, "en" when unset
	Notifications  NotificationPreferences `json:"notification_preferences" dynamodbav:"notification_prefs"`
	EmailConfirmed bool                    `json:"email_confirmed" dynamodbav:"email_confirmed"`
	AuthProvider   string                  `json:"auth_provider,omitempty" dynamodbav:"auth_provider"` // "local" | "google"
	GoogleSub      string                  `json:"-"                       dynamodbav:"google_sub"`
	Enable         bool                    `json:"enable" dynamodbav:"enable"`
	DeletedAt      *time.Time              `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt      time.Time               `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time               `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Email     string  `json:"email" validate:"required,email"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Birthday  string  `json:"birthday"` // expected format: YYYY-MM-DD
	Gender    string  `json:"gender" validate:"omitempty,oneof=male female other"`
	HeightCm  float64 `json:"height_cm" validate:"omitempty,gt=0"`
	WeightKg  float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	Goal      string  `json:"goal" validate:"omitempty,oneof=lose_weight gain_muscle stay_fit"`
	Language  string  `json:"language"`
}

type UpdateUserRequest struct {
	Username  *string  `json:"username"`
	Email     *string  `json:"email" validate:"omitempty,email"`
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Birthday  *string  `json:"birthday"` // expected format: YYYY-MM-DD
	Gender    *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	HeightCm  *float64 `json:"height_cm" validate:"omitempty,gt=0"`
	WeightKg  *float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	Goal      *string  `json:"goal" validate:"omitempty,oneof=lose_weight gain_muscle stay_fit"`
	Language  *string  `json:"language"`
	Role      *string  `json:"role"`
	Enable    *bool    `json:"enable"`
}

// UpdatePreferencesRequest carries partial toggle updates. Omitted fields
// keep their stored value.
type UpdatePreferencesRequest struct {
	PushEnabled             *bool `json:"push_enabled"`
	DietRemindersEnabled    *bool `json:"diet_reminders_enabled"`
	WorkoutRemindersEnabled *bool `json:"workout_reminders_enabled"`
}
