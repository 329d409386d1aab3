package domain

import "time"

// Platforms a push registration can come from.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// DeviceRegistration is the single outstanding push registration for a user.
// The table is keyed by user_id alone, so registering a new token replaces
// the previous one: last write wins, and a user can never accumulate stale
// registrations.
type DeviceRegistration struct {
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	Token        string    `json:"token" dynamodbav:"token"`
	Platform     string    `json:"platform" dynamodbav:"platform"` // "ios" | "android"
	RegisteredAt time.Time `json:"registered" dynamodbav:"registered_at"`
}

type RegisterDeviceTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

type CheckVersionRequest struct {
	Version float64 `json:"version" validate:"required,gt=0"`
}
