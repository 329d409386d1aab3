package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	// SNSPlatformARN is the SNS platform application the mobile apps register
	// their push tokens against. Push delivery is disabled when empty.
	SNSPlatformARN string
	PushTimeout    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	RefreshExpiry     time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	GoogleClientID string

	// Cron expressions for the daily reminder fan-outs and the streak check.
	DietReminderCron      string
	WorkoutReminderCron   string
	GymReminderCron       string
	StreakBrokenCheckCron string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users             string
	Sessions          string
	Devices           string
	Notifications     string
	Plans             string
	Progress          string
	Badges            string
	ProgressPhotos    string
	Exercises         string
	UserVerifications string
	AppVersions       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:             getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:          getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Devices:           getEnv("DYNAMO_TABLE_DEVICES", "devices"),
			Notifications:     getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			Plans:             getEnv("DYNAMO_TABLE_PLANS", "plans"),
			Progress:          getEnv("DYNAMO_TABLE_PROGRESS", "progress"),
			Badges:            getEnv("DYNAMO_TABLE_BADGES", "badges"),
			ProgressPhotos:    getEnv("DYNAMO_TABLE_PROGRESS_PHOTOS", "progress_photos"),
			Exercises:         getEnv("DYNAMO_TABLE_EXERCISES", "exercises"),
			UserVerifications: getEnv("DYNAMO_TABLE_USER_VERIFICATIONS", "user_verifications"),
			AppVersions:       getEnv("DYNAMO_TABLE_APP_VERSIONS", "app_versions"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "primeform-media"),

		SNSPlatformARN: getEnv("SNS_PLATFORM_APPLICATION_ARN", ""),
		PushTimeout:    getEnvDuration("PUSH_TIMEOUT", 15*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		RefreshExpiry:     time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@primeform.app"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		DietReminderCron:      getEnv("DIET_REMINDER_CRON", "0 8 * * *"),
		WorkoutReminderCron:   getEnv("WORKOUT_REMINDER_CRON", "0 17 * * *"),
		GymReminderCron:       getEnv("GYM_REMINDER_CRON", "0 7 * * *"),
		StreakBrokenCheckCron: getEnv("STREAK_BROKEN_CHECK_CRON", "30 9 * * *"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
