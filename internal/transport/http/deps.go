package http

import (
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/dynamo"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/google"
	jwtinfra "github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/jwt"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/redisstore"
	s3infra "github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/s3"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/smtp"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	NotificationRepo *dynamo.NotificationRepo
	DeviceRepo       *dynamo.DeviceRepo
	PlanRepo         *dynamo.PlanRepo
	ProgressRepo     *dynamo.ProgressRepo
	BadgeRepo        *dynamo.BadgeRepo
	PhotoRepo        *dynamo.PhotoRepo
	ExerciseRepo     *dynamo.ExerciseRepo
	VerificationRepo *dynamo.VerificationRepo
	AppVersionRepo   *dynamo.AppVersionRepo

	StreakStore *redisstore.StreakStore
	Announcer   *redisstore.Announcer
	S3Store     *s3infra.Store
	Mailer      smtp.Mailer
	Pusher      sns.Pusher
	JWTProvider *jwtinfra.Provider
	GoogleAuth  *google.Verifier
}
