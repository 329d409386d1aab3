package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/config"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/dynamo"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/google"
	jwtinfra "github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/jwt"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/redisstore"
	s3infra "github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/s3"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/smtp"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/sns"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/jobs"
	transporthttp "github.com/FaisalHanif12/PrimeForm-sub003/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Redis: streak counters and live notification announcements.
	redisClient, err := redisstore.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("redis unavailable: %v", err)
	}
	streakStore := redisstore.NewStreakStore(redisClient)
	announcer := redisstore.NewAnnouncer(redisClient)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for progress photos.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS push gateway (optional — without a platform ARN, records are
	// written but never pushed).
	var pusher sns.Pusher
	if cfg.SNSPlatformARN != "" {
		p, err := sns.NewGateway(cfg)
		if err != nil {
			log.Printf("WARN: push gateway not available: %v", err)
		} else {
			pusher = p
		}
	} else {
		log.Println("WARN: SNS_PLATFORM_APPLICATION_ARN not set, push delivery disabled")
	}

	// Google sign-in (optional).
	var googleAuth *google.Verifier
	if cfg.GoogleClientID != "" {
		googleAuth = google.NewVerifier(cfg.GoogleClientID)
	}

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	deviceRepo := dynamo.NewDeviceRepo(dynamoClient, cfg.DynamoTables.Devices)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)

	deps := &transporthttp.Deps{
		UserRepo:         userRepo,
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		NotificationRepo: notificationRepo,
		DeviceRepo:       deviceRepo,
		PlanRepo:         dynamo.NewPlanRepo(dynamoClient, cfg.DynamoTables.Plans),
		ProgressRepo:     dynamo.NewProgressRepo(dynamoClient, cfg.DynamoTables.Progress),
		BadgeRepo:        dynamo.NewBadgeRepo(dynamoClient, cfg.DynamoTables.Badges),
		PhotoRepo:        dynamo.NewPhotoRepo(dynamoClient, cfg.DynamoTables.ProgressPhotos),
		ExerciseRepo:     dynamo.NewExerciseRepo(dynamoClient, cfg.DynamoTables.Exercises),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.UserVerifications),
		AppVersionRepo:   dynamo.NewAppVersionRepo(dynamoClient, cfg.DynamoTables.AppVersions),
		StreakStore:      streakStore,
		Announcer:        announcer,
		S3Store:          s3Store,
		Mailer:           mailer,
		Pusher:           pusher,
		JWTProvider:      jwtProvider,
		GoogleAuth:       googleAuth,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Cron: reminder fan-outs and the streak-broken check. The scheduler
	// gets its own dispatcher so job pushes share the HTTP path's semantics.
	dispatcherDeps := notification.DispatcherDeps{
		Users:       userRepo,
		Devices:     deviceRepo,
		Repo:        notificationRepo,
		PushTimeout: cfg.PushTimeout,
	}
	if pusher != nil {
		dispatcherDeps.Pusher = pusher
	}
	dispatcherDeps.Announcer = announcer
	scheduler := jobs.NewScheduler(jobs.SchedulerDeps{
		Users:      userRepo,
		Dispatcher: notification.NewDispatcher(dispatcherDeps),
		Streaks:    streakStore,
	})
	if err := scheduler.Register(cfg); err != nil {
		log.Fatalf("cron registration failed: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	<-scheduler.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
