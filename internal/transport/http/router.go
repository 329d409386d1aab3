package http

import (
	"net/http"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/auth"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/badge"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/device"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/exercise"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/plan"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/progress"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/session"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/user"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/config"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/transport/http/handler"
	appmiddleware "github.com/FaisalHanif12/PrimeForm-sub003/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	dispatcherDeps := notification.DispatcherDeps{
		Users:       deps.UserRepo,
		Devices:     deps.DeviceRepo,
		Repo:        deps.NotificationRepo,
		PushTimeout: cfg.PushTimeout,
	}
	if deps.Pusher != nil {
		dispatcherDeps.Pusher = deps.Pusher
	}
	if deps.Announcer != nil {
		dispatcherDeps.Announcer = deps.Announcer
	}
	dispatcher := notification.NewDispatcher(dispatcherDeps)

	notifSvc := notification.NewService(deps.NotificationRepo)
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		JWTProvider:     deps.JWTProvider,
		Mailer:          deps.Mailer,
		Dispatcher:      dispatcher,
		RefreshTokenDur: cfg.RefreshExpiry,
	})
	sessionDeps := session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshExpiry,
	}
	if deps.GoogleAuth != nil {
		sessionDeps.GoogleVerifier = deps.GoogleAuth
	}
	sessionSvc := session.NewService(sessionDeps)
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		SessionRepo:      deps.SessionRepo,
		JWTProvider:      deps.JWTProvider,
		Mailer:           deps.Mailer,
		RefreshTokenDur:  cfg.RefreshExpiry,
	})
	deviceSvc := device.NewService(deps.DeviceRepo, deps.AppVersionRepo, dispatcher)
	badgeSvc := badge.NewService(deps.BadgeRepo, dispatcher)
	planSvc := plan.NewService(deps.PlanRepo, dispatcher)
	progressSvc := progress.NewService(progress.ServiceDeps{
		ProgressRepo: deps.ProgressRepo,
		Streaks:      deps.StreakStore,
		Badges:       badgeSvc,
		PhotoRepo:    deps.PhotoRepo,
		Objects:      deps.S3Store,
	})
	exerciseSvc := exercise.NewService(deps.ExerciseRepo)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	notifH := handler.NewNotificationHandler(notifSvc, dispatcher)
	deviceH := handler.NewDeviceHandler(deviceSvc)
	planH := handler.NewPlanHandler(planSvc)
	progressH := handler.NewProgressHandler(progressSvc)
	badgeH := handler.NewBadgeHandler(badgeSvc)
	exerciseH := handler.NewExerciseHandler(exerciseSvc)
	pwH := handler.NewPasswordRecoveryHandler(authSvc)
	emailH := handler.NewEmailConfirmHandler(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/sessions/google", sessionH.GoogleLogin)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/password-recovery/{action}", pwH.Action)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Put("/users/{id}/password", userH.ChangePassword)
			r.Get("/users/{id}/notification-preferences", userH.GetPreferences)
			r.Put("/users/{id}/notification-preferences", userH.UpdatePreferences)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/unread-count", notifH.UnreadCount)
			r.Get("/notifications/stats", notifH.Stats)
			r.Put("/notifications/read-all", notifH.MarkAllRead)
			r.Put("/notifications/{id}/read", notifH.MarkRead)
			r.Delete("/notifications/{id}", notifH.Delete)
			r.Delete("/notifications", notifH.DeleteAll)

			r.Put("/devices/token", deviceH.RegisterToken)
			r.Get("/devices/token", deviceH.GetToken)
			r.Delete("/devices/token", deviceH.DeleteToken)
			r.Put("/devices/version", deviceH.CheckVersion)

			r.Get("/plans", planH.List)
			r.Get("/plans/{type}", planH.Get)
			r.Put("/plans/{type}", planH.Save)
			r.Delete("/plans/{type}", planH.Delete)

			r.Post("/progress", progressH.Log)
			r.Get("/progress", progressH.List)
			r.Get("/progress/stats", progressH.Stats)
			r.Get("/progress/streak", progressH.Streak)
			r.Post("/progress/photos", progressH.UploadPhoto)
			r.Get("/progress/photos", progressH.ListPhotos)
			r.Get("/progress/photos/{id}", progressH.DownloadPhoto)
			r.Delete("/progress/photos/{id}", progressH.DeletePhoto)

			r.Get("/badges", badgeH.List)
			r.Get("/exercises", exerciseH.List)
			r.Get("/exercises/{id}", exerciseH.Get)
			r.Get("/roles", handler.ListRoles)

			r.Post("/confirm-email/{action}", emailH.Action)
			r.Post("/password-recovery/change-password", pwH.ChangePassword)

			// Development only: dispatch any kind to yourself.
			if cfg.AppEnv == "development" {
				r.Post("/notifications/test", notifH.CreateTest)
			}

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)

				r.Post("/exercises", exerciseH.Create)
				r.Put("/exercises/{id}", exerciseH.Update)
				r.Delete("/exercises/{id}", exerciseH.Delete)
			})
		})
	})

	return r
}
