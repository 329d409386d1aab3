package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/id"
	pkgtoken "github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername     = "username"
	fieldEmail        = "email"
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldBirthday     = "birthday"
	fieldGender       = "gender"
	fieldHeightCm     = "height_cm"
	fieldWeightKg     = "weight_kg"
	fieldGoal         = "goal"
	fieldLanguage     = "language"
	fieldRole         = "role"
	fieldEnable       = "enable"
	fieldPasswordHash = "password_hash"
	fieldNotifPrefs   = "notification_prefs"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	RegisterWithSession(ctx context.Context, req domain.CreateUserRequest) (*domain.Session, string, string, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferencesRequest) (*domain.NotificationPreferences, error)
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	SoftDeleteByUser(ctx context.Context, userID string) error
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type dispatcher interface {
	Dispatch(ctx context.Context, userID string, kind domain.Kind, params map[string]string) (*notification.DispatchResult, error)
}

type service struct {
	repo            userStore
	sessionRepo     sessionStore
	jwtProvider     jwtSigner
	mailer          mailer
	dispatcher      dispatcher
	refreshTokenDur time.Duration
}

type ServiceDeps struct {
	UserRepo        userStore
	SessionRepo     sessionStore
	JWTProvider     jwtSigner
	Mailer          mailer
	Dispatcher      dispatcher
	RefreshTokenDur time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:            deps.UserRepo,
		sessionRepo:     deps.SessionRepo,
		jwtProvider:     deps.JWTProvider,
		mailer:          deps.Mailer,
		dispatcher:      deps.Dispatcher,
		refreshTokenDur: deps.RefreshTokenDur,
	}
}

// Register creates the account and records its welcome notification. The
// welcome push itself is deferred until the client registers a device token;
// only the record is written here. Welcome side effects (notification,
// email) are logged on failure but never fail the signup.
func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	var birthday time.Time
	if req.Birthday != "" {
		birthday, err = time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
	}
	language := req.Language
	if language == "" {
		language = "en"
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:        id.New(),
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  string(hash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Birthday:      birthday,
		Gender:        req.Gender,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		Goal:          req.Goal,
		Language:      language,
		Notifications: domain.DefaultNotificationPreferences(),
		Role:          domain.RoleUser,
		AuthProvider:  "local",
		Enable:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}

	if _, err := s.dispatcher.Dispatch(ctx, u.UserID, domain.KindWelcome, nil); err != nil {
		slog.Warn("welcome notification dispatch failed", "user_id", u.UserID, "err", err)
	}
	if err := s.mailer.SendEmail(u.Email, "Welcome to PrimeForm",
		fmt.Sprintf("Hi %s,\n\nWelcome to PrimeForm! Your account is ready.\nOpen the app to set up your first diet and workout plan.\n\nStay strong,\nThe PrimeForm team", u.FirstName)); err != nil {
		slog.Warn("welcome email failed", "user_id", u.UserID, "err", err)
	}
	return u, nil
}

func (s *service) RegisterWithSession(ctx context.Context, req domain.CreateUserRequest) (*domain.Session, string, string, error) {
	u, err := s.Register(ctx, req)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, "", "", err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, "", "", err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, "", "", err
	}
	sess.User = u
	return sess, bearer, refreshToken, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Username != nil {
		updates[fieldUsername] = *req.Username
	}
	if req.Email != nil {
		updates[fieldEmail] = *req.Email
	}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Birthday != nil {
		t, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldBirthday] = t
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if req.HeightCm != nil {
		updates[fieldHeightCm] = *req.HeightCm
	}
	if req.WeightKg != nil {
		updates[fieldWeightKg] = *req.WeightKg
	}
	if req.Goal != nil {
		updates[fieldGoal] = *req.Goal
	}
	if req.Language != nil {
		updates[fieldLanguage] = *req.Language
	}
	if req.Role != nil {
		switch *req.Role {
		case domain.RoleAdmin, domain.RoleUser:
			updates[fieldRole] = *req.Role
		default:
			return nil, fmt.Errorf("invalid role: %w", domain.ErrBadRequest)
		}
	}
	if req.Enable != nil {
		updates[fieldEnable] = *req.Enable
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	return s.sessionRepo.SoftDeleteByUser(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]interface{}{fieldPasswordHash: string(hash)})
}

func (s *service) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := u.Notifications
	return &prefs, nil
}

// UpdatePreferences merges the provided toggles over the stored ones and
// writes the whole sub-object back. The dispatcher reads these fresh on
// every dispatch, so the change takes effect immediately.
func (s *service) UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferencesRequest) (*domain.NotificationPreferences, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := u.Notifications
	if req.PushEnabled != nil {
		prefs.PushEnabled = *req.PushEnabled
	}
	if req.DietRemindersEnabled != nil {
		prefs.DietRemindersEnabled = *req.DietRemindersEnabled
	}
	if req.WorkoutRemindersEnabled != nil {
		prefs.WorkoutRemindersEnabled = *req.WorkoutRemindersEnabled
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldNotifPrefs: prefs}); err != nil {
		return nil, err
	}
	return &prefs, nil
}
