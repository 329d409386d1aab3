package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/id"
	pkgtoken "github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

const (
	verTypeOTP   = "otp"
	verTypeEmail = "email"

	otpTTL        = 15 * time.Minute
	emailTokenTTL = 24 * time.Hour
)

type RecoveryResult struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
}

// Service covers account recovery and email confirmation. Recovery is
// email-only: an OTP is mailed, validating it opens a fresh session so the
// client can change the password through the normal authenticated endpoint.
type Service interface {
	RequestPasswordRecovery(ctx context.Context, email string) error
	ValidateOTP(ctx context.Context, email, code string) (*RecoveryResult, error)
	ChangePassword(ctx context.Context, userID, newPassword string) error
	RequestEmailConfirmation(ctx context.Context, userID string) error
	ValidateEmailToken(ctx context.Context, userID, token string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error)
	Delete(ctx context.Context, userID, verType string) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	userRepo         userStore
	verificationRepo verificationStore
	sessionRepo      sessionStore
	jwtProvider      jwtSigner
	mailer           mailer
	refreshTokenDur  time.Duration
}

type ServiceDeps struct {
	UserRepo         userStore
	VerificationRepo verificationStore
	SessionRepo      sessionStore
	JWTProvider      jwtSigner
	Mailer           mailer
	RefreshTokenDur  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo:         deps.UserRepo,
		verificationRepo: deps.VerificationRepo,
		sessionRepo:      deps.SessionRepo,
		jwtProvider:      deps.JWTProvider,
		mailer:           deps.Mailer,
		refreshTokenDur:  deps.RefreshTokenDur,
	}
}

func (s *service) RequestPasswordRecovery(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("no account for that email: %w", domain.ErrNotFound)
	}
	code, err := newOTP()
	if err != nil {
		return err
	}
	v := &domain.UserVerification{
		UserID:    u.UserID,
		Type:      verTypeOTP,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendEmail(u.Email, "PrimeForm password recovery",
		fmt.Sprintf("Hi %s,\n\nYour password recovery code is %s.\nIt expires in 15 minutes. If you did not request this, ignore this email.", u.FirstName, code))
}

// ValidateOTP checks the mailed code and, on success, consumes it and opens
// a session so the client can immediately change the password.
func (s *service) ValidateOTP(ctx context.Context, email, code string) (*RecoveryResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid recovery code: %w", domain.ErrUnauthorized)
	}
	v, err := s.verificationRepo.Get(ctx, u.UserID, verTypeOTP)
	if err != nil {
		return nil, fmt.Errorf("invalid recovery code: %w", domain.ErrUnauthorized)
	}
	if v.Code != code || v.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("invalid recovery code: %w", domain.ErrUnauthorized)
	}
	if err := s.verificationRepo.Delete(ctx, u.UserID, verTypeOTP); err != nil {
		return nil, err
	}
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
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
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &RecoveryResult{Bearer: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.Update(ctx, userID, map[string]interface{}{"password_hash": string(hash)})
}

func (s *service) RequestEmailConfirmation(ctx context.Context, userID string) error {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if u.EmailConfirmed {
		return fmt.Errorf("email already confirmed: %w", domain.ErrConflict)
	}
	token, err := newEmailToken()
	if err != nil {
		return err
	}
	v := &domain.UserVerification{
		UserID:    u.UserID,
		Type:      verTypeEmail,
		Code:      token,
		ExpiresAt: time.Now().Add(emailTokenTTL).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendEmail(u.Email, "Confirm your PrimeForm email",
		fmt.Sprintf("Hi %s,\n\nYour email confirmation code is %s.\nIt expires in 24 hours.", u.FirstName, token))
}

func (s *service) ValidateEmailToken(ctx context.Context, userID, token string) error {
	v, err := s.verificationRepo.Get(ctx, userID, verTypeEmail)
	if err != nil {
		return fmt.Errorf("invalid confirmation code: %w", domain.ErrUnauthorized)
	}
	if v.Code != token || v.ExpiresAt < time.Now().Unix() {
		return fmt.Errorf("invalid confirmation code: %w", domain.ErrUnauthorized)
	}
	if err := s.verificationRepo.Delete(ctx, userID, verTypeEmail); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, userID, map[string]interface{}{"email_confirmed": true})
}

// newOTP returns a 6-digit numeric code with a uniform distribution.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func newEmailToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
