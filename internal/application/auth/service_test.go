package auth

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockVerificationStore struct{ mock.Mock }

func (m *mockVerificationStore) Put(ctx context.Context, v *domain.UserVerification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVerificationStore) Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error) {
	args := m.Called(ctx, userID, verType)
	if v, _ := args.Get(0).(*domain.UserVerification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerificationStore) Delete(ctx context.Context, userID, verType string) error {
	return m.Called(ctx, userID, verType).Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, role, sessionID string) (string, error) {
	args := m.Called(userID, role, sessionID)
	return args.String(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- helpers ---

func newSvc(us *mockUserStore, vs *mockVerificationStore, ss *mockSessionStore, jwt *mockJWTSigner, ml *mockMailer) Service {
	return NewService(ServiceDeps{
		UserRepo:         us,
		VerificationRepo: vs,
		SessionRepo:      ss,
		JWTProvider:      jwt,
		Mailer:           ml,
		RefreshTokenDur:  24 * time.Hour,
	})
}

// --- tests ---

func TestRequestPasswordRecovery_StoresOTPAndMails(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "dan@example.com").Return(&domain.User{
		UserID: "u1", Email: "dan@example.com", FirstName: "Dan",
	}, nil)
	var stored *domain.UserVerification
	vs := &mockVerificationStore{}
	vs.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.UserVerification)
	}).Return(nil)
	ml := &mockMailer{}
	ml.On("SendEmail", "dan@example.com", mock.Anything, mock.Anything).Return(nil)
	svc := newSvc(us, vs, &mockSessionStore{}, &mockJWTSigner{}, ml)

	require.NoError(t, svc.RequestPasswordRecovery(context.Background(), "dan@example.com"))
	require.NotNil(t, stored)
	assert.Equal(t, "otp", stored.Type)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), stored.Code)
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), stored.ExpiresAt, 5)
	ml.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestRequestPasswordRecovery_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, fmt.Errorf("missing: %w", domain.ErrNotFound))
	ml := &mockMailer{}
	svc := newSvc(us, &mockVerificationStore{}, &mockSessionStore{}, &mockJWTSigner{}, ml)

	err := svc.RequestPasswordRecovery(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateOTP_OpensSessionAndConsumesCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "dan@example.com").Return(&domain.User{
		UserID: "u1", Email: "dan@example.com", Role: domain.RoleUser,
	}, nil)
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "u1", "otp").Return(&domain.UserVerification{
		UserID: "u1", Type: "otp", Code: "123456",
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	}, nil)
	vs.On("Delete", mock.Anything, "u1", "otp").Return(nil)
	ss := &mockSessionStore{}
	ss.On("Put", mock.Anything, mock.Anything).Return(nil)
	jwt := &mockJWTSigner{}
	jwt.On("Sign", "u1", domain.RoleUser, mock.Anything).Return("bearer", nil)
	svc := newSvc(us, vs, ss, jwt, &mockMailer{})

	res, err := svc.ValidateOTP(context.Background(), "dan@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.Bearer)
	assert.Len(t, res.RefreshToken, 64)
	vs.AssertCalled(t, "Delete", mock.Anything, "u1", "otp")
}

func TestValidateOTP_WrongCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "dan@example.com").Return(&domain.User{UserID: "u1"}, nil)
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "u1", "otp").Return(&domain.UserVerification{
		UserID: "u1", Type: "otp", Code: "123456",
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	}, nil)
	svc := newSvc(us, vs, &mockSessionStore{}, &mockJWTSigner{}, &mockMailer{})

	_, err := svc.ValidateOTP(context.Background(), "dan@example.com", "654321")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	vs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateOTP_ExpiredCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "dan@example.com").Return(&domain.User{UserID: "u1"}, nil)
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "u1", "otp").Return(&domain.UserVerification{
		UserID: "u1", Type: "otp", Code: "123456",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}, nil)
	svc := newSvc(us, vs, &mockSessionStore{}, &mockJWTSigner{}, &mockMailer{})

	_, err := svc.ValidateOTP(context.Background(), "dan@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword_WritesBcryptHash(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).Run(func(args mock.Arguments) {
		updates = args.Get(2).(map[string]interface{})
	}).Return(nil)
	svc := newSvc(us, &mockVerificationStore{}, &mockSessionStore{}, &mockJWTSigner{}, &mockMailer{})

	require.NoError(t, svc.ChangePassword(context.Background(), "u1", "brand-new-pass"))
	hash, ok := updates["password_hash"].(string)
	require.True(t, ok)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new-pass")))
}

func TestRequestEmailConfirmation_AlreadyConfirmed(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", EmailConfirmed: true}, nil)
	svc := newSvc(us, &mockVerificationStore{}, &mockSessionStore{}, &mockJWTSigner{}, &mockMailer{})

	err := svc.RequestEmailConfirmation(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestValidateEmailToken_MarksConfirmed(t *testing.T) {
	us := &mockUserStore{}
	us.On("Update", mock.Anything, "u1", map[string]interface{}{"email_confirmed": true}).Return(nil)
	vs := &mockVerificationStore{}
	vs.On("Get", mock.Anything, "u1", "email").Return(&domain.UserVerification{
		UserID: "u1", Type: "email", Code: "abc123",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, nil)
	vs.On("Delete", mock.Anything, "u1", "email").Return(nil)
	svc := newSvc(us, vs, &mockSessionStore{}, &mockJWTSigner{}, &mockMailer{})

	require.NoError(t, svc.ValidateEmailToken(context.Background(), "u1", "abc123"))
	us.AssertExpectations(t)
}
