package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/application/notification"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	jwtinfra "github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/jwt"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockNotifService struct{ mock.Mock }

func (m *mockNotifService) List(ctx context.Context, userID string, limit int, cursor string) ([]domain.Notification, string, error) {
	args := m.Called(ctx, userID, limit, cursor)
	ns, _ := args.Get(0).([]domain.Notification)
	return ns, args.String(1), args.Error(2)
}
func (m *mockNotifService) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *mockNotifService) Stats(ctx context.Context, userID string) (*domain.NotificationStats, error) {
	args := m.Called(ctx, userID)
	if s, _ := args.Get(0).(*domain.NotificationStats); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotifService) MarkRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotifService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *mockNotifService) Delete(ctx context.Context, notificationID, userID string) error {
	return m.Called(ctx, notificationID, userID).Error(0)
}
func (m *mockNotifService) DeleteAll(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Dispatch(ctx context.Context, userID string, kind domain.Kind, params map[string]string) (*notification.DispatchResult, error) {
	args := m.Called(ctx, userID, kind, params)
	if r, _ := args.Get(0).(*notification.DispatchResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDispatcher) Sweep(ctx context.Context, userID string) (*notification.SweepResult, error) {
	args := m.Called(ctx, userID)
	if r, _ := args.Get(0).(*notification.SweepResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func authed(req *http.Request, userID string) *http.Request {
	claims := &jwtinfra.Claims{UserID: userID, Role: domain.RoleUser}
	ctx := context.WithValue(req.Context(), middleware.ClaimsKey, claims)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// --- tests ---

func TestNotificationList_ReturnsFeed(t *testing.T) {
	svc := &mockNotifService{}
	svc.On("List", mock.Anything, "u1", 0, "").Return([]domain.Notification{
		{NotificationID: "n1", Kind: domain.KindWelcome},
	}, "cursor-2", nil)
	h := NewNotificationHandler(svc, &mockDispatcher{})

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/notifications", nil), "u1")
	rr := httptest.NewRecorder()
	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var env NotificationListEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)
	assert.Equal(t, "cursor-2", env.NextCursor)
}

func TestNotificationList_Unauthenticated(t *testing.T) {
	h := NewNotificationHandler(&mockNotifService{}, &mockDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUnreadCount(t *testing.T) {
	svc := &mockNotifService{}
	svc.On("CountUnread", mock.Anything, "u1").Return(4, nil)
	h := NewNotificationHandler(svc, &mockDispatcher{})

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/notifications/unread-count", nil), "u1")
	rr := httptest.NewRecorder()
	h.UnreadCount(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"unread":4}`, rr.Body.String())
}

func TestMarkRead_ForbiddenMapsTo403(t *testing.T) {
	svc := &mockNotifService{}
	svc.On("MarkRead", mock.Anything, "n1", "u1").Return(nil, domain.ErrForbidden)
	h := NewNotificationHandler(svc, &mockDispatcher{})

	req := authed(httptest.NewRequest(http.MethodPut, "/v1/notifications/n1/read", nil), "u1")
	req = withURLParam(req, "id", "n1")
	rr := httptest.NewRecorder()
	h.MarkRead(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateTest_UnknownKindRejectedWith400(t *testing.T) {
	dp := &mockDispatcher{}
	h := NewNotificationHandler(&mockNotifService{}, dp)

	body := strings.NewReader(`{"kind":"flash_sale"}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/notifications/test", body), "u1")
	rr := httptest.NewRecorder()
	h.CreateTest(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	dp.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTest_ValidKindDispatches(t *testing.T) {
	dp := &mockDispatcher{}
	dp.On("Dispatch", mock.Anything, "u1", domain.KindGeneral, mock.Anything).Return(&notification.DispatchResult{}, nil)
	h := NewNotificationHandler(&mockNotifService{}, dp)

	body := strings.NewReader(`{"kind":"general","params":{"title":"hello"}}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/notifications/test", body), "u1")
	rr := httptest.NewRecorder()
	h.CreateTest(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	dp.AssertExpectations(t)
}
