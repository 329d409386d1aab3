package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/sns"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/l10n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserGetter struct{ mock.Mock }

func (m *mockUserGetter) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDeviceGetter struct{ mock.Mock }

func (m *mockDeviceGetter) Get(ctx context.Context, userID string) (*domain.DeviceRegistration, error) {
	args := m.Called(ctx, userID)
	if d, _ := args.Get(0).(*domain.DeviceRegistration); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDispatchStore struct{ mock.Mock }

func (m *mockDispatchStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockDispatchStore) FindUnread(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if ns, _ := args.Get(0).([]domain.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPusher struct{ mock.Mock }

func (m *mockPusher) Push(ctx context.Context, msg sns.PushMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type mockAnnouncer struct{ mock.Mock }

func (m *mockAnnouncer) Announce(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// --- helpers ---

const testUserID = "01TESTUSER00000000000000"

func testUser(mutate ...func(*domain.User)) *domain.User {
	u := &domain.User{
		UserID:        testUserID,
		Username:      "alice",
		FirstName:     "Alice",
		Language:      "en",
		Role:          domain.RoleUser,
		Enable:        true,
		Notifications: domain.DefaultNotificationPreferences(),
	}
	for _, f := range mutate {
		f(u)
	}
	return u
}

func testRegistration() *domain.DeviceRegistration {
	return &domain.DeviceRegistration{
		UserID:       testUserID,
		Token:        "device-token-abc",
		Platform:     domain.PlatformAndroid,
		RegisteredAt: time.Now().UTC(),
	}
}

func newDispatcher(us *mockUserGetter, ds *mockDeviceGetter, repo *mockDispatchStore, p *mockPusher) Dispatcher {
	deps := DispatcherDeps{Users: us, Devices: ds, Repo: repo, PushTimeout: time.Second}
	if p != nil {
		deps.Pusher = p
	}
	return NewDispatcher(deps)
}

// --- Dispatch ---

func TestDispatch_UnknownKindRejected(t *testing.T) {
	d := newDispatcher(&mockUserGetter{}, &mockDeviceGetter{}, &mockDispatchStore{}, nil)

	_, err := d.Dispatch(context.Background(), testUserID, domain.Kind("party_time"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestDispatch_UnknownUserRejected(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, "missing").Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	d := newDispatcher(us, &mockDeviceGetter{}, repo, nil)

	_, err := d.Dispatch(context.Background(), "missing", domain.KindGeneral, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// No token: the record is still created and the push simply waits for the
// sweep. Exactly one record, zero gateway calls.
func TestDispatch_NoToken_RecordCreatedPushDeferred(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("device registration not found: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	p := &mockPusher{}
	d := newDispatcher(us, ds, repo, p)

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindWorkoutPlanCreated, map[string]string{"plan_id": "p1"})
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.False(t, res.Suppressed)
	assert.Nil(t, res.Push)
	assert.Equal(t, domain.KindWorkoutPlanCreated, res.Notification.Kind)
	assert.False(t, res.Notification.Read)
	assert.NotEmpty(t, res.Notification.NotificationID)
	repo.AssertNumberOfCalls(t, "Put", 1)
	p.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
}

// created_at backs the feed's GSI sort key; fractional seconds would make the
// marshaled RFC 3339 value variable-width and break lexicographic ordering.
func TestDispatch_CreatedAtWholeSeconds(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	d := newDispatcher(us, ds, repo, &mockPusher{})

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindGeneral, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.Zero(t, res.Notification.CreatedAt.Nanosecond())
	assert.False(t, res.Notification.CreatedAt.IsZero())
}

func TestDispatch_WithToken_PushesImmediately(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(testRegistration(), nil)
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	p := &mockPusher{}
	p.On("Push", mock.Anything, mock.Anything).Return(nil)
	d := newDispatcher(us, ds, repo, p)

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindBadgeEarned, map[string]string{"badge_type": "week_streak"})
	require.NoError(t, err)
	require.NotNil(t, res.Push)
	assert.True(t, res.Push.Attempted)
	assert.True(t, res.Push.Delivered)
	p.AssertNumberOfCalls(t, "Push", 1)
}

// Welcome is recorded immediately but never pushed by Dispatch, even when a
// token is already registered. The sweep owns its delivery.
func TestDispatch_WelcomeNeverPushedDirectly(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(testRegistration(), nil)
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	p := &mockPusher{}
	d := newDispatcher(us, ds, repo, p)

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindWelcome, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.Nil(t, res.Push)
	p.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
	ds.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

// Global push toggle off: every reminder kind is dropped entirely.
func TestDispatch_PushDisabledSuppressesAllReminders(t *testing.T) {
	reminders := []domain.Kind{
		domain.KindDietReminder, domain.KindWorkoutReminder,
		domain.KindGymReminder, domain.KindStreakBrokenReminder,
	}
	for _, kind := range reminders {
		us := &mockUserGetter{}
		us.On("Get", mock.Anything, testUserID).Return(testUser(func(u *domain.User) {
			u.Notifications.PushEnabled = false
		}), nil)
		repo := &mockDispatchStore{}
		p := &mockPusher{}
		d := newDispatcher(us, &mockDeviceGetter{}, repo, p)

		res, err := d.Dispatch(context.Background(), testUserID, kind, nil)
		require.NoError(t, err, "kind %s", kind)
		assert.True(t, res.Suppressed, "kind %s", kind)
		assert.Equal(t, ReasonPushDisabled, res.Reason, "kind %s", kind)
		assert.Nil(t, res.Notification, "kind %s", kind)
		repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
		p.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
	}
}

func TestDispatch_CategoryToggles(t *testing.T) {
	cases := []struct {
		name     string
		kind     domain.Kind
		mutate   func(*domain.User)
		suppress bool
		reason   SuppressReason
	}{
		{"diet reminder gated by diet toggle", domain.KindDietReminder,
			func(u *domain.User) { u.Notifications.DietRemindersEnabled = false }, true, ReasonCategoryDisabled},
		{"workout reminder gated by workout toggle", domain.KindWorkoutReminder,
			func(u *domain.User) { u.Notifications.WorkoutRemindersEnabled = false }, true, ReasonCategoryDisabled},
		{"gym reminder gated by workout toggle", domain.KindGymReminder,
			func(u *domain.User) { u.Notifications.WorkoutRemindersEnabled = false }, true, ReasonCategoryDisabled},
		{"streak reminder passes category toggles", domain.KindStreakBrokenReminder,
			func(u *domain.User) {
				u.Notifications.DietRemindersEnabled = false
				u.Notifications.WorkoutRemindersEnabled = false
			}, false, ""},
		{"diet reminder unaffected by workout toggle", domain.KindDietReminder,
			func(u *domain.User) { u.Notifications.WorkoutRemindersEnabled = false }, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			us := &mockUserGetter{}
			us.On("Get", mock.Anything, testUserID).Return(testUser(tc.mutate), nil)
			ds := &mockDeviceGetter{}
			ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
			repo := &mockDispatchStore{}
			repo.On("Put", mock.Anything, mock.Anything).Return(nil)
			d := newDispatcher(us, ds, repo, &mockPusher{})

			res, err := d.Dispatch(context.Background(), testUserID, tc.kind, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.suppress, res.Suppressed)
			assert.Equal(t, tc.reason, res.Reason)
			if tc.suppress {
				repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
			} else {
				repo.AssertNumberOfCalls(t, "Put", 1)
			}
		})
	}
}

// Transactional kinds are recorded even when every toggle is off.
func TestDispatch_TransactionalKindsNeverSuppressed(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(func(u *domain.User) {
		u.Notifications = domain.NotificationPreferences{}
	}), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	d := newDispatcher(us, ds, repo, &mockPusher{})

	for _, kind := range []domain.Kind{domain.KindWelcome, domain.KindDietPlanCreated, domain.KindWorkoutPlanCreated, domain.KindGeneral, domain.KindBadgeEarned} {
		res, err := d.Dispatch(context.Background(), testUserID, kind, nil)
		require.NoError(t, err, "kind %s", kind)
		assert.False(t, res.Suppressed, "kind %s", kind)
		require.NotNil(t, res.Notification, "kind %s", kind)
	}
}

// Push failure is reported as data on the result; the record id is still
// returned and no error surfaces.
func TestDispatch_PushFailureDoesNotFailDispatch(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(testRegistration(), nil)
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	p := &mockPusher{}
	p.On("Push", mock.Anything, mock.Anything).Return(&sns.DeliveryError{Code: sns.CodeTokenInvalid, Err: errors.New("endpoint disabled")})
	d := newDispatcher(us, ds, repo, p)

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindBadgeEarned, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.NotEmpty(t, res.Notification.NotificationID)
	require.NotNil(t, res.Push)
	assert.True(t, res.Push.Attempted)
	assert.False(t, res.Push.Delivered)
	assert.Equal(t, sns.CodeTokenInvalid, res.Push.ErrorCode)
}

// The record write is the source of truth; its failure is fatal.
func TestDispatch_StoreWriteFailurePropagates(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	repo := &mockDispatchStore{}
	storeErr := errors.New("provisioned throughput exceeded")
	repo.On("Put", mock.Anything, mock.Anything).Return(storeErr)
	p := &mockPusher{}
	d := newDispatcher(us, &mockDeviceGetter{}, repo, p)

	_, err := d.Dispatch(context.Background(), testUserID, domain.KindGeneral, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	p.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
}

func TestDispatch_LocalizesToUserLanguage(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(func(u *domain.User) {
		u.Language = "ur"
	}), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	d := newDispatcher(us, ds, repo, &mockPusher{})

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindBadgeEarned, map[string]string{"badge_type": "first_workout"})
	require.NoError(t, err)
	want := l10n.Resolve(domain.KindBadgeEarned, "ur", l10n.Params{"name": "Alice", "badge_type": "first_workout"})
	assert.Equal(t, want.Title, res.Notification.Title)
	assert.Equal(t, want.Body, res.Notification.Body)
	assert.Equal(t, "ur", res.Notification.Metadata["language"])
}

func TestDispatch_EmptyLanguageDefaultsToEnglish(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(func(u *domain.User) {
		u.Language = ""
	}), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	d := newDispatcher(us, ds, repo, &mockPusher{})

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindGeneral, nil)
	require.NoError(t, err)
	want := l10n.Resolve(domain.KindGeneral, "en", nil)
	assert.Equal(t, want.Title, res.Notification.Title)
	assert.Equal(t, "en", res.Notification.Metadata["language"])
}

func TestDispatch_RecordCarriesExpiryAndPriority(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	d := newDispatcher(us, ds, repo, &mockPusher{})

	before := time.Now().UTC()
	res, err := d.Dispatch(context.Background(), testUserID, domain.KindBadgeEarned, nil)
	require.NoError(t, err)

	n := res.Notification
	assert.Equal(t, domain.PriorityHigh, n.Priority)
	wantExpiry := before.Add(domain.NotificationRetention).Unix()
	assert.InDelta(t, wantExpiry, n.ExpiresAt, 5)
}

func TestDispatch_PushDataIncludesRecordIDAndMetadata(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(testRegistration(), nil)
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	p := &mockPusher{}
	var sent sns.PushMessage
	p.On("Push", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(sns.PushMessage)
	}).Return(nil)
	d := newDispatcher(us, ds, repo, p)

	res, err := d.Dispatch(context.Background(), testUserID, domain.KindDietPlanCreated, map[string]string{"plan_id": "p42"})
	require.NoError(t, err)
	assert.Equal(t, "device-token-abc", sent.Token)
	assert.Equal(t, res.Notification.NotificationID, sent.Data["notification_id"])
	assert.Equal(t, "diet_plan_created", sent.Data["kind"])
	assert.Equal(t, "p42", sent.Data["plan_id"])
	assert.Equal(t, "en", sent.Data["language"])
}

func TestDispatch_AnnouncerFailureIsNonFatal(t *testing.T) {
	us := &mockUserGetter{}
	us.On("Get", mock.Anything, testUserID).Return(testUser(), nil)
	ds := &mockDeviceGetter{}
	ds.On("Get", mock.Anything, testUserID).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
	repo := &mockDispatchStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	an := &mockAnnouncer{}
	an.On("Announce", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	d := NewDispatcher(DispatcherDeps{Users: us, Devices: ds, Repo: repo, Announcer: an, PushTimeout: time.Second})
	res, err := d.Dispatch(context.Background(), testUserID, domain.KindGeneral, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	an.AssertNumberOfCalls(t, "Announce", 1)
}
