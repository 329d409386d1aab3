package progress

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockProgressStore struct{ mock.Mock }

func (m *mockProgressStore) Put(ctx context.Context, e *domain.ProgressEntry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockProgressStore) ListRange(ctx context.Context, userID, from, to string) ([]domain.ProgressEntry, error) {
	args := m.Called(ctx, userID, from, to)
	es, _ := args.Get(0).([]domain.ProgressEntry)
	return es, args.Error(1)
}
func (m *mockProgressStore) CountByType(ctx context.Context, userID, progressType string) (int, error) {
	args := m.Called(ctx, userID, progressType)
	return args.Int(0), args.Error(1)
}

type mockStreakStore struct{ mock.Mock }

func (m *mockStreakStore) Record(ctx context.Context, userID, date string) (domain.Streak, error) {
	args := m.Called(ctx, userID, date)
	s, _ := args.Get(0).(domain.Streak)
	return s, args.Error(1)
}
func (m *mockStreakStore) Get(ctx context.Context, userID string) (domain.Streak, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(domain.Streak)
	return s, args.Error(1)
}

type mockBadgeAwarder struct{ mock.Mock }

func (m *mockBadgeAwarder) Award(ctx context.Context, userID string, badgeType domain.BadgeType) (bool, error) {
	args := m.Called(ctx, userID, badgeType)
	return args.Bool(0), args.Error(1)
}

type mockPhotoStore struct{ mock.Mock }

func (m *mockPhotoStore) Put(ctx context.Context, p *domain.ProgressPhoto) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPhotoStore) Get(ctx context.Context, photoID string) (*domain.ProgressPhoto, error) {
	args := m.Called(ctx, photoID)
	if p, _ := args.Get(0).(*domain.ProgressPhoto); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPhotoStore) ListByUser(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	args := m.Called(ctx, userID)
	ps, _ := args.Get(0).([]domain.ProgressPhoto)
	return ps, args.Error(1)
}
func (m *mockPhotoStore) Delete(ctx context.Context, photoID string) error {
	return m.Called(ctx, photoID).Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) UploadBase64(ctx context.Context, key, b64Data string) (string, error) {
	args := m.Called(ctx, key, b64Data)
	return args.String(0), args.Error(1)
}
func (m *mockObjectStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if r, _ := args.Get(0).(io.ReadCloser); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// --- helpers ---

func newSvc(pr *mockProgressStore, st *mockStreakStore, ba *mockBadgeAwarder, ph *mockPhotoStore, ob *mockObjectStore) Service {
	return NewService(ServiceDeps{
		ProgressRepo: pr,
		Streaks:      st,
		Badges:       ba,
		PhotoRepo:    ph,
		Objects:      ob,
	})
}

func anyAward(ba *mockBadgeAwarder) {
	ba.On("Award", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
}

// --- tests ---

func TestLog_WritesEntryAndRecordsStreak(t *testing.T) {
	pr := &mockProgressStore{}
	var entry *domain.ProgressEntry
	pr.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry = args.Get(1).(*domain.ProgressEntry)
	}).Return(nil)
	pr.On("CountByType", mock.Anything, "u1", domain.ProgressWorkout).Return(3, nil)
	st := &mockStreakStore{}
	st.On("Record", mock.Anything, "u1", "2026-08-27").Return(domain.Streak{Current: 3, Longest: 5}, nil)
	ba := &mockBadgeAwarder{}
	anyAward(ba)

	got, err := newSvc(pr, st, ba, &mockPhotoStore{}, &mockObjectStore{}).Log(context.Background(), "u1", domain.LogProgressRequest{
		Type: "workout", Date: "2026-08-27", Note: "leg day",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-27#workout", entry.EntryKey)
	assert.Equal(t, "leg day", got.Note)
	st.AssertCalled(t, "Record", mock.Anything, "u1", "2026-08-27")
}

func TestLog_DefaultsDateToToday(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	pr := &mockProgressStore{}
	pr.On("Put", mock.Anything, mock.Anything).Return(nil)
	st := &mockStreakStore{}
	st.On("Record", mock.Anything, "u1", today).Return(domain.Streak{Current: 1}, nil)
	ba := &mockBadgeAwarder{}
	anyAward(ba)

	got, err := newSvc(pr, st, ba, &mockPhotoStore{}, &mockObjectStore{}).Log(context.Background(), "u1", domain.LogProgressRequest{Type: "diet"})
	require.NoError(t, err)
	assert.Equal(t, today, got.Date)
}

func TestLog_UnknownType(t *testing.T) {
	pr := &mockProgressStore{}
	_, err := newSvc(pr, &mockStreakStore{}, &mockBadgeAwarder{}, &mockPhotoStore{}, &mockObjectStore{}).Log(context.Background(), "u1", domain.LogProgressRequest{Type: "yoga"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	pr.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLog_FirstWorkoutAwardsBadge(t *testing.T) {
	pr := &mockProgressStore{}
	pr.On("Put", mock.Anything, mock.Anything).Return(nil)
	pr.On("CountByType", mock.Anything, "u1", domain.ProgressWorkout).Return(1, nil)
	st := &mockStreakStore{}
	st.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(domain.Streak{Current: 1}, nil)
	ba := &mockBadgeAwarder{}
	ba.On("Award", mock.Anything, "u1", domain.BadgeFirstWorkout).Return(true, nil)

	_, err := newSvc(pr, st, ba, &mockPhotoStore{}, &mockObjectStore{}).Log(context.Background(), "u1", domain.LogProgressRequest{Type: "workout"})
	require.NoError(t, err)
	ba.AssertCalled(t, "Award", mock.Anything, "u1", domain.BadgeFirstWorkout)
	ba.AssertNotCalled(t, "Award", mock.Anything, "u1", domain.BadgeTenWorkouts)
}

func TestLog_TenthWorkoutAwardsBoth(t *testing.T) {
	pr := &mockProgressStore{}
	pr.On("Put", mock.Anything, mock.Anything).Return(nil)
	pr.On("CountByType", mock.Anything, "u1", domain.ProgressWorkout).Return(10, nil)
	st := &mockStreakStore{}
	st.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(domain.Streak{Current: 2}, nil)
	ba := &mockBadgeAwarder{}
	ba.On("Award", mock.Anything, "u1", domain.BadgeFirstWorkout).Return(false, nil)
	ba.On("Award", mock.Anything, "u1", domain.BadgeTenWorkouts).Return(true, nil)

	_, err := newSvc(pr, st, ba, &mockPhotoStore{}, &mockObjectStore{}).Log(context.Background(), "u1", domain.LogProgressRequest{Type: "workout"})
	require.NoError(t, err)
	ba.AssertCalled(t, "Award", mock.Anything, "u1", domain.BadgeTenWorkouts)
}

func TestLog_WeekStreakAwardsBadge(t *testing.T) {
	pr := &mockProgressStore{}
	pr.On("Put", mock.Anything, mock.Anything).Return(nil)
	st := &mockStreakStore{}
	st.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(domain.Streak{Current: 7, Longest: 7}, nil)
	ba := &mockBadgeAwarder{}
	ba.On("Award", mock.Anything, "u1", domain.BadgeFirstDietDay).Return(false, nil)
	ba.On("Award", mock.Anything, "u1", domain.BadgeWeekStreak).Return(true, nil)

	_, err := newSvc(pr, st, ba, &mockPhotoStore{}, &mockObjectStore{}).Log(context.Background(), "u1", domain.LogProgressRequest{Type: "diet"})
	require.NoError(t, err)
	ba.AssertCalled(t, "Award", mock.Anything, "u1", domain.BadgeWeekStreak)
	ba.AssertNotCalled(t, "Award", mock.Anything, "u1", domain.BadgeMonthStreak)
}

// Redis being down must not lose the logged entry.
func TestLog_StreakFailureIsNonFatal(t *testing.T) {
	pr := &mockProgressStore{}
	pr.On("Put", mock.Anything, mock.Anything).Return(nil)
	pr.On("CountByType", mock.Anything, mock.Anything, mock.Anything).Return(2, nil)
	st := &mockStreakStore{}
	st.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(domain.Streak{}, errors.New("redis down"))
	ba := &mockBadgeAwarder{}
	anyAward(ba)

	_, err := newSvc(pr, st, ba, &mockPhotoStore{}, &mockObjectStore{}).Log(context.Background(), "u1", domain.LogProgressRequest{Type: "workout"})
	assert.NoError(t, err)
}

func TestStats_CountsByType(t *testing.T) {
	pr := &mockProgressStore{}
	pr.On("ListRange", mock.Anything, "u1", "2026-08-01", "2026-08-27").Return([]domain.ProgressEntry{
		{Type: domain.ProgressWorkout}, {Type: domain.ProgressWorkout}, {Type: domain.ProgressDiet},
	}, nil)
	st := &mockStreakStore{}
	st.On("Get", mock.Anything, "u1").Return(domain.Streak{Current: 2, Longest: 9}, nil)

	stats, err := newSvc(pr, st, &mockBadgeAwarder{}, &mockPhotoStore{}, &mockObjectStore{}).Stats(context.Background(), "u1", "2026-08-01", "2026-08-27")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkoutDays)
	assert.Equal(t, 1, stats.DietDays)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 9, stats.Streak.Longest)
}

func TestStats_BadDateRejected(t *testing.T) {
	_, err := newSvc(&mockProgressStore{}, &mockStreakStore{}, &mockBadgeAwarder{}, &mockPhotoStore{}, &mockObjectStore{}).Stats(context.Background(), "u1", "Aug 1", "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUploadPhoto_StoresObjectAndRecord(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))
	ob := &mockObjectStore{}
	var key string
	ob.On("UploadBase64", mock.Anything, mock.Anything, data).Run(func(args mock.Arguments) {
		key = args.String(1)
	}).Return("s3://bucket/key", nil)
	ph := &mockPhotoStore{}
	var photo *domain.ProgressPhoto
	ph.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		photo = args.Get(1).(*domain.ProgressPhoto)
	}).Return(nil)

	got, err := newSvc(&mockProgressStore{}, &mockStreakStore{}, &mockBadgeAwarder{}, ph, ob).UploadPhoto(context.Background(), "u1", UploadPhotoRequest{
		Name: "front.jpg", Data: data, TakenAt: "2026-08-27",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "progress/u1/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, int64(len("fake-jpeg-bytes")), photo.Size)
	assert.Equal(t, got.Object, key)
}

func TestUploadPhoto_RejectsBadBase64(t *testing.T) {
	ob := &mockObjectStore{}
	_, err := newSvc(&mockProgressStore{}, &mockStreakStore{}, &mockBadgeAwarder{}, &mockPhotoStore{}, ob).UploadPhoto(context.Background(), "u1", UploadPhotoRequest{
		Name: "front.jpg", Data: "not base64!!",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	ob.AssertNotCalled(t, "UploadBase64", mock.Anything, mock.Anything, mock.Anything)
}

func TestDownloadPhoto_OwnershipEnforced(t *testing.T) {
	ph := &mockPhotoStore{}
	ph.On("Get", mock.Anything, "p1").Return(&domain.ProgressPhoto{PhotoID: "p1", UserID: "someone-else"}, nil)

	_, _, err := newSvc(&mockProgressStore{}, &mockStreakStore{}, &mockBadgeAwarder{}, ph, &mockObjectStore{}).DownloadPhoto(context.Background(), "u1", "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeletePhoto_RemovesObjectThenRecord(t *testing.T) {
	ph := &mockPhotoStore{}
	ph.On("Get", mock.Anything, "p1").Return(&domain.ProgressPhoto{PhotoID: "p1", UserID: "u1", Object: "progress/u1/p1.jpg"}, nil)
	ph.On("Delete", mock.Anything, "p1").Return(nil)
	ob := &mockObjectStore{}
	ob.On("Delete", mock.Anything, "progress/u1/p1.jpg").Return(nil)

	require.NoError(t, newSvc(&mockProgressStore{}, &mockStreakStore{}, &mockBadgeAwarder{}, ph, ob).DeletePhoto(context.Background(), "u1", "p1"))
	ob.AssertExpectations(t)
	ph.AssertExpectations(t)
}
