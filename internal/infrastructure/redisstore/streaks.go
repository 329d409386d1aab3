package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	streakKeyPrefix = "streak:"
	activityZSet    = "streak:activity"

	hashFieldCurrent = "current"
	hashFieldLongest = "longest"
	hashFieldLastDay = "last_day"
)

// StreakStore keeps per-user consecutive-day activity counters in Redis.
// Each user has a hash streak:<user_id> {current, longest, last_day} and a
// member in the streak:activity ZSET scored by the day (days since epoch) of
// their last logged activity, which lets the streak-broken job find lapsed
// users with one range query.
type StreakStore struct {
	rdb *redis.Client
}

func NewStreakStore(rdb *redis.Client) *StreakStore {
	return &StreakStore{rdb: rdb}
}

// Record notes that the user was active on date (YYYY-MM-DD) and returns the
// updated streak. Logging the same day twice is a no-op for the counter.
func (s *StreakStore) Record(ctx context.Context, userID, date string) (domain.Streak, error) {
	day, err := dayNumber(date)
	if err != nil {
		return domain.Streak{}, err
	}
	st, err := s.Get(ctx, userID)
	if err != nil {
		return domain.Streak{}, err
	}

	switch {
	case st.LastActivity == date:
		// Second log on the same day, counter unchanged.
	case st.LastActivity != "" && consecutive(st.LastActivity, date):
		st.Current++
	default:
		st.Current = 1
	}
	if st.Current > st.Longest {
		st.Longest = st.Current
	}
	st.LastActivity = date

	key := streakKeyPrefix + userID
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		hashFieldCurrent: st.Current,
		hashFieldLongest: st.Longest,
		hashFieldLastDay: date,
	})
	pipe.ZAdd(ctx, activityZSet, redis.Z{Score: float64(day), Member: userID})
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Streak{}, fmt.Errorf("record streak: %w", err)
	}
	return st, nil
}

// Get returns the user's streak; a user with no recorded activity gets the
// zero streak, not an error.
func (s *StreakStore) Get(ctx context.Context, userID string) (domain.Streak, error) {
	vals, err := s.rdb.HGetAll(ctx, streakKeyPrefix+userID).Result()
	if err != nil {
		return domain.Streak{}, fmt.Errorf("get streak: %w", err)
	}
	st := domain.Streak{LastActivity: vals[hashFieldLastDay]}
	st.Current, _ = strconv.Atoi(vals[hashFieldCurrent])
	st.Longest, _ = strconv.Atoi(vals[hashFieldLongest])
	return st, nil
}

// LapsedBefore returns the users whose last activity day is strictly before
// day (days since epoch), i.e. whose streak has broken by that day.
func (s *StreakStore) LapsedBefore(ctx context.Context, day int64) ([]string, error) {
	members, err := s.rdb.ZRangeByScore(ctx, activityZSet, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(day, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("query lapsed streaks: %w", err)
	}
	return members, nil
}

// ClearActivity drops the user from the activity index so the streak-broken
// job reminds them once per break, not once per day.
func (s *StreakStore) ClearActivity(ctx context.Context, userID string) error {
	return s.rdb.ZRem(ctx, activityZSet, userID).Err()
}

// DayNumber converts a wall-clock time to its day count since the Unix epoch.
func DayNumber(t time.Time) int64 {
	return t.UTC().Unix() / 86400
}

func dayNumber(date string) (int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("bad streak date %q: %w", date, err)
	}
	return DayNumber(t), nil
}

func consecutive(prev, next string) bool {
	p, errP := dayNumber(prev)
	n, errN := dayNumber(next)
	return errP == nil && errN == nil && n == p+1
}
