package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Announcer publishes freshly created notification records to a per-user
// Redis channel so connected clients can pick them up live. Delivery is
// best-effort: the durable record is the source of truth and subscribers
// that miss a publish see it in the list endpoint anyway.
type Announcer struct {
	rdb *redis.Client
}

func NewAnnouncer(rdb *redis.Client) *Announcer {
	return &Announcer{rdb: rdb}
}

// Channel returns the pub/sub channel name for a user.
func Channel(userID string) string {
	return "user_notifications:" + userID
}

func (a *Announcer) Announce(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification for publish: %w", err)
	}
	return a.rdb.Publish(ctx, Channel(n.UserID), payload).Err()
}
