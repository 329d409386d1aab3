package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FaisalHanif12/PrimeForm-sub003/internal/domain"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/infrastructure/sns"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/id"
	"github.com/FaisalHanif12/PrimeForm-sub003/internal/pkg/l10n"
)

// SuppressReason says which preference gate dropped a dispatch.
type SuppressReason string

const (
	// ReasonPushDisabled: the user's global push toggle is off.
	ReasonPushDisabled SuppressReason = "push_disabled"
	// ReasonCategoryDisabled: the per-category reminder toggle is off.
	ReasonCategoryDisabled SuppressReason = "category_disabled"
)

const defaultPushTimeout = 15 * time.Second

// sweepLimit bounds how many unread records are re-sent when a device token
// registers.
const sweepLimit = 5

// PushOutcome describes a single delivery attempt. It is data, never an
// error: a failed push must not make the caller's operation fail.
type PushOutcome struct {
	Attempted bool   `json:"attempted"`
	Delivered bool   `json:"delivered"`
	ErrorCode string `json:"error_code,omitempty"`
}

// DispatchResult is the terminal outcome of one Dispatch call: exactly one
// of suppressed-no-record, record-with-push-attempted, or
// record-with-push-deferred (Push nil).
type DispatchResult struct {
	Notification *domain.Notification `json:"notification,omitempty"`
	Suppressed   bool                 `json:"suppressed"`
	Reason       SuppressReason       `json:"reason,omitempty"`
	Push         *PushOutcome         `json:"push,omitempty"`
}

// SweepResult counts the deliveries a deferred sweep performed.
type SweepResult struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
}

// Dispatcher creates notification records and fans delivery out to the push
// gateway. It is stateless; every call re-reads preferences and the device
// registration.
type Dispatcher interface {
	// Dispatch evaluates preferences, localizes and persists a record, and
	// attempts immediate push delivery when a device token exists. The
	// record write is authoritative: its failure propagates, push failure
	// never does.
	Dispatch(ctx context.Context, userID string, kind domain.Kind, params map[string]string) (*DispatchResult, error)
	// Sweep re-delivers up to five of the user's most recent unread records
	// through the gateway. Run synchronously right after a device token is
	// registered. It never marks records read and keeps no de-duplication
	// ledger, so registering twice can re-push the same records.
	Sweep(ctx context.Context, userID string) (*SweepResult, error)
}

type userGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type deviceGetter interface {
	Get(ctx context.Context, userID string) (*domain.DeviceRegistration, error)
}

type dispatchStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	FindUnread(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

type pusher interface {
	Push(ctx context.Context, msg sns.PushMessage) error
}

type announcer interface {
	Announce(ctx context.Context, n *domain.Notification) error
}

type dispatcher struct {
	users       userGetter
	devices     deviceGetter
	repo        dispatchStore
	pusher      pusher
	announcer   announcer
	pushTimeout time.Duration
}

// DispatcherDeps collects the collaborators a Dispatcher needs. Pusher and
// Announcer may be nil (push/live publish disabled); the stores may not.
type DispatcherDeps struct {
	Users       userGetter
	Devices     deviceGetter
	Repo        dispatchStore
	Pusher      pusher
	Announcer   announcer
	PushTimeout time.Duration
}

func NewDispatcher(deps DispatcherDeps) Dispatcher {
	timeout := deps.PushTimeout
	if timeout <= 0 {
		timeout = defaultPushTimeout
	}
	return &dispatcher{
		users:       deps.Users,
		devices:     deps.Devices,
		repo:        deps.Repo,
		pusher:      deps.Pusher,
		announcer:   deps.Announcer,
		pushTimeout: timeout,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, userID string, kind domain.Kind, params map[string]string) (*DispatchResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown notification kind %q: %w", kind, domain.ErrBadRequest)
	}
	u, err := d.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if dec := decide(kind, u.Notifications); dec.suppressed {
		return &DispatchResult{Suppressed: true, Reason: dec.reason}, nil
	}

	lang := u.Language
	if lang == "" {
		lang = "en"
	}
	p := l10n.Params{"name": u.FirstName}
	for k, v := range params {
		p[k] = v
	}
	msg := l10n.Resolve(kind, lang, p)

	metadata := map[string]string{"language": lang}
	for k, v := range params {
		metadata[k] = v
	}

	// Whole-second precision keeps the marshaled created_at fixed-width, so
	// the GSI's lexicographic sort stays chronological.
	now := time.Now().UTC().Truncate(time.Second)
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Kind:           kind,
		Title:          msg.Title,
		Body:           msg.Body,
		Priority:       kind.DefaultPriority(),
		Metadata:       metadata,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.NotificationRetention).Unix(),
	}
	if err := d.repo.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}
	if d.announcer != nil {
		if err := d.announcer.Announce(ctx, n); err != nil {
			slog.Warn("live notification publish failed", "user_id", userID, "err", err)
		}
	}

	result := &DispatchResult{Notification: n}

	// Welcome is always recorded-then-deferred: the client registers its
	// token a few seconds after signup, and pushing here would race that
	// registration and lose the user's first push. The sweep delivers it.
	if kind == domain.KindWelcome || d.pusher == nil {
		return result, nil
	}

	reg, err := d.devices.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("device lookup failed, leaving notification for sweep", "user_id", userID, "err", err)
		}
		return result, nil
	}
	result.Push = d.push(ctx, reg, n)
	return result, nil
}

func (d *dispatcher) Sweep(ctx context.Context, userID string) (*SweepResult, error) {
	result := &SweepResult{}
	if d.pusher == nil {
		return result, nil
	}
	reg, err := d.devices.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result, nil
		}
		return nil, err
	}
	unread, err := d.repo.FindUnread(ctx, userID, sweepLimit)
	if err != nil {
		return nil, err
	}
	// Serialized, newest first. Title and body come frozen off the record;
	// they are never re-localized.
	for i := range unread {
		out := d.push(ctx, reg, &unread[i])
		result.Attempted++
		if out.Delivered {
			result.Delivered++
		}
	}
	return result, nil
}

func (d *dispatcher) push(ctx context.Context, reg *domain.DeviceRegistration, n *domain.Notification) *PushOutcome {
	out := &PushOutcome{Attempted: true}
	pctx, cancel := context.WithTimeout(ctx, d.pushTimeout)
	defer cancel()
	err := d.pusher.Push(pctx, sns.PushMessage{
		Token:    reg.Token,
		Platform: reg.Platform,
		Title:    n.Title,
		Body:     n.Body,
		Priority: n.Priority,
		Data:     pushData(n),
	})
	if err != nil {
		out.ErrorCode = sns.ErrorCode(err)
		slog.Warn("push delivery failed",
			"notification_id", n.NotificationID, "user_id", n.UserID,
			"code", out.ErrorCode, "err", err)
		return out
	}
	out.Delivered = true
	return out
}

// pushData rebuilds the gateway data payload from a record: its metadata
// plus the record id and kind. All values are strings, which is the only
// shape the mobile transports accept.
func pushData(n *domain.Notification) map[string]string {
	data := make(map[string]string, len(n.Metadata)+2)
	for k, v := range n.Metadata {
		data[k] = v
	}
	data["notification_id"] = n.NotificationID
	data["kind"] = string(n.Kind)
	return data
}

type decision struct {
	suppressed bool
	reason     SuppressReason
}

// decide applies the preference gates in order, first match wins. Reminder
// kinds carry no residual value when undeliverable, so a gated reminder is
// dropped entirely: no record, no push. Transactional kinds pass through
// unconditionally because they record a fact about the user's history.
// Pure, re-evaluated fresh on every dispatch.
func decide(kind domain.Kind, prefs domain.NotificationPreferences) decision {
	if !kind.Reminder() {
		return decision{}
	}
	if !prefs.PushEnabled {
		return decision{suppressed: true, reason: ReasonPushDisabled}
	}
	switch kind {
	case domain.KindDietReminder:
		if !prefs.DietRemindersEnabled {
			return decision{suppressed: true, reason: ReasonCategoryDisabled}
		}
	case domain.KindWorkoutReminder, domain.KindGymReminder:
		if !prefs.WorkoutRemindersEnabled {
			return decision{suppressed: true, reason: ReasonCategoryDisabled}
		}
	}
	return decision{}
}
