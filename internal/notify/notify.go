// Package notify emits complaint lifecycle events to the log and, when
// configured, to a Redis pub/sub channel.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jengzang/smartcity-backend-go/internal/logger"
	"github.com/jengzang/smartcity-backend-go/internal/metrics"
)

// Event names
const (
	EventComplaintCreated   = "complaint_created"
	EventComplaintUpdated   = "complaint_updated"
	EventAfterPhotoUploaded = "after_photo_uploaded"
	EventAkimatPrepared     = "akimat_prepared"
	EventAkimatStubSent     = "akimat_stub_sent"
)

// Event is the published message body
type Event struct {
	Event   string                 `json:"event"`
	At      time.Time              `json:"at"`
	Payload map[string]interface{} `json:"payload"`
}

// Notifier fans events out to subscribers
type Notifier struct {
	rdb     *redis.Client
	channel string
	log     *slog.Logger
}

// New creates a notifier. A nil client logs events only.
func New(rdb *redis.Client, channel string) *Notifier {
	return &Notifier{rdb: rdb, channel: channel, log: logger.For("notify")}
}

// NewRedis connects to addr and returns a publishing notifier.
// An empty addr yields a log-only notifier.
func NewRedis(ctx context.Context, addr, channel string) (*Notifier, error) {
	if addr == "" {
		return New(nil, channel), nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return New(rdb, channel), nil
}

// Notify records an event. Publishing failures are logged, never returned.
func (n *Notifier) Notify(ctx context.Context, event string, payload map[string]interface{}) {
	n.log.Info("notify", "event", event, "payload", payload)

	if n.rdb == nil {
		metrics.NotificationsTotal.WithLabelValues(event, "logged").Inc()
		return
	}

	body, err := json.Marshal(Event{Event: event, At: time.Now().UTC(), Payload: payload})
	if err != nil {
		n.log.Warn("notify_encode_failed", "event", event, "err", err)
		metrics.NotificationsTotal.WithLabelValues(event, "error").Inc()
		return
	}
	if err := n.rdb.Publish(ctx, n.channel, body).Err(); err != nil {
		n.log.Warn("notify_publish_failed", "event", event, "err", err)
		metrics.NotificationsTotal.WithLabelValues(event, "error").Inc()
		return
	}
	metrics.NotificationsTotal.WithLabelValues(event, "published").Inc()
}

// Close releases the Redis connection if any
func (n *Notifier) Close() error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Close()
}
