package events

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the channel downstream classifiers subscribe to.
const DefaultChannel = "complaint-classification"

// ErrNotifierUnavailable is returned when no broker client is configured.
var ErrNotifierUnavailable = errors.New("notifier: broker client not configured")

// Notifier announces newly created complaints. Delivery is best effort.
type Notifier interface {
	Publish(ctx context.Context, complaintID string) error
}

// RedisNotifier publishes complaint ids on a Redis pub/sub channel.
type RedisNotifier struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisNotifier returns a notifier bound to channel; blank falls back to
// DefaultChannel.
func NewRedisNotifier(client redis.UniversalClient, channel string) *RedisNotifier {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{client: client, channel: channel}
}

// Channel reports the channel messages are published to.
func (n *RedisNotifier) Channel() string {
	return n.channel
}

func (n *RedisNotifier) Publish(ctx context.Context, complaintID string) error {
	if n == nil || n.client == nil {
		return ErrNotifierUnavailable
	}
	return n.client.Publish(ctx, n.channel, complaintID).Err()
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string) error { return nil }
