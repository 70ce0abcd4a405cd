package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
)

// DefaultKey is the list holding hero service messages
const DefaultKey = "hero-tour:messages"

// MessageLog implements port.MessageSink on a Redis list so messages survive
// the process that produced them
type MessageLog struct {
	client   redis.UniversalClient
	key      string
	capacity int64
	ttl      time.Duration
	logger   *logrus.Logger
}

var _ port.MessageSink = (*MessageLog)(nil)

// NewMessageLog creates a new MessageLog. capacity bounds the list length
// (zero keeps everything) and ttl expires an idle list (zero never expires).
func NewMessageLog(client redis.UniversalClient, key string, capacity int64, ttl time.Duration, logger *logrus.Logger) *MessageLog {
	if key == "" {
		key = DefaultKey
	}
	return &MessageLog{
		client:   client,
		key:      key,
		capacity: capacity,
		ttl:      ttl,
		logger:   logger,
	}
}

// Add implements port.MessageSink. A sink cannot fail its caller, so Redis
// errors are logged and dropped.
func (l *MessageLog) Add(ctx context.Context, message string) {
	if err := l.Append(ctx, message); err != nil {
		logging.LogErrorWithTrace(ctx, l.logger, "repository", "Failed to append message", err, logrus.Fields{
			"component": "redis",
			"redis.key": l.key,
		})
	}
}

// Append pushes message onto the list, trimming and refreshing the TTL in the
// same pipeline
func (l *MessageLog) Append(ctx context.Context, message string) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, l.key, message)
		if l.capacity > 0 {
			pipe.LTrim(ctx, l.key, -l.capacity, -1)
		}
		if l.ttl > 0 {
			pipe.Expire(ctx, l.key, l.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// Messages returns the stored messages, oldest first
func (l *MessageLog) Messages(ctx context.Context) ([]string, error) {
	values, err := l.client.LRange(ctx, l.key, 0, -1).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return values, nil
}

// Clear removes every stored message
func (l *MessageLog) Clear(ctx context.Context) error {
	if err := l.client.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
