package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on
func unreachableClient(t *testing.T) redis.UniversalClient {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewMessageLog_DefaultKey(t *testing.T) {
	log := NewMessageLog(unreachableClient(t), "", 10, 0, logrus.New())
	assert.Equal(t, DefaultKey, log.key)
}

func TestMessageLog_AppendFailsWithoutServer(t *testing.T) {
	log := NewMessageLog(unreachableClient(t), "test:messages", 10, time.Minute, logrus.New())

	err := log.Append(context.Background(), "fetched heroes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to append message")
}

func TestMessageLog_AddSwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	log := NewMessageLog(unreachableClient(t), "test:messages", 0, 0, logger)

	assert.NotPanics(t, func() {
		log.Add(context.Background(), "fetched heroes")
	})
	assert.Contains(t, buf.String(), "Failed to append message")
	assert.Contains(t, buf.String(), "test:messages")
}

func TestMessageLog_MessagesFailsWithoutServer(t *testing.T) {
	log := NewMessageLog(unreachableClient(t), "test:messages", 0, 0, logrus.New())

	_, err := log.Messages(context.Background())
	assert.Error(t, err)
	assert.Error(t, log.Clear(context.Background()))
}

// newMiniredisLog runs an in-process Redis and points a MessageLog at it
func newMiniredisLog(t *testing.T, capacity int64, ttl time.Duration) (*MessageLog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewMessageLog(client, "test:messages", capacity, ttl, logrus.New()), mr
}

func TestMessageLog_AppendTrimsToCapacity(t *testing.T) {
	log, mr := newMiniredisLog(t, 2, 0)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "fetched heroes"))
	require.NoError(t, log.Append(ctx, "fetched hero id=12"))
	require.NoError(t, log.Append(ctx, "deleted hero id=12"))

	stored, err := mr.List("test:messages")
	require.NoError(t, err)
	assert.Equal(t, []string{"fetched hero id=12", "deleted hero id=12"}, stored)

	msgs, err := log.Messages(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, msgs)
}

func TestMessageLog_ZeroCapacityKeepsEverything(t *testing.T) {
	log, mr := newMiniredisLog(t, 0, 0)
	ctx := context.Background()

	for _, msg := range []string{"a", "b", "c", "d"} {
		require.NoError(t, log.Append(ctx, msg))
	}

	msgs, err := log.Messages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, msgs)
	assert.Equal(t, time.Duration(0), mr.TTL("test:messages"))
}

func TestMessageLog_AppendRefreshesTTL(t *testing.T) {
	log, mr := newMiniredisLog(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "fetched heroes"))
	assert.Equal(t, time.Minute, mr.TTL("test:messages"))

	mr.FastForward(30 * time.Second)
	require.NoError(t, log.Append(ctx, "fetched hero id=12"))
	assert.Equal(t, time.Minute, mr.TTL("test:messages"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("test:messages"))
}

func TestMessageLog_MessagesEmptyList(t *testing.T) {
	log, _ := newMiniredisLog(t, 10, 0)

	msgs, err := log.Messages(context.Background())

	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessageLog_AddAndClear(t *testing.T) {
	log, mr := newMiniredisLog(t, 10, 0)
	ctx := context.Background()

	log.Add(ctx, "added hero w/ id=21")
	assert.True(t, mr.Exists("test:messages"))

	require.NoError(t, log.Clear(ctx))
	assert.False(t, mr.Exists("test:messages"))

	msgs, err := log.Messages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
