package messages

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_AddAndMessages(t *testing.T) {
	svc := NewService(0)
	ctx := context.Background()

	svc.Add(ctx, "fetched heroes")
	svc.Add(ctx, "fetched hero id=12")

	assert.Equal(t, []string{"fetched heroes", "fetched hero id=12"}, svc.Messages())
}

func TestService_MessagesReturnsCopy(t *testing.T) {
	svc := NewService(0)
	svc.Add(context.Background(), "one")

	got := svc.Messages()
	got[0] = "changed"

	assert.Equal(t, []string{"one"}, svc.Messages())
}

func TestService_Capacity(t *testing.T) {
	svc := NewService(2)
	ctx := context.Background()

	svc.Add(ctx, "a")
	svc.Add(ctx, "b")
	svc.Add(ctx, "c")

	assert.Equal(t, []string{"b", "c"}, svc.Messages())
}

func TestService_Clear(t *testing.T) {
	svc := NewService(0)
	svc.Add(context.Background(), "a")
	svc.Clear()

	assert.Empty(t, svc.Messages())
}

func TestService_ConcurrentAdd(t *testing.T) {
	svc := NewService(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.Add(ctx, fmt.Sprintf("message %d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, svc.Messages(), 50)
}

func TestTee_Add(t *testing.T) {
	first := NewService(0)
	second := NewService(0)
	tee := Tee{first, nil, second}

	tee.Add(context.Background(), "deleted hero id=3")

	assert.Equal(t, []string{"deleted hero id=3"}, first.Messages())
	assert.Equal(t, []string{"deleted hero id=3"}, second.Messages())
}

func TestLogSink_Add(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	sink := &LogSink{Logger: logger, Source: "HeroService"}
	sink.Add(context.Background(), "fetched heroes")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HeroService", entry["source"])
	assert.Equal(t, "messages", entry["layer"])
	assert.Contains(t, entry["msg"], "fetched heroes")
}
