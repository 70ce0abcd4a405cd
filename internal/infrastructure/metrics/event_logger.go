package metrics

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
)

// EventLogger writes one structured log line per hero service operation
type EventLogger struct {
	Logger *logrus.Logger
}

// Observe implements port.Observer
func (l *EventLogger) Observe(ctx context.Context, event port.Event) {
	fields := logrus.Fields{
		"operation":    event.Operation,
		"outcome":      string(event.Outcome),
		"duration_ms":  event.Duration.Milliseconds(),
		"heroes.count": event.Count,
	}
	if event.Err != nil {
		logging.LogErrorWithTrace(ctx, l.Logger, "service", "Hero service call failed", event.Err, fields)
		return
	}
	logging.LogWithTrace(ctx, l.Logger, "service", "Hero service call completed", fields)
}
