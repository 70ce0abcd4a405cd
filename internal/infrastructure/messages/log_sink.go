package messages

import (
	"context"

	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/sirupsen/logrus"
)

// LogSink forwards messages to a logrus logger, tagged with their source
type LogSink struct {
	Logger *logrus.Logger
	Source string
}

// Add implements port.MessageSink
func (s *LogSink) Add(ctx context.Context, message string) {
	logging.LogWithTrace(ctx, s.Logger, "messages", message, logrus.Fields{
		"source": s.Source,
	})
}
