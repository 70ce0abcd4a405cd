package messages

import (
	"context"

	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
)

// Tee copies every message to each of its sinks in order
type Tee []port.MessageSink

// Add implements port.MessageSink
func (t Tee) Add(ctx context.Context, message string) {
	for _, sink := range t {
		if sink != nil {
			sink.Add(ctx, message)
		}
	}
}
