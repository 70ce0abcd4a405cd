package messages

import (
	"context"
	"sync"

	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
)

// Service accumulates messages in memory for later display. It is safe for
// concurrent use.
type Service struct {
	mu       sync.RWMutex
	messages []string
	capacity int
}

var _ port.MessageSink = (*Service)(nil)

// NewService creates a Service keeping at most capacity messages; the oldest
// message is dropped first. A capacity of zero or less keeps everything.
func NewService(capacity int) *Service {
	return &Service{capacity: capacity}
}

// Add implements port.MessageSink
func (s *Service) Add(_ context.Context, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, message)
	if s.capacity > 0 && len(s.messages) > s.capacity {
		s.messages = append([]string(nil), s.messages[len(s.messages)-s.capacity:]...)
	}
}

// Messages returns a copy of the collected messages, oldest first
func (s *Service) Messages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear drops every collected message
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
