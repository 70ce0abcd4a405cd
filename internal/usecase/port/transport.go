package port

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Request describes one call against the hero API. Path is relative to the
// transport's base URL, e.g. "api/heroes/3".
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// HeroTransport is a port for the HTTP transport used by the hero service
type HeroTransport interface {
	// Do executes req and decodes a non-empty response body into out when out
	// is non-nil. It returns the HTTP status code when a response was received.
	Do(ctx context.Context, req Request, out any) (int, error)
}

// MessageSink is a port for the human-readable message log
type MessageSink interface {
	Add(ctx context.Context, message string)
}

// Outcome of a hero service operation
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is the structured record of one completed hero service operation
type Event struct {
	Operation string
	Outcome   Outcome
	Duration  time.Duration
	// Count is the number of heroes in the result
	Count int
	Err   error
}

// Observer is a port for structured operation events
type Observer interface {
	Observe(ctx context.Context, event Event)
}
