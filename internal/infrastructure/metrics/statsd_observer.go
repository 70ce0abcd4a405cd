package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
)

const (
	requestMetric  = "hero_service.request"
	durationMetric = "hero_service.duration"
	heroesMetric   = "hero_service.heroes"
)

// Client is the subset of statsd.ClientInterface the observer uses
type Client interface {
	Incr(name string, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
}

var _ Client = (*statsd.Client)(nil)

// StatsdObserver reports hero service operations to DogStatsD
type StatsdObserver struct {
	client Client
	tags   []string
}

var _ port.Observer = (*StatsdObserver)(nil)

// NewStatsdObserver creates a new StatsdObserver. tags are added to every metric.
func NewStatsdObserver(client Client, tags ...string) *StatsdObserver {
	return &StatsdObserver{
		client: client,
		tags:   tags,
	}
}

// Observe implements port.Observer. Metric submission errors are dropped;
// DogStatsD is fire-and-forget.
func (o *StatsdObserver) Observe(_ context.Context, event port.Event) {
	tags := append([]string{
		"operation:" + operationTag(event.Operation),
		"outcome:" + string(event.Outcome),
	}, o.tags...)

	_ = o.client.Incr(requestMetric, tags, 1)
	_ = o.client.Timing(durationMetric, event.Duration, tags, 1)
	if event.Outcome == port.OutcomeSuccess {
		_ = o.client.Histogram(heroesMetric, float64(event.Count), tags, 1)
	}
}

// operationTag drops the id suffix ("getHero id=3" -> "getHero") to keep tag
// cardinality bounded
func operationTag(op string) string {
	name, _, _ := strings.Cut(op, " ")
	return name
}
