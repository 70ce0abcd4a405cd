package tracing

import (
	"context"

	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// HeroTransportTracer wraps a HeroTransport with tracing
type HeroTransportTracer struct {
	transport port.HeroTransport
}

// NewHeroTransportTracer creates a new tracing decorator for HeroTransport
func NewHeroTransportTracer(transport port.HeroTransport) port.HeroTransport {
	return &HeroTransportTracer{
		transport: transport,
	}
}

// Do wraps the Do method with tracing
func (t *HeroTransportTracer) Do(ctx context.Context, req port.Request, out any) (int, error) {
	var status int
	err := TraceOperation(ctx, "hero_api.request", map[string]interface{}{
		"http.method": req.Method,
		"http.path":   req.Path,
	}, func(ctx context.Context, span tracer.Span) error {
		var err error
		status, err = t.transport.Do(ctx, req, out)
		if status != 0 {
			span.SetTag("http.status_code", status)
		}
		return err
	})
	return status, err
}
