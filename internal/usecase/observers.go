package usecase

import (
	"context"

	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
)

// Observers fans one event out to several observers
type Observers []port.Observer

// Observe implements port.Observer
func (o Observers) Observe(ctx context.Context, event port.Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(ctx, event)
		}
	}
}
