package cache

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

// Noop is used when no Redis is configured; every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (*booking.DayView, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, *booking.DayView) error { return nil }
func (Noop) Invalidate(context.Context, string) error { return nil }
