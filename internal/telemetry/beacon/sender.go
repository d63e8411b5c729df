// Package beacon sends tracking beacons to the FPTI collector and optional mirror sinks.
package beacon

import (
	"context"
	"errors"
	"fmt"

	"shopping-fpti/internal/telemetry/domain"
)

// Sender delivers a single beacon. Best-effort; callers log and ignore errors.
type Sender interface {
	Send(ctx context.Context, b *domain.Beacon) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, b *domain.Beacon) error

func (f SenderFunc) Send(ctx context.Context, b *domain.Beacon) error { return f(ctx, b) }

// Named is a Sender with a stable name used in logs and metrics labels.
type Named struct {
	Name   string
	Sender Sender
}

// Fanout sends every beacon to all sinks in order. A failing sink does not stop the others;
// failures are joined into the returned error.
type Fanout struct {
	sinks []Named
}

// NewFanout returns a Fanout over sinks. Nil senders are skipped.
func NewFanout(sinks ...Named) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		if s.Sender != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Len returns the number of configured sinks.
func (f *Fanout) Len() int { return len(f.sinks) }

func (f *Fanout) Send(ctx context.Context, b *domain.Beacon) error {
	if b == nil {
		return nil
	}
	var errs []error
	for _, s := range f.sinks {
		if err := s.Sender.Send(ctx, b); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
