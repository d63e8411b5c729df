// Package producer mirrors tracking beacons onto a message broker and consumes the mirror downstream.
package producer

import (
	"context"

	"shopping-fpti/internal/telemetry/domain"
)

// Producer publishes beacons. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// Send publishes a single beacon. Implementations may block briefly; the dispatcher calls it from a goroutine.
	Send(ctx context.Context, b *domain.Beacon) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
