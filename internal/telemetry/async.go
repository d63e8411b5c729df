package telemetry

import (
	"context"
	"log"
	"sync"
	"time"

	"shopping-fpti/internal/telemetry/domain"
)

// emitTimeout is the max time allowed for a single async send.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long a process should wait for in-flight beacons before shutting
// down sinks. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// Dispatcher runs beacon sends detached from the caller. Sends are never retried or cancelled
// by the caller; Wait exists only so a process can drain before exit. SendAsync may be called
// while a Wait is in progress; such sends are counted and waited for too.
type Dispatcher struct {
	timeout time.Duration

	mu       sync.Mutex
	inflight int
	idle     chan struct{} // closed when inflight drops to zero; nil while idle
}

// NewDispatcher returns a Dispatcher bounding each send by timeout (emitTimeout when zero).
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = emitTimeout
	}
	return &Dispatcher{timeout: timeout}
}

// SendAsync runs sender.Send in a goroutine so the caller is not blocked; errors are logged.
//
// sender and b may be nil; SendAsync then returns immediately without starting a goroutine.
// The goroutine uses context.Background() so the caller's cancellation does not abort the beacon.
func (d *Dispatcher) SendAsync(sender Sender, b *domain.Beacon) {
	if sender == nil || b == nil {
		return
	}
	d.mu.Lock()
	if d.inflight == 0 {
		d.idle = make(chan struct{})
	}
	d.inflight++
	d.mu.Unlock()

	go func() {
		defer d.done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := sender.Send(ctx, b); err != nil {
			log.Printf("telemetry: beacon %s failed: %v", b.ID, err)
		}
	}()
}

func (d *Dispatcher) done() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--
	if d.inflight == 0 {
		close(d.idle)
		d.idle = nil
	}
}

// Wait blocks until no send is in flight or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()
	if idle == nil {
		return nil
	}
	select {
	case <-idle:
		// Sends started after the drain began get their own idle channel.
		return d.Wait(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}
}
