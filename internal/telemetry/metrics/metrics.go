// Package metrics counts beacon deliveries per sink for Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"shopping-fpti/internal/telemetry/beacon"
	"shopping-fpti/internal/telemetry/domain"
)

// Collector holds the beacon delivery metrics.
type Collector struct {
	sent     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tracked  *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fpti",
			Name:      "beacons_total",
			Help:      "Beacon sends by sink and outcome",
		}, []string{"sink", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fpti",
			Name:      "beacon_send_duration_seconds",
			Help:      "Time spent delivering a beacon to a sink",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
		tracked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fpti",
			Name:      "tracked_events_total",
			Help:      "Track calls by event name and outcome",
		}, []string{"event", "outcome"}),
	}
	reg.MustRegister(c.sent, c.duration, c.tracked)
	return c
}

// Instrument wraps s so every send is counted under the sink label name.
func (c *Collector) Instrument(name string, s beacon.Sender) beacon.Sender {
	return beacon.SenderFunc(func(ctx context.Context, b *domain.Beacon) error {
		start := time.Now()
		err := s.Send(ctx, b)
		c.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.sent.WithLabelValues(name, outcome).Inc()
		return err
	})
}

// ObserveTrack counts one Track call. event should be an EventKind name so the label stays bounded.
func (c *Collector) ObserveTrack(event string, err error) {
	outcome := "dispatched"
	if err != nil {
		outcome = "rejected"
	}
	c.tracked.WithLabelValues(event, outcome).Inc()
}
