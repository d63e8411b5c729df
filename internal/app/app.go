// Package app assembles the tracking client and its sinks from config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"shopping-fpti/internal/config"
	"shopping-fpti/internal/session"
	"shopping-fpti/internal/telemetry"
	"shopping-fpti/internal/telemetry/beacon"
	"shopping-fpti/internal/telemetry/contextual"
	"shopping-fpti/internal/telemetry/domain"
	"shopping-fpti/internal/telemetry/loki"
	"shopping-fpti/internal/telemetry/metrics"
	otelsetup "shopping-fpti/internal/telemetry/otel"
	"shopping-fpti/internal/telemetry/producer"
)

// Sink names used as the metrics "sink" label.
const (
	SinkCollector = "collector"
	SinkKafka     = "kafka"
	SinkLoki      = "loki"
	SinkOTel      = "otel"
)

// App holds the tracking client and everything that must be shut down with it.
type App struct {
	Client   *telemetry.Client
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
	// Sinks lists the enabled sink names in fan-out order.
	Sinks []string

	providers *otelsetup.Providers
	producer  *producer.KafkaProducer
}

// Build wires identity, contextual resolver, sinks, metrics and OpenTelemetry into a Client.
// The collector sink is always enabled; Kafka, Loki and OTel sinks are enabled by config.
// Loki is written directly only when Kafka is off, since the worker mirrors Kafka into Loki.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is nil")
	}

	resolver, err := contextual.LoadCommon(cfg.ContextFile)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	providers, err := otelsetup.NewProviders(ctx, otelsetup.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Insecure:    cfg.OTLPInsecure,
		UserAgent:   cfg.BeaconUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("app: otel: %w", err)
	}
	providers.SetGlobal()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	a := &App{Registry: reg, Metrics: m, providers: providers}

	timeout := cfg.BeaconTimeout()
	httpOpts := []beacon.Option{beacon.WithClient(beacon.NewHTTPClient(timeout))}
	if cfg.BeaconUserAgent != "" {
		httpOpts = append(httpOpts, beacon.WithUserAgent(cfg.BeaconUserAgent))
	}
	sinks := []beacon.Named{{Name: SinkCollector, Sender: beacon.NewHTTPSender(timeout, httpOpts...)}}

	if p := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.KafkaTopic); p != nil {
		a.producer = p
		sinks = append(sinks, beacon.Named{Name: SinkKafka, Sender: p})
	} else if cfg.LokiURL != "" {
		sinks = append(sinks, beacon.Named{Name: SinkLoki, Sender: loki.NewSender(cfg.LokiURL, beacon.NewHTTPClient(timeout))})
	}
	if strings.TrimSpace(cfg.OTLPEndpoint) != "" {
		sinks = append(sinks, beacon.Named{Name: SinkOTel, Sender: otelsetup.NewBeaconSender(providers.LoggerProvider)})
	}

	for i := range sinks {
		a.Sinks = append(a.Sinks, sinks[i].Name)
		sinks[i].Sender = m.Instrument(sinks[i].Name, sinks[i].Sender)
	}

	a.Client = telemetry.NewClient(DomainConfig(cfg),
		telemetry.WithIdentity(session.NewStatic(cfg.ClientID, cfg.MerchantIDs, cfg.PartnerAttributionID)),
		telemetry.WithResolver(resolver),
		telemetry.WithSender(beacon.NewFanout(sinks...)),
		telemetry.WithDispatcher(telemetry.NewDispatcher(timeout)),
		telemetry.WithTrackObserver(m.ObserveTrack),
	)
	log.Printf("app: tracking to %s via %s", domain.Endpoint, strings.Join(a.Sinks, ","))
	return a, nil
}

// DomainConfig maps the process config onto the client's read-only tracking config.
func DomainConfig(cfg *config.Config) domain.Config {
	out := domain.Config{PropertyID: cfg.PropertyID}
	if cfg.ProgramID != "" {
		out.ContainerSummary = &domain.ContainerSummary{ProgramID: cfg.ProgramID}
	}
	return out
}

// Close drains in-flight beacons (bounded by ctx), then closes the Kafka producer and
// shuts down OpenTelemetry. All errors are returned joined.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Client != nil {
		if err := a.Client.Dispatcher().Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("app: drain beacons: %w", err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("app: close kafka producer: %w", err))
		}
	}
	if a.providers != nil {
		if err := a.providers.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("app: otel shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
