// Package telemetry maps shopping events onto the FPTI tracking schema and fires them as
// best-effort beacons to the collection endpoint.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shopping-fpti/internal/session"
	"shopping-fpti/internal/telemetry/beacon"
	"shopping-fpti/internal/telemetry/contextual"
	"shopping-fpti/internal/telemetry/domain"
)

const tracerName = "shopping-fpti/telemetry"

// Option configures a Client.
type Option func(*Client)

// WithIdentity sets the session identity queried for mrid, client_id and bn_code.
func WithIdentity(id session.Identity) Option { return func(c *Client) { c.identity = id } }

// WithResolver sets the contextual-data resolver.
func WithResolver(r contextual.Resolver) Option { return func(c *Client) { c.resolver = r } }

// WithSender sets the beacon sink. Defaults to an HTTP beacon.
func WithSender(s Sender) Option { return func(c *Client) { c.sender = s } }

// WithDispatcher sets the dispatcher running sends in the background.
func WithDispatcher(d *Dispatcher) Option { return func(c *Client) { c.dispatcher = d } }

// WithTrackObserver sets a hook called after every Track with the event kind name and the
// synchronous outcome.
func WithTrackObserver(fn func(event string, err error)) Option {
	return func(c *Client) { c.observe = fn }
}

// Client tracks shopping events. It holds no per-call state and is safe for concurrent use.
type Client struct {
	cfg        domain.Config
	enricher   *Enricher
	identity   session.Identity
	resolver   contextual.Resolver
	sender     Sender
	dispatcher *Dispatcher
	observe    func(event string, err error)
	tracer     trace.Tracer
	now        func() time.Time
}

// NewClient returns a Client for cfg. cfg is captured and treated as read-only.
func NewClient(cfg domain.Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		enricher: NewEnricher(cfg),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.identity == nil {
		c.identity = session.Anonymous{}
	}
	if c.resolver == nil {
		c.resolver = contextual.NewCommon(nil)
	}
	if c.sender == nil {
		c.sender = beacon.NewHTTPSender(emitTimeout)
	}
	if c.dispatcher == nil {
		c.dispatcher = NewDispatcher(emitTimeout)
	}
	return c
}

// Dispatcher returns the dispatcher so the owner can drain it on shutdown.
func (c *Client) Dispatcher() *Dispatcher { return c.dispatcher }

// Track enriches rec, projects it onto the tracking schema and fires the beacon without
// waiting for it. Errors from the resolver, the identity lookup or eventData serialization
// are returned; delivery failures are only logged.
func (c *Client) Track(ctx context.Context, rec domain.Record) error {
	kind := ParseEventKind(rec.String(domain.FieldEventName))
	_, span := c.tracer.Start(ctx, "fpti.track",
		trace.WithAttributes(attribute.String("fpti.event_name", rec.String(domain.FieldEventName))))
	defer span.End()

	b, err := c.Build(rec)
	if c.observe != nil {
		c.observe(kind.String(), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.String("fpti.beacon_id", b.ID), attribute.Int("fpti.params", len(b.Params)))
	c.dispatcher.SendAsync(c.sender, b)
	return nil
}

// Build runs the enrichment pipeline and returns the beacon Track would send.
func (c *Client) Build(rec domain.Record) (*domain.Beacon, error) {
	common, err := c.resolver.ResolveTrackingData(c.cfg, rec, domain.ProductTag, domain.ComponentTag)
	if err != nil {
		return nil, err
	}
	enriched := domain.Merge(rec, common, c.enricher.Enrich(rec))
	vars, err := ResolveTrackingVariables(enriched, c.identity)
	if err != nil {
		return nil, err
	}
	return &domain.Beacon{
		ID:        uuid.NewString(),
		Endpoint:  domain.Endpoint,
		Params:    FilterFalsyValues(vars),
		CreatedAt: c.now().UTC(),
	}, nil
}
