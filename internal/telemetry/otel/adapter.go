package otel

import (
	"context"
	"encoding/json"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"shopping-fpti/internal/telemetry/domain"
)

// recordEmitter is the part of otellog.Logger the sink uses.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// attributeKeys are the tracking variables copied onto the log record as attributes.
var attributeKeys = []string{
	domain.KeyEventName, domain.KeyEventType, domain.KeyEventState, domain.KeyFlowType,
	domain.KeyMerchantID, domain.KeyClientID, domain.KeyOfferID,
}

// BeaconSender records beacons as OTel log records.
type BeaconSender struct {
	logger recordEmitter
}

// NewBeaconSender returns a sink that emits via the given LoggerProvider.
// If provider is nil, the returned sink drops every beacon.
func NewBeaconSender(provider *sdklog.LoggerProvider) *BeaconSender {
	if provider == nil {
		return &BeaconSender{}
	}
	return &BeaconSender{logger: provider.Logger("shopping-fpti.beacon")}
}

// NewBeaconSenderWithLogger returns a sink emitting to logger directly.
func NewBeaconSenderWithLogger(logger recordEmitter) *BeaconSender {
	return &BeaconSender{logger: logger}
}

// Send converts the beacon to a log record: the JSON params become the body and the
// low-cardinality variables become attributes.
func (s *BeaconSender) Send(ctx context.Context, b *domain.Beacon) error {
	if s.logger == nil || b == nil {
		return nil
	}
	rec := otellog.Record{}
	ts := b.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetEventName("fpti.beacon")
	if len(b.Params) > 0 {
		body, err := json.Marshal(b.Params)
		if err != nil {
			return err
		}
		rec.SetBody(otellog.StringValue(string(body)))
	}
	if b.ID != "" {
		rec.AddAttributes(otellog.String("beacon_id", b.ID))
	}
	for _, k := range attributeKeys {
		if v, ok := b.Params[k]; ok {
			rec.AddAttributes(otellog.String(k, domain.FormatValue(v)))
		}
	}
	s.logger.Emit(ctx, rec)
	return nil
}
