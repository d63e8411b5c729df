package telemetry

import "shopping-fpti/internal/telemetry/domain"

// EventKind is the closed set of event names with dedicated enrichment.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventPageView
	EventPurchase
	EventStoreCashExclusion
)

// ParseEventKind maps an event name to its kind; unrecognized names yield EventUnknown.
func ParseEventKind(name string) EventKind {
	switch name {
	case "page_view":
		return EventPageView
	case "purchase":
		return EventPurchase
	case "store_cash_exclusion":
		return EventStoreCashExclusion
	default:
		return EventUnknown
	}
}

func (k EventKind) String() string {
	switch k {
	case EventPageView:
		return "page_view"
	case EventPurchase:
		return "purchase"
	case EventStoreCashExclusion:
		return "store_cash_exclusion"
	default:
		return "unknown"
	}
}

// Flow types and event states reported in fltp/es.
const (
	flowStoreCash = "store-cash"
	flowAnalytics = "analytics"

	stateVisitorInfoFlowStarted = "visitorInfoFlowStarted"
	stateTxnSuccess             = "txnSuccess"
	stateMerchantRecognizedUser = "merchantRecognizedUser"
)

// Enricher adds event-specific fields based on the event name.
type Enricher struct {
	cfg domain.Config
}

// NewEnricher returns an Enricher reading offer configuration from cfg.
func NewEnricher(cfg domain.Config) *Enricher {
	return &Enricher{cfg: cfg}
}

// Enrich returns the fields to merge for rec's event. The result is never nil.
func (e *Enricher) Enrich(rec domain.Record) domain.Record {
	switch ParseEventKind(rec.String(domain.FieldEventName)) {
	case EventPageView:
		return e.pageView()
	case EventPurchase:
		return domain.Record{domain.FieldFlowType: flowAnalytics, domain.FieldEventState: stateTxnSuccess}
	case EventStoreCashExclusion:
		return domain.Record{domain.FieldFlowType: flowAnalytics, domain.FieldEventState: stateMerchantRecognizedUser}
	default:
		return domain.Record{}
	}
}

// pageView marks the start of the store-cash flow when an offer program is configured.
func (e *Enricher) pageView() domain.Record {
	offerID := e.cfg.ProgramID()
	if offerID == "" {
		return domain.Record{}
	}
	return domain.Record{
		domain.FieldEventState: stateVisitorInfoFlowStarted,
		domain.FieldFlowType:   flowStoreCash,
		domain.FieldOfferID:    offerID,
	}
}
