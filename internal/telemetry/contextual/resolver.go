// Package contextual resolves the common page/session fields merged into every tracking event.
package contextual

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"shopping-fpti/internal/telemetry/domain"
)

// impression is the legacy FPTI event marker; every shopping event is reported as an impression.
const impression = "im"

// Resolver returns the contextual fields for an event. The result is merged over the record
// and under event-specific enrichment.
type Resolver interface {
	ResolveTrackingData(cfg domain.Config, rec domain.Record, product, component string) (domain.Record, error)
}

// Common resolves static site context plus per-event timing fields.
type Common struct {
	fields domain.Record
	now    func() time.Time
}

// NewCommon returns a Common resolver with the given static fields. fields may be nil.
func NewCommon(fields domain.Record) *Common {
	return &Common{fields: fields, now: time.Now}
}

// LoadCommon reads static context fields from a YAML (or JSON) file.
// A missing file is not an error: the resolver then only supplies computed fields.
func LoadCommon(path string) (*Common, error) {
	if path == "" {
		return NewCommon(nil), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("contextual: context file %s not found; using computed fields only", path)
			return NewCommon(nil), nil
		}
		return nil, fmt.Errorf("contextual: read %s: %w", path, err)
	}
	var fields domain.Record
	if err := yaml.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("contextual: parse %s: %w", path, err)
	}
	return NewCommon(fields), nil
}

// ResolveTrackingData returns the static fields overridden by rec, with e, t, g, page and
// propertyId filled in when rec does not carry them.
func (c *Common) ResolveTrackingData(cfg domain.Config, rec domain.Record, product, component string) (domain.Record, error) {
	out := domain.Merge(c.fields, rec)
	now := c.now()
	setDefault(out, domain.FieldImpression, impression)
	setDefault(out, domain.FieldTimestamp, now.UnixMilli())
	setDefault(out, domain.FieldTimezoneOffset, timezoneOffset(now))
	setDefault(out, domain.FieldPage, product+":"+component)
	if cfg.PropertyID != "" {
		setDefault(out, domain.FieldPropertyID, cfg.PropertyID)
	}
	return out, nil
}

func setDefault(r domain.Record, field string, v any) {
	if cur, ok := r[field]; !ok || cur == nil || cur == "" {
		r[field] = v
	}
}

// timezoneOffset returns minutes behind UTC, matching the browser convention (UTC+2 is -120).
func timezoneOffset(t time.Time) int {
	_, offset := t.Zone()
	return -offset / 60
}
