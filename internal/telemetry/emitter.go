package telemetry

import (
	"shopping-fpti/internal/telemetry/beacon"
)

// Sender delivers tracking beacons (HTTP collector, mirrors). Best-effort; callers log and ignore errors.
type Sender = beacon.Sender
