package handlers

import (
	"time"

	"schedulingengine/internal/engine"
)

// requireUTC rejects instants carrying any zone other than UTC. The
// engine's minute axis is anchored at the UTC midnight of the request
// start and never infers a zone, so non-UTC input is refused at the
// boundary instead of being silently converted.
func requireUTC(instants ...time.Time) error {
	for _, t := range instants {
		if t.Location() != time.UTC {
			return engine.NewInvalidRangeError("instants must be UTC (use a Z offset)")
		}
	}
	return nil
}
