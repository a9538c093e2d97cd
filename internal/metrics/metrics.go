// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Link lifecycle
	IncLinkCreated()
	IncLinkDeleted()
	IncExpiredCleared(count int)

	// Redirect path
	IncRedirect()
	ObserveResolveDuration(duration time.Duration)

	// Click tracking pipeline
	IncClickTracked(status string) // status: "success" or "dropped"
	ObserveGeoLookupDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
