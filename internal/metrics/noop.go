package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLinkCreated is a no-op.
func (n *NoopRecorder) IncLinkCreated() {}

// IncLinkDeleted is a no-op.
func (n *NoopRecorder) IncLinkDeleted() {}

// IncExpiredCleared is a no-op.
func (n *NoopRecorder) IncExpiredCleared(count int) {}

// IncRedirect is a no-op.
func (n *NoopRecorder) IncRedirect() {}

// ObserveResolveDuration is a no-op.
func (n *NoopRecorder) ObserveResolveDuration(duration time.Duration) {}

// IncClickTracked is a no-op.
func (n *NoopRecorder) IncClickTracked(status string) {}

// ObserveGeoLookupDuration is a no-op.
func (n *NoopRecorder) ObserveGeoLookupDuration(duration time.Duration) {}
