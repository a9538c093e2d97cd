package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LinksCreated           uint64
	LinksDeleted           uint64
	ExpiredCleared         uint64
	Redirects              uint64
	ResolveDurationCount   uint64
	ResolveDurationNs      int64
	ClicksTrackedSuccess   uint64
	ClicksTrackedDropped   uint64
	GeoLookupDurationNs    int64
	GeoLookupDurationCount uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	linksCreated           uint64
	linksDeleted           uint64
	expiredCleared         uint64
	redirects              uint64
	resolveDurationCount   uint64
	resolveDurationNs      int64
	clicksTrackedSuccess   uint64
	clicksTrackedDropped   uint64
	geoLookupDurationNs    int64
	geoLookupDurationCount uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LinksCreated:           atomic.LoadUint64(&m.linksCreated),
		LinksDeleted:           atomic.LoadUint64(&m.linksDeleted),
		ExpiredCleared:         atomic.LoadUint64(&m.expiredCleared),
		Redirects:              atomic.LoadUint64(&m.redirects),
		ResolveDurationCount:   atomic.LoadUint64(&m.resolveDurationCount),
		ResolveDurationNs:      atomic.LoadInt64(&m.resolveDurationNs),
		ClicksTrackedSuccess:   atomic.LoadUint64(&m.clicksTrackedSuccess),
		ClicksTrackedDropped:   atomic.LoadUint64(&m.clicksTrackedDropped),
		GeoLookupDurationNs:    atomic.LoadInt64(&m.geoLookupDurationNs),
		GeoLookupDurationCount: atomic.LoadUint64(&m.geoLookupDurationCount),
	}
}

// IncLinkCreated increments the link created counter.
func (m *InMemoryRecorder) IncLinkCreated() {
	atomic.AddUint64(&m.linksCreated, 1)
}

// IncLinkDeleted increments the link deleted counter.
func (m *InMemoryRecorder) IncLinkDeleted() {
	atomic.AddUint64(&m.linksDeleted, 1)
}

// IncExpiredCleared adds to the expired sweep counter.
func (m *InMemoryRecorder) IncExpiredCleared(count int) {
	if count > 0 {
		atomic.AddUint64(&m.expiredCleared, uint64(count))
	}
}

// IncRedirect increments the redirect counter.
func (m *InMemoryRecorder) IncRedirect() {
	atomic.AddUint64(&m.redirects, 1)
}

// ObserveResolveDuration records a resolve duration.
func (m *InMemoryRecorder) ObserveResolveDuration(duration time.Duration) {
	atomic.AddUint64(&m.resolveDurationCount, 1)
	atomic.AddInt64(&m.resolveDurationNs, duration.Nanoseconds())
}

// IncClickTracked increments the click-tracked counter for a status.
func (m *InMemoryRecorder) IncClickTracked(status string) {
	if status == "success" {
		atomic.AddUint64(&m.clicksTrackedSuccess, 1)
		return
	}
	atomic.AddUint64(&m.clicksTrackedDropped, 1)
}

// ObserveGeoLookupDuration records a geolocation lookup duration.
func (m *InMemoryRecorder) ObserveGeoLookupDuration(duration time.Duration) {
	atomic.AddUint64(&m.geoLookupDurationCount, 1)
	atomic.AddInt64(&m.geoLookupDurationNs, duration.Nanoseconds())
}
