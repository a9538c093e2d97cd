package metrics

import (
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()

	m.IncLinkCreated()
	m.IncLinkCreated()
	m.IncLinkDeleted()
	m.IncExpiredCleared(3)
	m.IncExpiredCleared(0)
	m.IncRedirect()
	m.IncClickTracked("success")
	m.IncClickTracked("dropped")
	m.IncClickTracked("success")
	m.ObserveResolveDuration(2 * time.Millisecond)
	m.ObserveGeoLookupDuration(5 * time.Millisecond)

	s := m.Snapshot()

	if s.LinksCreated != 2 {
		t.Errorf("LinksCreated = %d, want 2", s.LinksCreated)
	}
	if s.LinksDeleted != 1 {
		t.Errorf("LinksDeleted = %d, want 1", s.LinksDeleted)
	}
	if s.ExpiredCleared != 3 {
		t.Errorf("ExpiredCleared = %d, want 3", s.ExpiredCleared)
	}
	if s.Redirects != 1 {
		t.Errorf("Redirects = %d, want 1", s.Redirects)
	}
	if s.ClicksTrackedSuccess != 2 || s.ClicksTrackedDropped != 1 {
		t.Errorf("ClicksTracked = %d/%d, want 2/1", s.ClicksTrackedSuccess, s.ClicksTrackedDropped)
	}
	if s.ResolveDurationCount != 1 || s.ResolveDurationNs != (2*time.Millisecond).Nanoseconds() {
		t.Errorf("resolve duration = %d/%d", s.ResolveDurationCount, s.ResolveDurationNs)
	}
	if s.GeoLookupDurationCount != 1 {
		t.Errorf("GeoLookupDurationCount = %d, want 1", s.GeoLookupDurationCount)
	}
}

func TestNoopRecorder_DoesNotPanic(t *testing.T) {
	t.Parallel()

	n := NewNoop()
	n.IncLinkCreated()
	n.IncLinkDeleted()
	n.IncExpiredCleared(1)
	n.IncRedirect()
	n.IncClickTracked("success")
	n.ObserveResolveDuration(time.Millisecond)
	n.ObserveGeoLookupDuration(time.Millisecond)
}
