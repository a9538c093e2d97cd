package service

import (
	"context"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linkpocket/linkpocket/internal/model"
)

// trackTimeout bounds a single background click recording, geolocation
// included.
const trackTimeout = 10 * time.Second

// Visit captures the request attributes relevant to a click.
type Visit struct {
	Referrer  string
	UserAgent string
	RemoteIP  string
}

// TrackClickAsync records a click against the link with the given id on
// a background goroutine. It returns immediately; the redirect is never
// delayed by geolocation or persistence. Failures are logged and
// counted, never surfaced.
func (s *Shortener) TrackClickAsync(id string, visit Visit) {
	s.tracking.Add(1)
	go func() {
		defer s.tracking.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("click tracking panicked", "panic", r)
				s.metrics.IncClickTracked("dropped")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		s.trackClick(ctx, id, visit)
	}()
}

// Drain waits for in-flight click recordings to finish, up to the
// context deadline. Used at shutdown and by tests.
func (s *Shortener) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.tracking.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shortener) trackClick(ctx context.Context, id string, visit Visit) {
	start := time.Now()
	location := s.geo.Resolve(ctx, visit.RemoteIP)
	s.metrics.ObserveGeoLookupDuration(time.Since(start))

	click := model.Click{
		ID:        ulid.Make().String(),
		Timestamp: s.clock().UTC(),
		Source:    clickSource(visit.Referrer),
		UserAgent: visit.UserAgent,
		Location:  location.Normalized(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link := s.findByIDLocked(id)
	if link == nil {
		// The link was deleted while the lookup ran; drop the click.
		s.metrics.IncClickTracked("dropped")
		return
	}

	link.Clicks = append(link.Clicks, click)
	link.ClickCount++
	s.persistLocked(ctx)
	s.metrics.IncClickTracked("success")

	s.logger.Debug("click tracked",
		"short_code", link.ShortCode,
		"source", click.Source,
		"country", click.Location.Country,
	)
}

// clickSource maps a Referer header to a click source label. An absent
// header means the visitor typed or pasted the link; a referrer that
// does not yield a hostname is labeled unknown.
func clickSource(referrer string) string {
	if referrer == "" {
		return model.SourceDirect
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return model.SourceUnknownReferrer
	}
	return u.Hostname()
}
