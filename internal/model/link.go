// Package model defines domain entities for the application.
package model

import "time"

// Link represents a shortened URL and its click history.
// The whole collection of links is persisted as one JSON blob,
// so every field here must round-trip through encoding/json.
type Link struct {
	ID              string    `json:"id"`
	OriginalURL     string    `json:"original_url"`
	ShortCode       string    `json:"short_code"`
	ShortURL        string    `json:"short_url"`
	ValidityMinutes int       `json:"validity_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	ClickCount      int       `json:"click_count"`
	Clicks          []Click   `json:"clicks"`
}

// Expired reports whether the link no longer resolves at the given time.
// Expiry is a pure function of ExpiresAt; it is never rewritten in storage.
func (l *Link) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// Clone returns a deep copy of the link, including its click history.
// The service hands out clones so callers cannot mutate internal state.
func (l *Link) Clone() *Link {
	if l == nil {
		return nil
	}
	c := *l
	c.Clicks = make([]Click, len(l.Clicks))
	copy(c.Clicks, l.Clicks)
	return &c
}
