// Package model defines domain entities for the application.
package model

import "time"

// Click source labels for accesses without a usable referrer.
const (
	SourceDirect          = "Direct access"
	SourceUnknownReferrer = "Unknown referrer"
)

// UnknownField is the placeholder for location fields that could not
// be determined.
const UnknownField = "Unknown"

// Click represents a single observed access to a short link.
type Click struct {
	ID        string    `json:"id"` // ULID (time-sortable)
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // referrer hostname, or a Source* label
	UserAgent string    `json:"user_agent,omitempty"`
	Location  Location  `json:"location"`
}

// Location is an approximate geographic origin of a click.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Region  string `json:"region"`
}

// UnknownLocation returns a location with every field set to UnknownField.
func UnknownLocation() Location {
	return Location{Country: UnknownField, City: UnknownField, Region: UnknownField}
}

// Normalized returns a copy of the location with empty fields replaced
// by UnknownField.
func (l Location) Normalized() Location {
	if l.Country == "" {
		l.Country = UnknownField
	}
	if l.City == "" {
		l.City = UnknownField
	}
	if l.Region == "" {
		l.Region = UnknownField
	}
	return l
}
