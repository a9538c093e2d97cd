// Package model defines domain entities for the application.
package model

// Statistics is a read-only projection over the whole link collection,
// computed fresh at a point in time.
type Statistics struct {
	TotalLinks       int     `json:"total_links"`
	ActiveLinks      int     `json:"active_links"`
	ExpiredLinks     int     `json:"expired_links"`
	TotalClicks      int     `json:"total_clicks"`
	AvgClicksPerLink float64 `json:"avg_clicks_per_link"`

	// MostClicked is nil when the store is empty or no link has been
	// clicked. Ties keep the earliest link in insertion order: the
	// reduction only replaces the current maximum on a strictly
	// greater count.
	MostClicked *Link `json:"most_clicked,omitempty"`
}
