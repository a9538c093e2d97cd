// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"time"

	"github.com/linkpocket/linkpocket/internal/model"
	"github.com/linkpocket/linkpocket/internal/validate"
)

// Link statuses as rendered to clients.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// CreateLinkRequest is the payload for creating a short link.
type CreateLinkRequest struct {
	OriginalURL    string `json:"original_url"`
	ValidityPeriod string `json:"validity_period,omitempty"`
	CustomCode     string `json:"custom_code,omitempty"`
}

// ClickResponse is one recorded click.
type ClickResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	UserAgent string    `json:"user_agent,omitempty"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Region    string    `json:"region"`
}

// LinkResponse is the API view of a stored link.
type LinkResponse struct {
	ID               string          `json:"id"`
	OriginalURL      string          `json:"original_url"`
	ShortCode        string          `json:"short_code"`
	ShortURL         string          `json:"short_url"`
	ValidityMinutes  int             `json:"validity_minutes"`
	CreatedAt        time.Time       `json:"created_at"`
	ExpiresAt        time.Time       `json:"expires_at"`
	ExpiresAtDisplay string          `json:"expires_at_display"`
	Status           string          `json:"status"`
	ClickCount       int             `json:"click_count"`
	Clicks           []ClickResponse `json:"clicks"`
}

// LinkListResponse wraps the full collection.
type LinkListResponse struct {
	Links []LinkResponse `json:"links"`
	Total int            `json:"total"`
}

// StatsResponse is the aggregate view of the collection.
type StatsResponse struct {
	TotalLinks       int           `json:"total_links"`
	ActiveLinks      int           `json:"active_links"`
	ExpiredLinks     int           `json:"expired_links"`
	TotalClicks      int           `json:"total_clicks"`
	AvgClicksPerLink float64       `json:"avg_clicks_per_link"`
	MostClicked      *LinkResponse `json:"most_clicked,omitempty"`
}

// ClearExpiredResponse reports how many links a cleanup removed.
type ClearExpiredResponse struct {
	Removed int `json:"removed"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// FromLink converts a domain link into its API shape, evaluating the
// status against now.
func FromLink(link *model.Link, now time.Time) LinkResponse {
	status := StatusActive
	if link.Expired(now) {
		status = StatusExpired
	}

	clicks := make([]ClickResponse, len(link.Clicks))
	for i, c := range link.Clicks {
		clicks[i] = ClickResponse{
			ID:        c.ID,
			Timestamp: c.Timestamp,
			Source:    c.Source,
			UserAgent: c.UserAgent,
			Country:   c.Location.Country,
			City:      c.Location.City,
			Region:    c.Location.Region,
		}
	}

	return LinkResponse{
		ID:               link.ID,
		OriginalURL:      link.OriginalURL,
		ShortCode:        link.ShortCode,
		ShortURL:         link.ShortURL,
		ValidityMinutes:  link.ValidityMinutes,
		CreatedAt:        link.CreatedAt,
		ExpiresAt:        link.ExpiresAt,
		ExpiresAtDisplay: validate.FormatExpiry(link.ExpiresAt),
		Status:           status,
		ClickCount:       link.ClickCount,
		Clicks:           clicks,
	}
}

// FromStatistics converts domain statistics into their API shape.
func FromStatistics(stats model.Statistics, now time.Time) StatsResponse {
	out := StatsResponse{
		TotalLinks:       stats.TotalLinks,
		ActiveLinks:      stats.ActiveLinks,
		ExpiredLinks:     stats.ExpiredLinks,
		TotalClicks:      stats.TotalClicks,
		AvgClicksPerLink: stats.AvgClicksPerLink,
	}
	if stats.MostClicked != nil {
		resp := FromLink(stats.MostClicked, now)
		out.MostClicked = &resp
	}
	return out
}
