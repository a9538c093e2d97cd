// Package telemetry provides a fire-and-forget diagnostics reporter.
// The reporter carries no business logic: its success or failure is
// irrelevant to the caller and it must never propagate an error back.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ReportTimeout is the max time spent delivering one report.
const ReportTimeout = 3 * time.Second

// Reporter receives diagnostic events from the core.
type Reporter interface {
	Report(level, category, message string)
}

// Noop discards all reports.
type Noop struct{}

// Report is a no-op.
func (Noop) Report(level, category, message string) {}

// payload is the wire shape of one report.
type payload struct {
	Level      string    `json:"level"`
	Category   string    `json:"category"`
	Message    string    `json:"message"`
	ReportedAt time.Time `json:"reported_at"`
}

// HTTPReporter posts reports to a collector endpoint. Delivery happens
// on a detached goroutine with a bounded timeout; failures are logged
// at debug level and dropped.
type HTTPReporter struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPReporter creates a reporter posting to the given endpoint.
func NewHTTPReporter(endpoint string, logger *slog.Logger) *HTTPReporter {
	return &HTTPReporter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: ReportTimeout},
		logger:   logger.With("component", "telemetry"),
	}
}

// Report delivers one event without blocking the caller.
func (r *HTTPReporter) Report(level, category, message string) {
	body, err := json.Marshal(payload{
		Level:      level,
		Category:   category,
		Message:    message,
		ReportedAt: time.Now().UTC(),
	})
	if err != nil {
		r.logger.Debug("failed to encode report", "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ReportTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
		if err != nil {
			r.logger.Debug("failed to build report request", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			r.logger.Debug("failed to deliver report", "error", err)
			return
		}
		resp.Body.Close()

		if resp.StatusCode >= 300 {
			r.logger.Debug("report rejected", "status", resp.StatusCode)
		}
	}()
}
