package telemetry

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, nil))
}

func TestHTTPReporter_Delivers(t *testing.T) {
	t.Parallel()

	received := make(chan payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p payload
		if err := json.Unmarshal(body, &p); err != nil {
			t.Errorf("bad report body: %v", err)
		}
		received <- p
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	reporter := NewHTTPReporter(srv.URL, quietLogger())
	reporter.Report("error", "storage", "save failed")

	select {
	case p := <-received:
		if p.Level != "error" || p.Category != "storage" || p.Message != "save failed" {
			t.Errorf("report = %+v", p)
		}
		if p.ReportedAt.IsZero() {
			t.Error("ReportedAt not set")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("report never delivered")
	}
}

func TestHTTPReporter_NeverPropagatesFailure(t *testing.T) {
	t.Parallel()

	// Endpoint does not exist; Report must still return immediately.
	reporter := NewHTTPReporter("http://127.0.0.1:1/report", quietLogger())

	done := make(chan struct{})
	go func() {
		reporter.Report("warn", "geo", "lookup failed")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Report blocked the caller")
	}
}

func TestNoop_Report(t *testing.T) {
	t.Parallel()

	// Must not panic.
	Noop{}.Report("info", "test", "message")
}
