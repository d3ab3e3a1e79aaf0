package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Start()(http.MethodGet, "/api/products", http.StatusOK)
	m.Start()(http.MethodGet, "/api/products", http.StatusOK)
	m.Start()(http.MethodPost, "", http.StatusNotFound)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/products"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 product requests, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("fetch unknown route: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 unmatched request, got %f", got)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Start()(http.MethodGet, "/", http.StatusOK)
	NewHTTPMetrics(nil).Start()(http.MethodGet, "/", http.StatusOK)
}

func TestJobMetricsRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	m.ObserveJob("cart_sweep", OutcomeSuccess, 0)
	m.ObserveJob("cart_sweep", OutcomeError, 0)
	m.ObserveJob("cart_sweep", OutcomeSuccess, 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "background_job_runs_total", "outcome", OutcomeSuccess); err != nil {
		t.Fatalf("fetch runs: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 successful runs, got %f", got)
	}

	var nilMetrics *JobMetrics
	nilMetrics.ObserveJob("x", OutcomeSuccess, 0)
}
