package handler

import (
	"fmt"
	"net/http"

	"github.com/moralreport/moralreport/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeOutcomes(w, "moralreport_registrations_total", snap.Registrations)
	writeOutcomes(w, "moralreport_logins_total", snap.Logins)
	writeOutcomes(w, "moralreport_refreshes_total", snap.Refreshes)

	writeMetric(w, "moralreport_password_hash_duration_seconds_count %d\n", snap.PasswordHashCount)
	writeMetric(w, "moralreport_password_hash_duration_seconds_sum %.6f\n", float64(snap.PasswordHashTotalNs)/1e9)

	for _, route := range snap.RateLimitedRoutes() {
		writeMetric(w, "moralreport_rate_limited_total{route=%q} %d\n", route, snap.RateLimitedByRoute[route])
	}
}

func writeOutcomes(w http.ResponseWriter, name string, counts metrics.OutcomeCounts) {
	writeMetric(w, "%s{outcome=\"success\"} %d\n", name, counts.Success)
	writeMetric(w, "%s{outcome=\"rejected\"} %d\n", name, counts.Rejected)
	writeMetric(w, "%s{outcome=\"error\"} %d\n", name, counts.Error)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
