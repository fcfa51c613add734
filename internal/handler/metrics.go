package handler

import (
	"fmt"
	"net/http"

	"github.com/policyscope/policyscope/internal/metrics"
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

	for _, key := range snap.SortedQueryKeys() {
		writeMetric(w, "policyscope_queries_total{operation=%q,outcome=%q} %d\n",
			key.Operation, key.Outcome, snap.Queries[key])
	}
	for _, op := range snap.SortedOperations() {
		stat := snap.QueryDurations[op]
		writeMetric(w, "policyscope_query_duration_seconds_count{operation=%q} %d\n", op, stat.Count)
		writeMetric(w, "policyscope_query_duration_seconds_sum{operation=%q} %.6f\n", op, float64(stat.TotalNs)/1e9)
	}

	writeMetric(w, "policyscope_store_connects_total{status=\"success\"} %d\n", snap.StoreConnects)
	writeMetric(w, "policyscope_store_connects_total{status=\"failed\"} %d\n", snap.StoreConnectFail)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
