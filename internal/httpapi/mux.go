package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterOperational mounts /healthz, /readyz and, when gatherer is non-nil, /metrics.
func RegisterOperational(mux *http.ServeMux, db *sql.DB, ready ReadinessChecker, gatherer prometheus.Gatherer, logger *slog.Logger) {
	registerHealthcheck(mux, db, ready, logger)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}
