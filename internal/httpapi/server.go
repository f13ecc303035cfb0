package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/config"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/observability"
)

// NewHandler wraps mux with CORS and request logging.
func NewHandler(cfg config.Config, mux *http.ServeMux, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return requestLogger(withCORS(mux, cfg.CORSAllowedOrigins), logger, metrics, clock)
}

func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
