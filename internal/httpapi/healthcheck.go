package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/utils"
)

// ReadinessChecker reports whether the dataset can serve queries.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
	handleReadyz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db     *sql.DB
	ready  ReadinessChecker
	logger *slog.Logger
}

func NewHealthchecker(db *sql.DB, ready ReadinessChecker, logger *slog.Logger) healthchecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &healthcheckerImpl{db: db, ready: ready, logger: logger}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	var ok int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&ok); err != nil {
		h.logger.Error("failed to check database connectivity", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check database connectivity")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *healthcheckerImpl) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "readiness check not configured")
		return
	}
	if err := h.ready.CheckReadiness(r.Context()); err != nil {
		h.logger.Warn("dataset not ready", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB, ready ReadinessChecker, logger *slog.Logger) {
	healthchecker := NewHealthchecker(db, ready, logger)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
	mux.HandleFunc("GET /readyz", healthchecker.handleReadyz)
}
