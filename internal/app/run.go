package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/config"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/db"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/httpapi"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate"
	climateviews "github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/views"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/observability"
)

// App is the wired service: dataset pool, routes and middleware.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sql.DB
	handler http.Handler
}

// New opens the dataset and wires every route. It fails when the dataset is
// missing, unreadable or lacks the climate tables.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger, db: dbConn}
	if err := a.wire(ctx); err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	if err := climateviews.LoadTemplates(); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	mux := http.NewServeMux()
	repo := climate.RegisterFeature(mux, a.db, metrics, a.logger)
	if err := repo.CheckReadiness(ctx); err != nil {
		return err
	}
	a.logger.Info("dataset ready", "sqlitePath", a.cfg.SQLitePath)

	httpapi.RegisterOperational(mux, a.db, repo, registry, a.logger)
	a.handler = httpapi.NewHandler(a.cfg, mux, a.logger, metrics, clockwork.NewRealClock())
	return nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Close() error {
	return db.Close(a.db)
}

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
		"dbLogSQL", cfg.DBLogSQL,
		"corsAllowedOrigins", cfg.CORSAllowedOrigins,
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	srv := httpapi.NewServer(cfg, a.Handler())

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("http shutting down", "timeout", cfg.ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
