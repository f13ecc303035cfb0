package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns a read-only pool over the climate dataset. The dataset file must
// already exist; the service never creates or migrates it.
func Open(cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.DBLogSQL {
		connector, err := NewLoggingConnector(dsn, logger)
		if err != nil {
			return nil, fmt.Errorf("db connector: %w", err)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.SQLiteMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// readOnlyParams are appended to every DSN built from SQLITE_PATH:
//   - mode=ro: SQLite opens the file read-only and never creates it
//   - _query_only: go-sqlite3 sets PRAGMA query_only on every connection
//   - _busy_timeout: tolerate an external writer rebuilding the file
var readOnlyParams = []string{
	"mode=ro",
	"_query_only=1",
	"_busy_timeout=5000",
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.SQLiteDSN != "" {
		return cfg.SQLiteDSN, nil
	}

	path := strings.TrimPrefix(cfg.SQLitePath, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("dataset %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("dataset %s: is a directory", path)
	}

	if strings.HasPrefix(cfg.SQLitePath, "file:") {
		sep := "?"
		if strings.Contains(cfg.SQLitePath, "?") {
			sep = "&"
		}
		return cfg.SQLitePath + sep + strings.Join(readOnlyParams, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", cfg.SQLitePath, strings.Join(readOnlyParams, "&")), nil
}
