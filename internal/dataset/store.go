package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/types"

	_ "github.com/mattn/go-sqlite3"
)

// OpenWritable opens (creating when absent) a dataset file for building. The
// rollback journal is kept so the finished file can be opened with mode=ro.
func OpenWritable(ctx context.Context, path string) (*sql.DB, error) {
	dsn, err := buildWritableDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// A single writer keeps the build sequential.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func buildWritableDSN(path string) (string, error) {
	params := []string{
		"_busy_timeout=5000",
		"_journal_mode=DELETE",
	}

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

// InsertStations appends station rows in one transaction.
func InsertStations(ctx context.Context, db *sql.DB, stations []types.Station) error {
	return insertAll(ctx, db,
		`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`,
		len(stations),
		func(stmt *sql.Stmt, i int) error {
			s := stations[i]
			_, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Latitude, s.Longitude, s.Elevation)
			return err
		},
	)
}

// InsertMeasurements appends measurement rows in one transaction. A nil
// Precipitation is stored as NULL.
func InsertMeasurements(ctx context.Context, db *sql.DB, measurements []types.Measurement) error {
	return insertAll(ctx, db,
		`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
		len(measurements),
		func(stmt *sql.Stmt, i int) error {
			m := measurements[i]
			var prcp any
			if m.Precipitation != nil {
				prcp = *m.Precipitation
			}
			_, err := stmt.ExecContext(ctx, m.StationID, m.Date, prcp, m.Tobs)
			return err
		},
	)
}

func insertAll(ctx context.Context, db *sql.DB, query string, n int, exec func(*sql.Stmt, int) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// IsPopulated reports whether either dataset table already holds rows.
func IsPopulated(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM station) + (SELECT COUNT(*) FROM measurement)`,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	return n > 0, nil
}
