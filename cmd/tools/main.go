package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/config"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/dataset"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/logging"
)

const appName = "climate-tools"

var version = "dev"

const usage = `usage: %s <command>
  migrate                               create the dataset schema at SQLITE_PATH
  import <measurements.csv> <stations.csv>  load CSV exports into an empty dataset
`

var errUsage = errors.New("usage")

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "dotenv error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewWithWriter(os.Stderr, cfg, version, appName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], filepath.Clean(cfg.SQLitePath), os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]))
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, dbPath string, stdout io.Writer, logger *slog.Logger) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch args[0] {
	case "migrate":
		if len(args) != 1 {
			return fmt.Errorf("%w: migrate takes no arguments", errUsage)
		}
		return migrate(ctx, dbPath, stdout, logger)
	case "import":
		if len(args) != 3 {
			return fmt.Errorf("%w: import needs <measurements.csv> <stations.csv>", errUsage)
		}
		return importCSV(ctx, dbPath, args[1], args[2], stdout, logger)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func migrate(ctx context.Context, dbPath string, stdout io.Writer, logger *slog.Logger) error {
	db, err := dataset.OpenWritable(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("db close", "err", closeErr)
		}
	}()

	applied, err := dataset.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, v := range applied {
		logger.Info("migration applied", "version", v, "path", dbPath)
	}
	fmt.Fprintf(stdout, "%d migrations applied\n", len(applied))
	return nil
}

func importCSV(ctx context.Context, dbPath, measurementsPath, stationsPath string, stdout io.Writer, logger *slog.Logger) error {
	stations, err := readFile(stationsPath, dataset.ReadStationsCSV)
	if err != nil {
		return err
	}
	measurements, err := readFile(measurementsPath, dataset.ReadMeasurementsCSV)
	if err != nil {
		return err
	}

	db, err := dataset.OpenWritable(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("db close", "err", closeErr)
		}
	}()

	if _, err := dataset.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	populated, err := dataset.IsPopulated(ctx, db)
	if err != nil {
		return err
	}
	if populated {
		return fmt.Errorf("import: %s already holds data", dbPath)
	}

	if err := dataset.InsertStations(ctx, db, stations); err != nil {
		return fmt.Errorf("insert stations: %w", err)
	}
	if err := dataset.InsertMeasurements(ctx, db, measurements); err != nil {
		return fmt.Errorf("insert measurements: %w", err)
	}

	logger.Info("import finished",
		"path", dbPath,
		"stations", len(stations),
		"measurements", len(measurements),
	)
	fmt.Fprintf(stdout, "imported %d stations and %d measurements\n", len(stations), len(measurements))
	return nil
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
