package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/config"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/db"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/repository"
)

const stationsCSV = `station,name,latitude,longitude,elevation
USC00519397,"WAIKIKI 717.2, HI US",21.2716,-157.8168,3.0
USC00519281,"WAIHEE 837.5, HI US",21.45167,-157.84889,32.9
`

const measurementsCSV = `station,date,prcp,tobs
USC00519397,2016-08-22,0.10,70
USC00519281,2016-08-23,1.79,77
USC00519281,2017-01-01,,64
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Usage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hawaii.sqlite")
	for _, args := range [][]string{
		nil,
		{"serve"},
		{"migrate", "extra"},
		{"import", "only-one.csv"},
	} {
		err := run(context.Background(), args, dbPath, io.Discard, quietLogger())
		assert.True(t, errors.Is(err, errUsage), "run(%v) = %v; want usage error", args, err)
	}
}

func TestRun_Migrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "hawaii.sqlite")
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"migrate"}, dbPath, &out, quietLogger()))
	assert.Equal(t, "1 migrations applied\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"migrate"}, dbPath, &out, quietLogger()))
	assert.Equal(t, "0 migrations applied\n", out.String())
}

func TestRun_ImportThenServe(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "hawaii.sqlite")
	m := writeFile(t, dir, "hawaii_measurements.csv", measurementsCSV)
	s := writeFile(t, dir, "hawaii_stations.csv", stationsCSV)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"import", m, s}, dbPath, &out, quietLogger()))
	assert.Equal(t, "imported 2 stations and 3 measurements\n", out.String())

	conn, err := db.Open(config.Config{SQLiteDriver: "sqlite3", SQLitePath: dbPath, SQLiteMaxOpenConns: 1}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	repo := repository.NewRepository(conn)
	require.NoError(t, repo.CheckReadiness(context.Background()))
	ids, err := repo.GetStationIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"USC00519397", "USC00519281"}, ids)

	t.Run("second import is refused", func(t *testing.T) {
		err := run(context.Background(), []string{"import", m, s}, dbPath, io.Discard, quietLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already holds data")
	})
}

func TestRun_ImportBadCSV(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "hawaii.sqlite")
	m := writeFile(t, dir, "m.csv", "station,date,prcp,tobs\nUSC00519281,08/23/2016,0,77\n")
	s := writeFile(t, dir, "s.csv", stationsCSV)

	err := run(context.Background(), []string{"import", m, s}, dbPath, io.Discard, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m.csv")

	_, statErr := os.Stat(dbPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "dataset should not be created when CSV parsing fails")
}

func TestRun_ImportMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := run(context.Background(), []string{"import", filepath.Join(dir, "absent.csv"), filepath.Join(dir, "absent2.csv")},
		filepath.Join(dir, "hawaii.sqlite"), io.Discard, quietLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
