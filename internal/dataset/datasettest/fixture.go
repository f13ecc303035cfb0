// Package datasettest builds small deterministic climate datasets for tests.
//
// Fixture measurements (id: station date prcp tobs):
//
//	 1: USC00519397 2016-08-22 0.10  70   before cutoff
//	 2: USC00519397 2016-08-23 0.00  81
//	 3: USC00519281 2016-08-22 1.79  72   before cutoff
//	 4: USC00519281 2016-08-23 1.79  77
//	 5: USC00513117 2016-12-31 0.05  66
//	 6: USC00519397 2017-01-01 0.00  62
//	 7: USC00519281 2017-01-01 0.29  64   same date as 6, wins in precipitation
//	 8: USC00513117 2017-01-04 NULL  70
//	 9: USC00519281 2017-01-07 0.00  69
//	10: USC00519397 2017-01-08 0.00  74
//	11: USC00519281 2017-08-18 0.06  79
//	12: USC00519397 2017-08-23 0.00  81
package datasettest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/dataset"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/types"
)

func f(v float64) *float64 { return &v }

// Stations returns the fixture stations. USC00513117 appears twice so that
// station listing has a duplicate to collapse.
func Stations() []types.Station {
	return []types.Station{
		{ID: "USC00519397", Name: "WAIKIKI 717.2, HI US", Latitude: 21.2716, Longitude: -157.8168, Elevation: 3.0},
		{ID: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6},
		{ID: "USC00519281", Name: "WAIHEE 837.5, HI US", Latitude: 21.45167, Longitude: -157.84889, Elevation: 32.9},
		{ID: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6},
	}
}

// Measurements returns the fixture measurements in insertion (id) order.
func Measurements() []types.Measurement {
	return []types.Measurement{
		{StationID: "USC00519397", Date: "2016-08-22", Precipitation: f(0.10), Tobs: 70},
		{StationID: "USC00519397", Date: "2016-08-23", Precipitation: f(0.00), Tobs: 81},
		{StationID: "USC00519281", Date: "2016-08-22", Precipitation: f(1.79), Tobs: 72},
		{StationID: "USC00519281", Date: "2016-08-23", Precipitation: f(1.79), Tobs: 77},
		{StationID: "USC00513117", Date: "2016-12-31", Precipitation: f(0.05), Tobs: 66},
		{StationID: "USC00519397", Date: "2017-01-01", Precipitation: f(0.00), Tobs: 62},
		{StationID: "USC00519281", Date: "2017-01-01", Precipitation: f(0.29), Tobs: 64},
		{StationID: "USC00513117", Date: "2017-01-04", Precipitation: nil, Tobs: 70},
		{StationID: "USC00519281", Date: "2017-01-07", Precipitation: f(0.00), Tobs: 69},
		{StationID: "USC00519397", Date: "2017-01-08", Precipitation: f(0.00), Tobs: 74},
		{StationID: "USC00519281", Date: "2017-08-18", Precipitation: f(0.06), Tobs: 79},
		{StationID: "USC00519397", Date: "2017-08-23", Precipitation: f(0.00), Tobs: 81},
	}
}

// NewFile writes a dataset file with the fixture rows into a temp dir and
// returns its path. The file is closed before returning.
func NewFile(t testing.TB) string {
	t.Helper()
	return NewFileWith(t, Stations(), Measurements())
}

// NewEmptyFile writes a dataset file that has the schema but no rows.
func NewEmptyFile(t testing.TB) string {
	t.Helper()
	return NewFileWith(t, nil, nil)
}

// NewFileWith writes a dataset file containing the given rows.
func NewFileWith(t testing.TB, stations []types.Station, measurements []types.Measurement) string {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")

	db, err := dataset.OpenWritable(ctx, path)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close dataset: %v", err)
		}
	}()

	if _, err := dataset.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate dataset: %v", err)
	}
	if err := dataset.InsertStations(ctx, db, stations); err != nil {
		t.Fatalf("insert stations: %v", err)
	}
	if err := dataset.InsertMeasurements(ctx, db, measurements); err != nil {
		t.Fatalf("insert measurements: %v", err)
	}
	return path
}
