package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/types"
)

// ErrMissingColumn is returned when a CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// ReadStationsCSV parses the hawaii_stations.csv layout
// (station,name,latitude,longitude,elevation). Column order is taken from the header.
func ReadStationsCSV(r io.Reader) ([]types.Station, error) {
	var out []types.Station
	err := readCSV(r, []string{"station", "name", "latitude", "longitude", "elevation"}, func(line int, get func(string) string) error {
		lat, err := parseFloat(get("latitude"))
		if err != nil {
			return fmt.Errorf("line %d: latitude: %w", line, err)
		}
		lon, err := parseFloat(get("longitude"))
		if err != nil {
			return fmt.Errorf("line %d: longitude: %w", line, err)
		}
		elev, err := parseFloat(get("elevation"))
		if err != nil {
			return fmt.Errorf("line %d: elevation: %w", line, err)
		}
		id := get("station")
		if id == "" {
			return fmt.Errorf("line %d: empty station", line)
		}
		out = append(out, types.Station{
			ID:        id,
			Name:      get("name"),
			Latitude:  lat,
			Longitude: lon,
			Elevation: elev,
		})
		return nil
	})
	return out, err
}

// ReadMeasurementsCSV parses the hawaii_measurements.csv layout
// (station,date,prcp,tobs). An empty prcp becomes a nil Precipitation.
func ReadMeasurementsCSV(r io.Reader) ([]types.Measurement, error) {
	var out []types.Measurement
	err := readCSV(r, []string{"station", "date", "prcp", "tobs"}, func(line int, get func(string) string) error {
		id := get("station")
		if id == "" {
			return fmt.Errorf("line %d: empty station", line)
		}
		date := get("date")
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return fmt.Errorf("line %d: date %q: %w", line, date, err)
		}

		var prcp *float64
		if s := get("prcp"); s != "" {
			v, err := parseFloat(s)
			if err != nil {
				return fmt.Errorf("line %d: prcp: %w", line, err)
			}
			prcp = &v
		}

		tobs, err := parseFloat(get("tobs"))
		if err != nil {
			return fmt.Errorf("line %d: tobs: %w", line, err)
		}

		out = append(out, types.Measurement{
			StationID:     id,
			Date:          date,
			Precipitation: prcp,
			Tobs:          int(math.Round(tobs)),
		})
		return nil
	})
	return out, err
}

func readCSV(r io.Reader, required []string, row func(line int, get func(string) string) error) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty csv: header row required")
		}
		return fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	cr.FieldsPerRecord = len(header)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		get := func(col string) string {
			return strings.TrimSpace(rec[index[col]])
		}
		if err := row(line, get); err != nil {
			return err
		}
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
