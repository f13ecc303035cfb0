package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/types"
)

//go:embed sql/get-precipitation-since.sql
var getPrecipitationSinceSQL string

//go:embed sql/get-station-ids.sql
var getStationIDsSQL string

//go:embed sql/get-station-tobs-since.sql
var getStationTobsSinceSQL string

//go:embed sql/get-temperature-stats-since.sql
var getTemperatureStatsSinceSQL string

//go:embed sql/get-temperature-stats-between.sql
var getTemperatureStatsBetweenSQL string

//go:embed sql/get-dataset-tables.sql
var getDatasetTablesSQL string

//go:embed sql/describe-table.sql
var describeTableSQL string

// dateLayout is the storage format of measurement.date.
const dateLayout = time.DateOnly

// ErrUnknownTable is returned by DescribeTable when the table does not exist.
var ErrUnknownTable = errors.New("unknown table")

type ClimateRepository interface {
	GetPrecipitationSince(ctx context.Context, since time.Time) ([]types.Precipitation, error)
	GetStationIDs(ctx context.Context) ([]string, error)
	GetStationTobsSince(ctx context.Context, stationID string, since time.Time) ([]int, error)
	GetTemperatureStatsSince(ctx context.Context, start time.Time) (types.TemperatureStats, error)
	GetTemperatureStatsBetween(ctx context.Context, start time.Time, end time.Time) (types.TemperatureStats, error)
	DescribeTable(ctx context.Context, table string) ([]types.Column, error)
	CheckReadiness(ctx context.Context) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func (r *repositoryImpl) GetPrecipitationSince(ctx context.Context, since time.Time) ([]types.Precipitation, error) {
	rows, err := r.db.QueryContext(ctx, getPrecipitationSinceSQL, formatDate(since))
	if err != nil {
		return nil, fmt.Errorf("query precipitation: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close precipitation rows", "error", err)
		}
	}()

	var out []types.Precipitation
	for rows.Next() {
		var (
			p    types.Precipitation
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&p.Date, &prcp); err != nil {
			return nil, err
		}
		p.Value = nullableFloat(prcp)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetStationIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, getStationIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetStationTobsSince(ctx context.Context, stationID string, since time.Time) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, getStationTobsSinceSQL, stationID, formatDate(since))
	if err != nil {
		return nil, fmt.Errorf("query tobs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close tobs rows", "error", err)
		}
	}()

	var out []int
	for rows.Next() {
		var tobs int
		if err := rows.Scan(&tobs); err != nil {
			return nil, err
		}
		out = append(out, tobs)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureStatsSince(ctx context.Context, start time.Time) (types.TemperatureStats, error) {
	row := r.db.QueryRowContext(ctx, getTemperatureStatsSinceSQL, formatDate(start))
	return scanTemperatureStats(row)
}

func (r *repositoryImpl) GetTemperatureStatsBetween(ctx context.Context, start time.Time, end time.Time) (types.TemperatureStats, error) {
	row := r.db.QueryRowContext(ctx, getTemperatureStatsBetweenSQL, formatDate(start), formatDate(end))
	return scanTemperatureStats(row)
}

// scanTemperatureStats reads one MIN/AVG/MAX row. SQLite returns NULL for all
// three aggregates when nothing matched, which maps to nil fields.
func scanTemperatureStats(row *sql.Row) (types.TemperatureStats, error) {
	var tmin, tavg, tmax sql.NullFloat64
	if err := row.Scan(&tmin, &tavg, &tmax); err != nil {
		return types.TemperatureStats{}, fmt.Errorf("scan temperature stats: %w", err)
	}
	return types.TemperatureStats{
		Min: nullableFloat(tmin),
		Avg: nullableFloat(tavg),
		Max: nullableFloat(tmax),
	}, nil
}

func (r *repositoryImpl) DescribeTable(ctx context.Context, table string) ([]types.Column, error) {
	rows, err := r.db.QueryContext(ctx, describeTableSQL, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close table_info rows", "error", err)
		}
	}()

	var out []types.Column
	for rows.Next() {
		var (
			c       types.Column
			notNull int
			pk      int
			dflt    sql.NullString
		)
		if err := rows.Scan(&c.CID, &c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk != 0
		if dflt.Valid {
			c.Default = &dflt.String
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return out, nil
}

// CheckReadiness verifies that both dataset tables are present.
func (r *repositoryImpl) CheckReadiness(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, getDatasetTablesSQL)
	if err != nil {
		return fmt.Errorf("list dataset tables: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close dataset tables rows", "error", err)
		}
	}()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, table := range []string{"measurement", "station"} {
		if !found[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dataset is missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// TemperatureStatsBetweenQuery returns the single-line statement behind
// GetTemperatureStatsBetween, for diagnostics.
func TemperatureStatsBetweenQuery() string {
	return strings.Join(strings.Fields(getTemperatureStatsBetweenSQL), " ")
}
