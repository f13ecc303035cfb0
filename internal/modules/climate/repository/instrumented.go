package repository

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/types"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/observability"
)

// instrumentedRepository records a count and a latency sample per query.
type instrumentedRepository struct {
	next    ClimateRepository
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewInstrumented wraps next so that every call is observed in metrics.
// A nil clock uses the real clock.
func NewInstrumented(next ClimateRepository, metrics *observability.Metrics, clock clockwork.Clock) ClimateRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &instrumentedRepository{next: next, metrics: metrics, clock: clock}
}

// track starts a measurement; call the returned func with the query error.
func (r *instrumentedRepository) track(query string) func(error) {
	start := r.clock.Now()
	return func(err error) {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		r.metrics.DatasetQueries.WithLabelValues(query, outcome).Inc()
		r.metrics.DatasetQueryDuration.WithLabelValues(query).Observe(r.clock.Since(start).Seconds())
	}
}

func (r *instrumentedRepository) GetPrecipitationSince(ctx context.Context, since time.Time) ([]types.Precipitation, error) {
	done := r.track("precipitation_since")
	out, err := r.next.GetPrecipitationSince(ctx, since)
	done(err)
	return out, err
}

func (r *instrumentedRepository) GetStationIDs(ctx context.Context) ([]string, error) {
	done := r.track("station_ids")
	out, err := r.next.GetStationIDs(ctx)
	done(err)
	return out, err
}

func (r *instrumentedRepository) GetStationTobsSince(ctx context.Context, stationID string, since time.Time) ([]int, error) {
	done := r.track("station_tobs_since")
	out, err := r.next.GetStationTobsSince(ctx, stationID, since)
	done(err)
	return out, err
}

func (r *instrumentedRepository) GetTemperatureStatsSince(ctx context.Context, start time.Time) (types.TemperatureStats, error) {
	done := r.track("temperature_stats_since")
	out, err := r.next.GetTemperatureStatsSince(ctx, start)
	done(err)
	return out, err
}

func (r *instrumentedRepository) GetTemperatureStatsBetween(ctx context.Context, start time.Time, end time.Time) (types.TemperatureStats, error) {
	done := r.track("temperature_stats_between")
	out, err := r.next.GetTemperatureStatsBetween(ctx, start, end)
	done(err)
	return out, err
}

func (r *instrumentedRepository) DescribeTable(ctx context.Context, table string) ([]types.Column, error) {
	done := r.track("describe_table")
	out, err := r.next.DescribeTable(ctx, table)
	done(err)
	return out, err
}

// CheckReadiness is polled by probes and is not counted.
func (r *instrumentedRepository) CheckReadiness(ctx context.Context) error {
	return r.next.CheckReadiness(ctx)
}
