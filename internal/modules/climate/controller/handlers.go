package controller

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/repository"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/views"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/utils"
)

var welcomeRoutes = []string{
	"/api/v1.0/precipitation",
	"/api/v1.0/stations",
	"/api/v1.0/tobs",
	"/api/v1.0/temp/start",
	"/api/v1.0/temp/start/end",
}

func (c *climateControllerImpl) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := &views.WelcomeData{
		Title:      "Hawaii Climate Analysis API",
		Routes:     welcomeRoutes,
		DateFormat: "MMDDYYYY",
	}
	var buf bytes.Buffer
	if err := views.RenderWelcome(&buf, data); err != nil {
		c.logger.Error("welcome template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	rows, err := c.repository.GetPrecipitationSince(r.Context(), CutoffDate)
	if err != nil {
		c.logger.Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}

	// Several stations report the same day; the last row read for a date wins.
	byDate := make(map[string]*float64, len(rows))
	for _, p := range rows {
		byDate[p.Date] = p.Value
	}
	utils.WriteJSON(w, http.StatusOK, byDate)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	ids, err := c.repository.GetStationIDs(r.Context())
	if err != nil {
		c.logger.Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, map[string][]string{"stations_list": ids})
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	tobs, err := c.repository.GetStationTobsSince(r.Context(), MostActiveStation, CutoffDate)
	if err != nil {
		c.logger.Error("tobs: query failed", "station", MostActiveStation, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature observations")
		return
	}
	if tobs == nil {
		tobs = []int{}
	}
	utils.WriteJSON(w, http.StatusOK, map[string][]int{"tobs_list": tobs})
}

func (c *climateControllerImpl) handleTempSince(w http.ResponseWriter, r *http.Request) {
	start, _, _, err := parseTempRange(r.PathValue("start"), "")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := c.repository.GetTemperatureStatsSince(r.Context(), start)
	if err != nil {
		c.logger.Error("temp: query failed", "start", start.Format(time.DateOnly), "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats.Triple())
}

type tempRangeResponse struct {
	Temps struct {
		Temps []*float64 `json:"temps"`
	} `json:"temps"`
}

func (c *climateControllerImpl) handleTempRange(w http.ResponseWriter, r *http.Request) {
	start, end, _, err := parseTempRange(r.PathValue("start"), r.PathValue("end"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := c.repository.GetTemperatureStatsBetween(r.Context(), start, end)
	if err != nil {
		c.logger.Error("temp range: query failed",
			"start", start.Format(time.DateOnly),
			"end", end.Format(time.DateOnly),
			"error", err,
		)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature stats")
		return
	}

	c.logRangeDiagnostics(r.Context(), start, end)

	var resp tempRangeResponse
	resp.Temps.Temps = stats.Triple()
	utils.WriteJSON(w, http.StatusOK, resp)
}

// logRangeDiagnostics logs the range statement and the measurement table
// layout. It only runs when debug logging is enabled and never fails the request.
func (c *climateControllerImpl) logRangeDiagnostics(ctx context.Context, start, end time.Time) {
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	columns, err := c.repository.DescribeTable(ctx, "measurement")
	if err != nil {
		c.logger.Warn("temp range: describe measurement failed", "error", err)
		return
	}
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.Name+" "+col.Type)
	}
	c.logger.Debug("temp range query",
		"sql", repository.TemperatureStatsBetweenQuery(),
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
		"columns", names,
	)
}
