package controller

import (
	"log/slog"
	"net/http"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/repository"
)

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	repository repository.ClimateRepository
	logger     *slog.Logger
}

func NewClimateController(repository repository.ClimateRepository, logger *slog.Logger) ClimateController {
	if logger == nil {
		logger = slog.Default()
	}
	return &climateControllerImpl{repository: repository, logger: logger}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleWelcome)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/temp/{start}", c.handleTempSince)
	mux.HandleFunc("GET /api/v1.0/temp/{start}/{end}", c.handleTempRange)
}
