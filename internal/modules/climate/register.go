package climate

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/controller"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/modules/climate/repository"
	"github.com/zenobiajazmin/sqlalchemy-challenge/internal/observability"
)

// RegisterFeature mounts the climate routes on mux and returns the repository
// so callers can use it for readiness checks.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, metrics *observability.Metrics, logger *slog.Logger) repository.ClimateRepository {
	climateRepository := repository.NewRepository(db)
	if metrics != nil {
		climateRepository = repository.NewInstrumented(climateRepository, metrics, nil)
	}
	climateController := controller.NewClimateController(climateRepository, logger)
	climateController.RegisterRoutes(mux)
	return climateRepository
}
