// internal/routes/vehicle_routes.go
package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"dealerchat/internal/config"
	"dealerchat/internal/handlers"
	"dealerchat/internal/middleware"
	"dealerchat/internal/repository"
)

func RegisterVehicleRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	vehicleRepo := repository.NewVehicleRepository(db)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo)

	router.Route("/vehicles", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/", vehicleHandler.ListVehicles)
		r.Get("/search", vehicleHandler.SearchVehicles)
		r.Post("/", vehicleHandler.CreateVehicle)
		r.Get("/{stockNumber}", vehicleHandler.GetVehicle)
		r.Delete("/{id}", vehicleHandler.DeleteVehicle)
	})
}
