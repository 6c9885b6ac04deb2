// internal/routes/ad_routes.go
package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"dealerchat/internal/config"
	"dealerchat/internal/handlers"
	"dealerchat/internal/middleware"
	"dealerchat/internal/repository"
	"dealerchat/internal/services"
)

func RegisterAdRoutes(router chi.Router, db *sql.DB, cfg *config.Config, s3Config *config.S3Config) {
	adRepo := repository.NewAdRepository(db)

	var creatives *services.CreativeStore
	if s3Config != nil && s3Config.Client != nil && s3Config.Bucket != "" {
		creatives = services.NewCreativeStore(s3Config)
	}

	adHandler := handlers.NewAdHandler(adRepo, creatives)

	router.Route("/ads", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/", adHandler.ListAds)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", adHandler.GetAd)
			r.Patch("/", adHandler.UpdateAd)
			r.Post("/creative", adHandler.UploadCreative)
		})
	})
}
