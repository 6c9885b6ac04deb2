// internal/routes/session_routes.go
package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"dealerchat/internal/config"
	"dealerchat/internal/handlers"
	"dealerchat/internal/middleware"
	"dealerchat/internal/repository"
)

func RegisterSessionRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	convRepo := repository.NewConversationRepository(db)
	sessionHandler := handlers.NewSessionHandler(convRepo)

	router.Route("/sessions", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/", sessionHandler.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/messages", sessionHandler.GetHistory)
			r.Delete("/", sessionHandler.DeleteSession)
		})
	})
}
