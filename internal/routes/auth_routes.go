// internal/routes/auth_routes.go
package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"dealerchat/internal/config"
	"dealerchat/internal/handlers"
	"dealerchat/internal/services"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	var mailer services.EmailSender = services.NoopSender{}
	if cfg.SMTPHost != "" {
		mailer = &services.SMTPSender{
			Host:   cfg.SMTPHost,
			Port:   cfg.SMTPPort,
			User:   cfg.SMTPUser,
			Pass:   cfg.SMTPPass,
			From:   cfg.SMTPFrom,
			UseTLS: cfg.SMTPUseTLS,
		}
	}

	authHandler := handlers.NewAuthHandler(db, cfg, mailer)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})
}
