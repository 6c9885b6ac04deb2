// internal/routes/routes.go
package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dealerchat/internal/ai"
	"dealerchat/internal/config"
)

func SetupRoutes(db *sql.DB, cfg *config.Config, s3Config *config.S3Config, llm ai.Completer) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "dealerchat api"})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		type dbStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}
		resp := struct {
			Status string   `json:"status"`
			DB     dbStatus `json:"db"`
		}{Status: "ok", DB: dbStatus{Status: "ok"}}

		if err := db.PingContext(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.DB.Status = "error"
			resp.DB.Error = err.Error()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	r.Route("/api/v1", func(r chi.Router) {
		RegisterAuthRoutes(r, db, cfg)
		RegisterChatRoutes(r, db, cfg, llm)
		RegisterVehicleRoutes(r, db, cfg)
		RegisterSessionRoutes(r, db, cfg)
		RegisterAdRoutes(r, db, cfg, s3Config)
	})

	return r
}
