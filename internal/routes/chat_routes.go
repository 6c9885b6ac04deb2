// internal/routes/chat_routes.go
package routes

import (
	"database/sql"
	"time"

	"github.com/go-chi/chi/v5"

	"dealerchat/internal/ai"
	"dealerchat/internal/config"
	"dealerchat/internal/handlers"
	"dealerchat/internal/nlquery"
	"dealerchat/internal/repository"
	"dealerchat/internal/wizard"
)

func RegisterChatRoutes(router chi.Router, db *sql.DB, cfg *config.Config, llm ai.Completer) {
	convRepo := repository.NewConversationRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	adRepo := repository.NewAdRepository(db)

	engine := nlquery.NewEngine(llm, vehicleRepo)
	orchestrator := wizard.NewOrchestrator(
		convRepo, vehicleRepo, adRepo, llm, engine,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
	)

	chatHandler := handlers.NewChatHandler(orchestrator)
	router.Post("/chat", chatHandler.HandleChat)
}
