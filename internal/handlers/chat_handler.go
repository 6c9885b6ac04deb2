package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"dealerchat/internal/models"
	"dealerchat/internal/wizard"
)

type ChatHandler struct {
	orchestrator *wizard.Orchestrator
	validator    *validator.Validate
}

func NewChatHandler(orchestrator *wizard.Orchestrator) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		validator:    validator.New(),
	}
}

// HandleChat handles POST /api/v1/chat
// @Tags Chat
// @Summary Process one chat message through the ad wizard
// @Accept json
// @Produce json
// @Router /api/v1/chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	// The orchestrator converts every downstream failure into an assistant
	// reply, so this endpoint always answers 200 with a chat payload.
	resp := h.orchestrator.HandleMessage(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}
