package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dealerchat/internal/interfaces"
	"dealerchat/internal/middleware"
	"dealerchat/internal/models"
)

type SessionHandler struct {
	repo interfaces.ConversationRepository
}

func NewSessionHandler(repo interfaces.ConversationRepository) *SessionHandler {
	return &SessionHandler{repo: repo}
}

// ListSessions handles GET /api/v1/sessions?customer_id=
// @Tags Sessions
// @Summary List a customer's conversations
// @Security BearerAuth
// @Produce json
// @Router /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		// Default to the authenticated account.
		if p, ok := middleware.PrincipalFrom(r.Context()); ok {
			customerID = p.UserID
		}
	}
	if customerID == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "customer_id is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sessions, err := h.repo.ListSessions(r.Context(), customerID, limit)
	if err != nil {
		log.Printf("list sessions for %s: %v", customerID, err)
		writeJSONError(w, http.StatusInternalServerError, "list_sessions_failed", "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []models.ConversationSession{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// GetHistory handles GET /api/v1/sessions/{id}/messages
// @Tags Sessions
// @Summary Fetch a conversation's message history
// @Security BearerAuth
// @Produce json
// @Router /api/v1/sessions/{id}/messages [get]
func (h *SessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Session ID is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.repo.GetConversationHistory(r.Context(), sessionID, limit)
	if err != nil {
		log.Printf("load history for %s: %v", sessionID, err)
		writeJSONError(w, http.StatusInternalServerError, "get_history_failed", "Failed to load history")
		return
	}
	if messages == nil {
		messages = []models.ConversationMessage{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// DeleteSession handles DELETE /api/v1/sessions/{id}
// Soft-deletes the conversation; its wizard state expires with it.
// @Tags Sessions
// @Summary Delete a conversation
// @Security BearerAuth
// @Produce json
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Session ID is required")
		return
	}

	if err := h.repo.DeactivateSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Session not found")
			return
		}
		log.Printf("delete session %s: %v", sessionID, err)
		writeJSONError(w, http.StatusInternalServerError, "delete_session_failed", "Failed to delete session")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Session deleted")
}
