package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dealerchat/internal/interfaces"
	"dealerchat/internal/models"
)

type conversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) interfaces.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetOrCreateSession(ctx context.Context, customerID, sessionID string) (*models.ConversationSession, error) {
	if sessionID != "" {
		query := `
			SELECT id, customer_id, COALESCE(title, ''), created_at, last_updated, is_active
			FROM conversation_sessions
			WHERE id = $1 AND is_active = TRUE
		`
		var s models.ConversationSession
		err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
			&s.ID, &s.CustomerID, &s.Title, &s.CreatedAt, &s.LastUpdated, &s.IsActive,
		)
		if err == nil {
			return &s, nil
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		// Unknown or deactivated session id falls through to a fresh one.
	}

	now := time.Now().UTC()
	s := models.ConversationSession{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		CreatedAt:   now,
		LastUpdated: now,
		IsActive:    true,
	}

	query := `
		INSERT INTO conversation_sessions (id, customer_id, created_at, last_updated, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.CustomerID, s.CreatedAt, s.LastUpdated); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

func (r *conversationRepository) LoadWizardState(ctx context.Context, sessionID string) (*models.WizardState, error) {
	query := `
		SELECT step, ad_type, selected_vehicle, budget, targeting, ad_copy,
		       is_complete, is_preview_mode, version
		FROM wizard_states
		WHERE session_id = $1
	`

	var (
		state           models.WizardState
		adType          sql.NullString
		selectedVehicle sql.NullString
		budgetJSON      string
		targetingJSON   string
		adCopyJSON      string
		isComplete      int
		isPreviewMode   int
	)
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&state.Step, &adType, &selectedVehicle, &budgetJSON, &targetingJSON,
		&adCopyJSON, &isComplete, &isPreviewMode, &state.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load wizard state: %w", err)
	}

	state.AdType = models.AdType(adType.String)
	state.IsComplete = isComplete != 0
	state.IsPreviewMode = isPreviewMode != 0

	if selectedVehicle.Valid && selectedVehicle.String != "" {
		var v models.Vehicle
		if err := json.Unmarshal([]byte(selectedVehicle.String), &v); err != nil {
			return nil, fmt.Errorf("failed to decode selected vehicle: %w", err)
		}
		state.SelectedVehicle = &v
	}
	if err := json.Unmarshal([]byte(budgetJSON), &state.Budget); err != nil {
		return nil, fmt.Errorf("failed to decode budget: %w", err)
	}
	if err := json.Unmarshal([]byte(targetingJSON), &state.Targeting); err != nil {
		return nil, fmt.Errorf("failed to decode targeting: %w", err)
	}
	if err := json.Unmarshal([]byte(adCopyJSON), &state.AdCopy); err != nil {
		return nil, fmt.Errorf("failed to decode ad copy: %w", err)
	}

	return &state, nil
}

func (r *conversationRepository) SaveWizardState(ctx context.Context, sessionID, customerID string, state models.WizardState) (models.WizardState, error) {
	budgetJSON, err := json.Marshal(state.Budget)
	if err != nil {
		return state, fmt.Errorf("failed to encode budget: %w", err)
	}
	targetingJSON, err := json.Marshal(state.Targeting)
	if err != nil {
		return state, fmt.Errorf("failed to encode targeting: %w", err)
	}
	adCopyJSON, err := json.Marshal(state.AdCopy)
	if err != nil {
		return state, fmt.Errorf("failed to encode ad copy: %w", err)
	}

	var selectedVehicle sql.NullString
	if state.SelectedVehicle != nil {
		encoded, err := json.Marshal(state.SelectedVehicle)
		if err != nil {
			return state, fmt.Errorf("failed to encode selected vehicle: %w", err)
		}
		selectedVehicle = sql.NullString{String: string(encoded), Valid: true}
	}

	var adType sql.NullString
	if state.AdType != "" {
		adType = sql.NullString{String: string(state.AdType), Valid: true}
	}

	isComplete := 0
	if state.IsComplete {
		isComplete = 1
	}
	isPreviewMode := 0
	if state.IsPreviewMode {
		isPreviewMode = 1
	}

	if state.Version == 0 {
		query := `
			INSERT INTO wizard_states (
				session_id, customer_id, step, ad_type, selected_vehicle,
				budget, targeting, ad_copy, is_complete, is_preview_mode,
				version, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, NOW())
			ON CONFLICT (session_id) DO NOTHING
			RETURNING version
		`
		err := r.db.QueryRowContext(ctx, query,
			sessionID, customerID, int(state.Step), adType, selectedVehicle,
			string(budgetJSON), string(targetingJSON), string(adCopyJSON),
			isComplete, isPreviewMode,
		).Scan(&state.Version)
		if err != nil {
			if err == sql.ErrNoRows {
				// A row already exists, so the caller's state is stale.
				return state, interfaces.ErrVersionConflict
			}
			return state, fmt.Errorf("failed to insert wizard state: %w", err)
		}
		return state, nil
	}

	query := `
		UPDATE wizard_states
		SET step = $3, ad_type = $4, selected_vehicle = $5, budget = $6,
		    targeting = $7, ad_copy = $8, is_complete = $9,
		    is_preview_mode = $10, version = version + 1, updated_at = NOW()
		WHERE session_id = $1 AND version = $2
		RETURNING version
	`
	err = r.db.QueryRowContext(ctx, query,
		sessionID, state.Version, int(state.Step), adType, selectedVehicle,
		string(budgetJSON), string(targetingJSON), string(adCopyJSON),
		isComplete, isPreviewMode,
	).Scan(&state.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return state, interfaces.ErrVersionConflict
		}
		return state, fmt.Errorf("failed to update wizard state: %w", err)
	}
	return state, nil
}

func (r *conversationRepository) AddMessage(ctx context.Context, msg *models.ConversationMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	var metadata sql.NullString
	if msg.Metadata != "" {
		metadata = sql.NullString{String: msg.Metadata, Valid: true}
	}

	query := `
		INSERT INTO conversation_messages (id, session_id, customer_id, role, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.SessionID, msg.CustomerID, string(msg.Role), msg.Content, metadata, msg.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE conversation_sessions SET last_updated = NOW() WHERE id = $1", msg.SessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (r *conversationRepository) GetConversationHistory(ctx context.Context, sessionID string, limit int) ([]models.ConversationMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	// Last N messages, returned oldest first.
	query := `
		SELECT id, session_id, customer_id, role, content, COALESCE(metadata, ''), created_at
		FROM (
			SELECT id, session_id, customer_id, role, content, metadata, created_at
			FROM conversation_messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var messages []models.ConversationMessage
	for rows.Next() {
		var m models.ConversationMessage
		var role string
		if err := rows.Scan(&m.ID, &m.SessionID, &m.CustomerID, &role, &m.Content, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = models.MessageRole(role)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *conversationRepository) ListSessions(ctx context.Context, customerID string, limit int) ([]models.ConversationSession, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, customer_id, COALESCE(title, ''), created_at, last_updated, is_active
		FROM conversation_sessions
		WHERE customer_id = $1 AND is_active = TRUE
		ORDER BY last_updated DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ConversationSession
	for rows.Next() {
		var s models.ConversationSession
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.Title, &s.CreatedAt, &s.LastUpdated, &s.IsActive); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *conversationRepository) UpdateSessionTitle(ctx context.Context, sessionID, title string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE conversation_sessions SET title = $2, last_updated = NOW() WHERE id = $1",
		sessionID, title)
	if err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *conversationRepository) DeactivateSession(ctx context.Context, sessionID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE conversation_sessions SET is_active = FALSE, last_updated = NOW() WHERE id = $1",
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
