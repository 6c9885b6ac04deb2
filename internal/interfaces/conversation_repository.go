// internal/interfaces/conversation_repository.go
package interfaces

import (
	"context"
	"errors"

	"dealerchat/internal/models"
)

// ErrVersionConflict is returned by SaveWizardState when the stored row has
// moved past the version the caller loaded.
var ErrVersionConflict = errors.New("wizard state version conflict")

type ConversationRepository interface {
	// GetOrCreateSession resolves sessionID for the customer, creating a new
	// session when sessionID is empty or unknown.
	GetOrCreateSession(ctx context.Context, customerID, sessionID string) (*models.ConversationSession, error)

	// LoadWizardState returns nil when no state has been persisted yet.
	LoadWizardState(ctx context.Context, sessionID string) (*models.WizardState, error)

	// SaveWizardState upserts the state keyed by sessionID. The write is
	// rejected with ErrVersionConflict unless state.Version matches the
	// stored row (or the row does not exist and Version is zero). On success
	// the returned state carries the bumped version.
	SaveWizardState(ctx context.Context, sessionID, customerID string, state models.WizardState) (models.WizardState, error)

	AddMessage(ctx context.Context, msg *models.ConversationMessage) error
	GetConversationHistory(ctx context.Context, sessionID string, limit int) ([]models.ConversationMessage, error)

	ListSessions(ctx context.Context, customerID string, limit int) ([]models.ConversationSession, error)
	UpdateSessionTitle(ctx context.Context, sessionID, title string) error
	// DeactivateSession soft-deletes the session; the wizard state expires
	// with it.
	DeactivateSession(ctx context.Context, sessionID string) error
}
