package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"dealerchat/internal/interfaces"
	"dealerchat/internal/models"
)

func newConvRepoWithMock(t *testing.T) (interfaces.ConversationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	return NewConversationRepository(db), mock, func() { db.Close() }
}

func TestLoadWizardStateReturnsNilWhenAbsent(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT step, ad_type").
		WithArgs("sess-1").
		WillReturnError(sql.ErrNoRows)

	state, err := repo.LoadWizardState(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state, got %+v", state)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLoadWizardStateDecodesRow(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"step", "ad_type", "selected_vehicle", "budget", "targeting", "ad_copy",
		"is_complete", "is_preview_mode", "version",
	}).AddRow(
		int(models.StepTargetingAge), "single",
		`{"stock_number":"PA51344","year":2022,"make":"Ford","model":"Explorer"}`,
		`{"amount":50,"type":"daily"}`,
		`{"locations":["Philadelphia"]}`,
		`{}`,
		0, 0, 3,
	)
	mock.ExpectQuery("SELECT step, ad_type").
		WithArgs("sess-1").
		WillReturnRows(rows)

	state, err := repo.LoadWizardState(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Step != models.StepTargetingAge || state.AdType != models.AdTypeSingle {
		t.Fatalf("state: got %+v", state)
	}
	if state.SelectedVehicle == nil || state.SelectedVehicle.StockNumber != "PA51344" {
		t.Fatalf("selected vehicle: got %+v", state.SelectedVehicle)
	}
	if state.Budget.Amount != 50 || state.Budget.Type != models.BudgetTypeDaily {
		t.Fatalf("budget: got %+v", state.Budget)
	}
	if state.Version != 3 {
		t.Fatalf("version: got %d", state.Version)
	}
}

func TestSaveWizardStateInsertsFirstVersion(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO wizard_states").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))

	saved, err := repo.SaveWizardState(context.Background(), "sess-1", "cust-1",
		models.WizardState{Step: models.StepAdType})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Version != 1 {
		t.Fatalf("version: got %d want 1", saved.Version)
	}
}

func TestSaveWizardStateInsertConflict(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	// ON CONFLICT DO NOTHING returns no row when the session already has
	// state.
	mock.ExpectQuery("INSERT INTO wizard_states").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SaveWizardState(context.Background(), "sess-1", "cust-1",
		models.WizardState{Step: models.StepAdType})
	if !errors.Is(err, interfaces.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestSaveWizardStateUpdateBumpsVersion(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery("UPDATE wizard_states").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))

	saved, err := repo.SaveWizardState(context.Background(), "sess-1", "cust-1",
		models.WizardState{Step: models.StepBudget, Version: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Version != 3 {
		t.Fatalf("version: got %d want 3", saved.Version)
	}
}

func TestSaveWizardStateUpdateConflict(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery("UPDATE wizard_states").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SaveWizardState(context.Background(), "sess-1", "cust-1",
		models.WizardState{Step: models.StepBudget, Version: 2})
	if !errors.Is(err, interfaces.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestGetOrCreateSessionFallsThroughToCreate(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, customer_id").
		WithArgs("gone-session").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO conversation_sessions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	session, err := repo.GetOrCreateSession(context.Background(), "cust-1", "gone-session")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID == "" || session.ID == "gone-session" {
		t.Fatalf("expected a fresh session id, got %q", session.ID)
	}
	if session.CustomerID != "cust-1" || !session.IsActive {
		t.Fatalf("session: got %+v", session)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetOrCreateSessionReturnsExisting(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT id, customer_id").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "title", "created_at", "last_updated", "is_active"}).
			AddRow("sess-1", "cust-1", "Red Explorer Ad", now, now, true))

	session, err := repo.GetOrCreateSession(context.Background(), "cust-1", "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID != "sess-1" || session.Title != "Red Explorer Ad" {
		t.Fatalf("session: got %+v", session)
	}
}

func TestDeactivateSessionMissing(t *testing.T) {
	repo, mock, cleanup := newConvRepoWithMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE conversation_sessions SET is_active").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeactivateSession(context.Background(), "nope"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
