package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"dealerchat/internal/ai"
	"dealerchat/internal/config"
)

type noopLLM struct{}

func (noopLLM) Complete(ctx context.Context, system, user string) (string, error) {
	return "", nil
}

func (noopLLM) Chat(ctx context.Context, msgs []ai.Message) (string, error) {
	return "", nil
}

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}

	cfg := &config.Config{
		Port:        "8080",
		Environment: "test",
		JWTSecret:   "test-secret",
	}
	router := SetupRoutes(db, cfg, &config.S3Config{}, noopLLM{})
	return router, mock, func() { db.Close() }
}

func TestRootBanner(t *testing.T) {
	router, _, cleanup := newTestRouter(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "dealerchat api" {
		t.Fatalf("banner: got %q", body["message"])
	}
}

func TestHealthOK(t *testing.T) {
	router, mock, cleanup := newTestRouter(t)
	defer cleanup()

	mock.ExpectPing()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		DB     struct {
			Status string `json:"status"`
		} `json:"db"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "ok" || body.DB.Status != "ok" {
		t.Fatalf("health: got %+v", body)
	}
}

func TestHealthDegradedWhenDBDown(t *testing.T) {
	router, mock, cleanup := newTestRouter(t)
	defer cleanup()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d want 503", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		DB     struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"db"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "degraded" || body.DB.Error == "" {
		t.Fatalf("health: got %+v", body)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router, _, cleanup := newTestRouter(t)
	defer cleanup()

	paths := []string{"/api/v1/vehicles", "/api/v1/sessions", "/api/v1/ads"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: got %d want 401", path, rec.Code)
		}
	}
}
