package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"dealerchat/internal/config"
	"dealerchat/internal/models"
	"dealerchat/internal/repository"
	"dealerchat/internal/services"
)

type AuthHandler struct {
	users  repository.UserRepository
	mailer services.EmailSender
	cfg    *config.Config
	v      *validator.Validate
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, mailer services.EmailSender) *AuthHandler {
	return &AuthHandler{
		users:  repository.NewUserRepository(db),
		mailer: mailer,
		cfg:    cfg,
		v:      validator.New(),
	}
}

// Signup handles POST /api/v1/auth/signup
// @Tags Auth
// @Summary Create a dealership account
// @Accept json
// @Produce json
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Failed to create account")
		return
	}

	u := &models.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		Name:           req.Name,
		DealershipName: req.DealershipName,
		PhoneNumber:    req.PhoneNumber,
		PasswordHash:   string(hash),
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			writeJSONError(w, http.StatusConflict, "email_taken", "An account with that email already exists")
			return
		}
		log.Printf("create user: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Failed to create account")
		return
	}

	// Welcome mail is best effort.
	if err := h.mailer.Send(u.Email,
		"Welcome to DealerChat",
		"Hi "+u.Name+",\n\nYour account for "+u.DealershipName+" is ready. Open the dashboard and say \"create ad\" to build your first campaign.\n"); err != nil {
		log.Printf("send welcome mail to %s: %v", u.Email, err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id": u.ID, "email": u.Email, "created_at": u.CreatedAt,
	})
}

// Login handles POST /api/v1/auth/login
// @Tags Auth
// @Summary Exchange credentials for an access token
// @Accept json
// @Produce json
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	expiresIn := h.cfg.JWTExpiresInSeconds
	if expiresIn <= 0 {
		expiresIn = 86400
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "login_failed", "Failed to login")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken:    signed,
		ExpiresIn:      expiresIn,
		Email:          u.Email,
		Name:           u.Name,
		DealershipName: u.DealershipName,
	})
}
