package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"dealerchat/internal/interfaces"
	"dealerchat/internal/middleware"
	"dealerchat/internal/models"
	"dealerchat/internal/services"
)

type AdHandler struct {
	repo      interfaces.AdRepository
	creatives *services.CreativeStore
	validator *validator.Validate
}

// NewAdHandler builds the handler; creatives may be nil when S3 is not
// configured, in which case uploads answer 503.
func NewAdHandler(repo interfaces.AdRepository, creatives *services.CreativeStore) *AdHandler {
	return &AdHandler{
		repo:      repo,
		creatives: creatives,
		validator: validator.New(),
	}
}

// ListAds handles GET /api/v1/ads?customer_id=
// @Tags Ads
// @Summary List launched ads
// @Security BearerAuth
// @Produce json
// @Router /api/v1/ads [get]
func (h *AdHandler) ListAds(w http.ResponseWriter, r *http.Request) {
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
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	ads, err := h.repo.ListByCustomer(r.Context(), customerID, limit, offset)
	if err != nil {
		log.Printf("list ads for %s: %v", customerID, err)
		writeJSONError(w, http.StatusInternalServerError, "list_ads_failed", "Failed to list ads")
		return
	}
	if ads == nil {
		ads = []models.Ad{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ads": ads})
}

// GetAd handles GET /api/v1/ads/{id}
// @Tags Ads
// @Summary Fetch one ad
// @Security BearerAuth
// @Produce json
// @Router /api/v1/ads/{id} [get]
func (h *AdHandler) GetAd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Ad ID is required")
		return
	}

	ad, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Ad not found")
			return
		}
		log.Printf("get ad %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "get_ad_failed", "Failed to fetch ad")
		return
	}

	writeJSON(w, http.StatusOK, ad)
}

// UpdateAd handles PATCH /api/v1/ads/{id}
// @Tags Ads
// @Summary Update ad status
// @Security BearerAuth
// @Accept json
// @Produce json
// @Router /api/v1/ads/{id} [patch]
func (h *AdHandler) UpdateAd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Ad ID is required")
		return
	}

	var req models.UpdateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.Status == nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "status is required")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, models.AdStatus(*req.Status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Ad not found")
			return
		}
		log.Printf("update ad %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "update_ad_failed", "Failed to update ad")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Ad updated")
}

// UploadCreative handles POST /api/v1/ads/{id}/creative
// @Tags Ads
// @Summary Attach a creative image to an ad
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Creative image"
// @Router /api/v1/ads/{id}/creative [post]
func (h *AdHandler) UploadCreative(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Ad ID is required")
		return
	}
	if h.creatives == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "uploads_disabled", "Creative uploads are not configured")
		return
	}

	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Ad not found")
			return
		}
		log.Printf("validate ad %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "upload_failed", "Failed to validate ad")
		return
	}

	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Unsupported file type")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("creatives/%s/%s%s", id, uuid.NewString(), ext)
	url, err := h.creatives.Upload(r.Context(), key, file, contentType)
	if err != nil {
		log.Printf("upload creative for ad %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "upload_failed", "Failed to upload creative")
		return
	}

	if err := h.repo.SetCreativeURL(r.Context(), id, url); err != nil {
		log.Printf("set creative url for ad %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "upload_failed", "Failed to save creative URL")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"creative_url": url})
}
