package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"dealerchat/internal/interfaces"
	"dealerchat/internal/models"
	"dealerchat/internal/nlquery"
)

type VehicleHandler struct {
	repo      interfaces.VehicleRepository
	validator *validator.Validate
}

func NewVehicleHandler(repo interfaces.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

// ListVehicles handles GET /api/v1/vehicles
// @Tags Vehicles
// @Summary List inventory
// @Security BearerAuth
// @Produce json
// @Router /api/v1/vehicles [get]
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	vehicles, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("list vehicles: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "list_vehicles_failed", "Failed to list vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

// SearchVehicles handles GET /api/v1/vehicles/search?q=
// Runs the same deterministic fast-path search the wizard uses.
// @Tags Vehicles
// @Summary Keyword inventory search
// @Security BearerAuth
// @Produce json
// @Router /api/v1/vehicles/search [get]
func (h *VehicleHandler) SearchVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "q is required")
		return
	}

	filter := nlquery.BuildVehicleFilter(q)
	if filter.IsEmpty() {
		writeJSON(w, http.StatusOK, map[string]any{"vehicles": []models.Vehicle{}})
		return
	}

	vehicles, err := h.repo.Search(r.Context(), filter)
	if err != nil {
		log.Printf("search vehicles %q: %v", q, err)
		writeJSONError(w, http.StatusInternalServerError, "search_failed", "Failed to search vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

// GetVehicle handles GET /api/v1/vehicles/{stockNumber}
// @Tags Vehicles
// @Summary Fetch one vehicle by stock number
// @Security BearerAuth
// @Produce json
// @Router /api/v1/vehicles/{stockNumber} [get]
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	stockNumber := chi.URLParam(r, "stockNumber")
	if stockNumber == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Stock number is required")
		return
	}

	vehicle, err := h.repo.GetByStockNumber(r.Context(), stockNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Vehicle not found")
			return
		}
		log.Printf("get vehicle %s: %v", stockNumber, err)
		writeJSONError(w, http.StatusInternalServerError, "get_vehicle_failed", "Failed to fetch vehicle")
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

// CreateVehicle handles POST /api/v1/vehicles
// @Tags Vehicles
// @Summary Add a vehicle to inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Router /api/v1/vehicles [post]
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	vehicle := &models.Vehicle{
		StockNumber:   req.StockNumber,
		VIN:           req.VIN,
		Year:          req.Year,
		Make:          req.Make,
		Model:         req.Model,
		Trim:          req.Trim,
		BodyStyle:     req.BodyStyle,
		ExteriorColor: req.ExteriorColor,
		Price:         req.Price,
		Mileage:       req.Mileage,
		ImageURL:      req.ImageURL,
	}

	if err := h.repo.Create(r.Context(), vehicle); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			writeJSONError(w, http.StatusConflict, "duplicate_stock_number", "A vehicle with that stock number already exists")
			return
		}
		log.Printf("create vehicle: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "create_vehicle_failed", "Failed to create vehicle")
		return
	}

	writeJSON(w, http.StatusCreated, vehicle)
}

// DeleteVehicle handles DELETE /api/v1/vehicles/{id}
// @Tags Vehicles
// @Summary Remove a vehicle
// @Security BearerAuth
// @Produce json
// @Router /api/v1/vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "validation_error", "Vehicle ID is required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Vehicle not found")
			return
		}
		log.Printf("delete vehicle %s: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "delete_vehicle_failed", "Failed to delete vehicle")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Vehicle deleted")
}
