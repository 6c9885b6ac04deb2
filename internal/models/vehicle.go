// internal/models/vehicle.go
package models

import "time"

type Vehicle struct {
	ID            string    `json:"id"`
	StockNumber   string    `json:"stock_number" validate:"required"`
	VIN           string    `json:"vin,omitempty"`
	Year          int       `json:"year" validate:"required,gte=1950"`
	Make          string    `json:"make" validate:"required"`
	Model         string    `json:"model" validate:"required"`
	Trim          string    `json:"trim,omitempty"`
	BodyStyle     string    `json:"body_style,omitempty"`
	ExteriorColor string    `json:"exterior_color,omitempty"`
	Price         float64   `json:"price"`
	Mileage       int       `json:"mileage"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateVehicleRequest struct {
	StockNumber   string  `json:"stock_number" validate:"required"`
	VIN           string  `json:"vin"`
	Year          int     `json:"year" validate:"required,gte=1950"`
	Make          string  `json:"make" validate:"required"`
	Model         string  `json:"model" validate:"required"`
	Trim          string  `json:"trim"`
	BodyStyle     string  `json:"body_style"`
	ExteriorColor string  `json:"exterior_color"`
	Price         float64 `json:"price" validate:"gte=0"`
	Mileage       int     `json:"mileage" validate:"gte=0"`
	ImageURL      string  `json:"image_url"`
}
