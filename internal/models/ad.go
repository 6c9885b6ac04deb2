// internal/models/ad.go
package models

import "time"

type AdStatus string

const (
	AdStatusLaunched AdStatus = "launched"
	AdStatusPaused   AdStatus = "paused"
	AdStatusArchived AdStatus = "archived"
)

// Ad is the launched-campaign snapshot written when a wizard run completes.
type Ad struct {
	ID           string        `json:"id"`
	SessionID    string        `json:"session_id"`
	CustomerID   string        `json:"customer_id"`
	AdType       AdType        `json:"ad_type"`
	VehicleStock string        `json:"vehicle_stock,omitempty"`
	Budget       Budget        `json:"budget"`
	Targeting    Targeting     `json:"targeting"`
	AdCopy       AdCopy        `json:"ad_copy"`
	Destination  AdDestination `json:"destination"`
	CreativeURL  string        `json:"creative_url,omitempty"`
	Status       AdStatus      `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type UpdateAdRequest struct {
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=launched paused archived"`
}
