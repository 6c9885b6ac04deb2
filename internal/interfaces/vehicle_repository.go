// internal/interfaces/vehicle_repository.go
package interfaces

import (
	"context"

	"dealerchat/internal/models"
)

// VehicleFilter is the deterministic fast-path search input. Each non-empty
// field contributes one AND-combined clause; values inside a field are
// OR-combined. Terms match against make and model.
type VehicleFilter struct {
	Colors     []string
	BodyStyles []string
	Terms      []string
	Limit      int
}

// IsEmpty reports whether no clause would be generated.
func (f VehicleFilter) IsEmpty() bool {
	return len(f.Colors) == 0 && len(f.BodyStyles) == 0 && len(f.Terms) == 0
}

type VehicleRepository interface {
	Create(ctx context.Context, v *models.Vehicle) error
	GetByStockNumber(ctx context.Context, stockNumber string) (*models.Vehicle, error)
	List(ctx context.Context, limit, offset int) ([]models.Vehicle, error)
	Delete(ctx context.Context, id string) error

	// Search runs the parameterized fast-path inventory lookup.
	Search(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, error)

	// ExecuteSelect runs an already-guarded read-only SELECT produced by the
	// NL query engine and returns generic rows for summarization.
	ExecuteSelect(ctx context.Context, query string) ([]map[string]any, error)
}
