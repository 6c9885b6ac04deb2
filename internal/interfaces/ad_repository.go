// internal/interfaces/ad_repository.go
package interfaces

import (
	"context"

	"dealerchat/internal/models"
)

type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id string) (*models.Ad, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]models.Ad, error)
	UpdateStatus(ctx context.Context, id string, status models.AdStatus) error
	SetCreativeURL(ctx context.Context, id string, url string) error
}
