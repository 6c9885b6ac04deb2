package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"dealerchat/internal/interfaces"
	"dealerchat/internal/models"
)

type adRepository struct {
	db *sql.DB
}

func NewAdRepository(db *sql.DB) interfaces.AdRepository {
	return &adRepository{db: db}
}

func (r *adRepository) Create(ctx context.Context, ad *models.Ad) error {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	if ad.Status == "" {
		ad.Status = models.AdStatusLaunched
	}

	budgetJSON, err := json.Marshal(ad.Budget)
	if err != nil {
		return fmt.Errorf("failed to encode budget: %w", err)
	}
	targetingJSON, err := json.Marshal(ad.Targeting)
	if err != nil {
		return fmt.Errorf("failed to encode targeting: %w", err)
	}
	adCopyJSON, err := json.Marshal(ad.AdCopy)
	if err != nil {
		return fmt.Errorf("failed to encode ad copy: %w", err)
	}

	query := `
		INSERT INTO ads (
			id, session_id, customer_id, ad_type, vehicle_stock, budget,
			targeting, ad_copy, destination, creative_url, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		ad.ID, ad.SessionID, ad.CustomerID, string(ad.AdType), ad.VehicleStock,
		string(budgetJSON), string(targetingJSON), string(adCopyJSON),
		string(ad.Destination), ad.CreativeURL, string(ad.Status),
	).Scan(&ad.CreatedAt, &ad.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

const adColumns = `id, session_id, customer_id, ad_type, COALESCE(vehicle_stock, ''),
	budget, targeting, ad_copy, COALESCE(destination, ''),
	COALESCE(creative_url, ''), status, created_at, updated_at`

func scanAd(row interface{ Scan(...any) error }) (models.Ad, error) {
	var (
		ad            models.Ad
		adType        string
		budgetJSON    string
		targetingJSON string
		adCopyJSON    string
		destination   string
		status        string
	)
	err := row.Scan(
		&ad.ID, &ad.SessionID, &ad.CustomerID, &adType, &ad.VehicleStock,
		&budgetJSON, &targetingJSON, &adCopyJSON, &destination,
		&ad.CreativeURL, &status, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return ad, err
	}

	ad.AdType = models.AdType(adType)
	ad.Destination = models.AdDestination(destination)
	ad.Status = models.AdStatus(status)
	if err := json.Unmarshal([]byte(budgetJSON), &ad.Budget); err != nil {
		return ad, fmt.Errorf("failed to decode budget: %w", err)
	}
	if err := json.Unmarshal([]byte(targetingJSON), &ad.Targeting); err != nil {
		return ad, fmt.Errorf("failed to decode targeting: %w", err)
	}
	if err := json.Unmarshal([]byte(adCopyJSON), &ad.AdCopy); err != nil {
		return ad, fmt.Errorf("failed to decode ad copy: %w", err)
	}
	return ad, nil
}

func (r *adRepository) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	query := "SELECT " + adColumns + " FROM ads WHERE id = $1"

	ad, err := scanAd(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to fetch ad %s: %w", id, err)
	}
	return &ad, nil
}

func (r *adRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]models.Ad, error) {
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT " + adColumns + ` FROM ads
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	defer rows.Close()

	var ads []models.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

func (r *adRepository) UpdateStatus(ctx context.Context, id string, status models.AdStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ads SET status = $2, updated_at = NOW() WHERE id = $1",
		id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update ad status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *adRepository) SetCreativeURL(ctx context.Context, id string, url string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ads SET creative_url = $2, updated_at = NOW() WHERE id = $1",
		id, url)
	if err != nil {
		return fmt.Errorf("failed to set creative url: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
