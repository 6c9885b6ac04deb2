package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dealerchat/internal/interfaces"
	"dealerchat/internal/models"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) interfaces.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, stock_number, COALESCE(vin, ''), year, make, model,
	COALESCE(trim, ''), COALESCE(body_style, ''), COALESCE(exterior_color, ''),
	price, mileage, COALESCE(image_url, ''), created_at`

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID, &v.StockNumber, &v.VIN, &v.Year, &v.Make, &v.Model,
		&v.Trim, &v.BodyStyle, &v.ExteriorColor, &v.Price, &v.Mileage,
		&v.ImageURL, &v.CreatedAt,
	)
	return v, err
}

func (r *vehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO vehicles (
			id, stock_number, vin, year, make, model, trim, body_style,
			exterior_color, price, mileage, image_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.StockNumber, v.VIN, v.Year, v.Make, v.Model, v.Trim,
		v.BodyStyle, v.ExteriorColor, v.Price, v.Mileage, v.ImageURL, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) GetByStockNumber(ctx context.Context, stockNumber string) (*models.Vehicle, error) {
	query := "SELECT " + vehicleColumns + " FROM vehicles WHERE stock_number = $1"

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, stockNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to fetch vehicle %s: %w", stockNumber, err)
	}
	return &v, nil
}

func (r *vehicleRepository) List(ctx context.Context, limit, offset int) ([]models.Vehicle, error) {
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT " + vehicleColumns + " FROM vehicles ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	return collectVehicles(rows)
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = $1", id)
	if err != nil {
		return err
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

// Search builds the fast-path WHERE clause from the recognized-keyword
// filter. Attributes combine with AND; values within one attribute combine
// with OR. Everything is parameterized.
func (r *vehicleRepository) Search(ctx context.Context, filter interfaces.VehicleFilter) ([]models.Vehicle, error) {
	query := "SELECT " + vehicleColumns + " FROM vehicles WHERE 1=1"

	var args []interface{}
	argPos := 1

	if len(filter.Colors) > 0 {
		var ors []string
		for _, color := range filter.Colors {
			ors = append(ors, fmt.Sprintf("LOWER(exterior_color) LIKE $%d", argPos))
			args = append(args, "%"+strings.ToLower(color)+"%")
			argPos++
		}
		query += " AND (" + strings.Join(ors, " OR ") + ")"
	}

	if len(filter.BodyStyles) > 0 {
		var ors []string
		for _, style := range filter.BodyStyles {
			ors = append(ors, fmt.Sprintf("LOWER(body_style) LIKE $%d", argPos))
			args = append(args, "%"+strings.ToLower(style)+"%")
			argPos++
		}
		query += " AND (" + strings.Join(ors, " OR ") + ")"
	}

	for _, term := range filter.Terms {
		query += fmt.Sprintf(" AND (LOWER(make) LIKE $%d OR LOWER(model) LIKE $%d)", argPos, argPos+1)
		like := "%" + strings.ToLower(term) + "%"
		args = append(args, like, like)
		argPos += 2
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argPos)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}
	defer rows.Close()

	return collectVehicles(rows)
}

// ExecuteSelect runs a guarded read-only SELECT and returns generic rows.
// The nlquery guard has already validated the statement; this method only
// executes it.
func (r *vehicleRepository) ExecuteSelect(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func collectVehicles(rows *sql.Rows) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
