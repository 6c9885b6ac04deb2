package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"dealerchat/internal/interfaces"
)

var vehicleRowColumns = []string{
	"id", "stock_number", "vin", "year", "make", "model", "trim",
	"body_style", "exterior_color", "price", "mileage", "image_url", "created_at",
}

func newVehicleRepoWithMock(t *testing.T) (interfaces.VehicleRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	return NewVehicleRepository(db), mock, func() { db.Close() }
}

func TestGetByStockNumberNotFound(t *testing.T) {
	repo, mock, cleanup := newVehicleRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM vehicles WHERE stock_number").
		WithArgs("NOPE123").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByStockNumber(context.Background(), "NOPE123"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestSearchCombinesAttributeClauses(t *testing.T) {
	repo, mock, cleanup := newVehicleRepoWithMock(t)
	defer cleanup()

	// A color and a make/model term must both constrain the result set.
	pattern := `(?s)SELECT .+ FROM vehicles WHERE 1=1` +
		` AND \(LOWER\(exterior_color\) LIKE \$1\)` +
		` AND \(LOWER\(make\) LIKE \$2 OR LOWER\(model\) LIKE \$3\)` +
		` ORDER BY created_at DESC LIMIT \$4`

	rows := sqlmock.NewRows(vehicleRowColumns).
		AddRow("v1", "PA51344", "1FM5K8D84NGA00001", 2022, "Ford", "Explorer",
			"XLT", "SUV", "Red", 38995.0, 12000, "", time.Now())

	mock.ExpectQuery(pattern).
		WithArgs("%red%", "%explorer%", "%explorer%", 20).
		WillReturnRows(rows)

	results, err := repo.Search(context.Background(), interfaces.VehicleFilter{
		Colors: []string{"red"},
		Terms:  []string{"explorer"},
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].StockNumber != "PA51344" {
		t.Fatalf("results: got %+v", results)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearchDefaultsLimit(t *testing.T) {
	repo, mock, cleanup := newVehicleRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)FROM vehicles WHERE 1=1 AND \(LOWER\(body_style\) LIKE \$1\)`).
		WithArgs("%suv%", 20).
		WillReturnRows(sqlmock.NewRows(vehicleRowColumns))

	results, err := repo.Search(context.Background(), interfaces.VehicleFilter{
		BodyStyles: []string{"suv"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no rows, got %d", len(results))
	}
}

func TestExecuteSelectNormalizesByteValues(t *testing.T) {
	repo, mock, cleanup := newVehicleRepoWithMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT make, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"make", "count"}).
			AddRow([]byte("Ford"), int64(7)))

	rows, err := repo.ExecuteSelect(context.Background(),
		"SELECT make, COUNT(*) FROM vehicles GROUP BY make ORDER BY COUNT(*) DESC LIMIT 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: got %d", len(rows))
	}
	if got, ok := rows[0]["make"].(string); !ok || got != "Ford" {
		t.Fatalf("make column not normalized to string: %#v", rows[0]["make"])
	}
	if got, ok := rows[0]["count"].(int64); !ok || got != 7 {
		t.Fatalf("count column: %#v", rows[0]["count"])
	}
}

func TestDeleteMissingVehicle(t *testing.T) {
	repo, mock, cleanup := newVehicleRepoWithMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM vehicles").
		WithArgs("missing-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing-id"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
