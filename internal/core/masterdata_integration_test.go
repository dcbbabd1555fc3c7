package core_test

import (
	"context"
	"errors"
	"testing"

	"stockledger/internal/core"

	"github.com/shopspring/decimal"
)

func TestProducts_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	products := core.NewProductService(pool, noCache())

	created, err := products.CreateProduct(ctx, core.ProductInput{
		Name:     "Grinder",
		Price:    decimal.NewFromFloat(79.90),
		Cost:     decimal.NewFromFloat(41.00),
		Brand:    "Baratza",
		Category: "equipment",
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if created.Stock != 0 {
		t.Errorf("Expected new product stock 0, got %d", created.Stock)
	}

	fetched, err := products.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if fetched.Name != "Grinder" || !fetched.Price.Equal(decimal.NewFromFloat(79.90)) {
		t.Errorf("Fetched product mismatch: %s/%s", fetched.Name, fetched.Price)
	}

	updated, err := products.UpdateProduct(ctx, created.ID, core.ProductInput{
		Name:     "Grinder Pro",
		Price:    decimal.NewFromFloat(89.90),
		Cost:     decimal.NewFromFloat(41.00),
		Brand:    "Baratza",
		Category: "equipment",
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Name != "Grinder Pro" {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}

	deleted, err := products.DeleteProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if !deleted {
		t.Error("Expected deleted=true")
	}

	if _, err := products.GetProduct(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if deleted, err := products.DeleteProduct(ctx, created.ID); err != nil || deleted {
		t.Errorf("Expected deleted=false for missing product, got %v/%v", deleted, err)
	}
}

func TestProducts_UpdateDoesNotTouchStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, _ := seedCatalog(t, ctx, pool)

	products := core.NewProductService(pool, noCache())
	invSvc := core.NewInventoryService(pool, noCache())

	if err := invSvc.Adjust(ctx, productID, locA, 12, true, ""); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}

	updated, err := products.UpdateProduct(ctx, productID, core.ProductInput{
		Name:  "Widget v2",
		Price: decimal.NewFromFloat(27.00),
		Cost:  decimal.NewFromFloat(10.00),
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Stock != 12 {
		t.Errorf("Expected stock untouched at 12 after master-data update, got %d", updated.Stock)
	}
}

func TestProducts_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	products := core.NewProductService(pool, noCache())

	cases := []core.ProductInput{
		{Name: "", Price: decimal.NewFromInt(1), Cost: decimal.NewFromInt(1)},
		{Name: "X", Price: decimal.NewFromInt(-1), Cost: decimal.NewFromInt(1)},
		{Name: "X", Price: decimal.NewFromInt(1), Cost: decimal.NewFromInt(-1)},
	}
	for i, input := range cases {
		if _, err := products.CreateProduct(ctx, input); !errors.Is(err, core.ErrValidation) {
			t.Errorf("Case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestProducts_DeleteCascades(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, _ := seedCatalog(t, ctx, pool)

	products := core.NewProductService(pool, noCache())
	invSvc := core.NewInventoryService(pool, noCache())
	salesSvc := core.NewSalesService(pool, invSvc, noCache())

	if err := invSvc.Adjust(ctx, productID, locA, 10, true, ""); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	if _, err := salesSvc.CreateSale(ctx, productID, locA, 2, decimal.NewFromFloat(25.00)); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	if _, err := products.DeleteProduct(ctx, productID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	for _, table := range []string{"inventory", "sales", "inventory_log"} {
		var n int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" WHERE product_id = $1", productID).Scan(&n); err != nil {
			t.Fatalf("Failed to count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("Expected %s rows cascaded away, found %d", table, n)
		}
	}
}

func TestLocations_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	locations := core.NewLocationService(pool, noCache())

	created, err := locations.CreateLocation(ctx, core.LocationInput{
		Name:           "Harbor Kiosk",
		Address:        "Pier 4",
		ContactPerson:  "Ada",
		CommissionRate: decimal.NewFromFloat(6.5),
	})
	if err != nil {
		t.Fatalf("CreateLocation failed: %v", err)
	}

	updated, err := locations.UpdateLocation(ctx, created.ID, core.LocationInput{
		Name:           "Harbor Kiosk",
		Address:        "Pier 5",
		ContactPerson:  "Ada",
		CommissionRate: decimal.NewFromFloat(7.0),
	})
	if err != nil {
		t.Fatalf("UpdateLocation failed: %v", err)
	}
	if updated.Address != "Pier 5" || !updated.CommissionRate.Equal(decimal.NewFromFloat(7.0)) {
		t.Errorf("Update mismatch: %s/%s", updated.Address, updated.CommissionRate)
	}

	all, err := locations.GetLocations(ctx)
	if err != nil {
		t.Fatalf("GetLocations failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 location, got %d", len(all))
	}

	if _, err := locations.CreateLocation(ctx, core.LocationInput{Name: ""}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation for empty name, got %v", err)
	}
	if _, err := locations.CreateLocation(ctx, core.LocationInput{Name: "X", CommissionRate: decimal.NewFromInt(-1)}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Expected ErrValidation for negative commission, got %v", err)
	}

	deleted, err := locations.DeleteLocation(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteLocation failed: %v/%v", deleted, err)
	}
	if _, err := locations.GetLocation(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestLocations_DeleteCascades(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, _ := seedCatalog(t, ctx, pool)

	locations := core.NewLocationService(pool, noCache())
	invSvc := core.NewInventoryService(pool, noCache())

	if err := invSvc.Adjust(ctx, productID, locA, 10, true, ""); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}

	if _, err := locations.DeleteLocation(ctx, locA); err != nil {
		t.Fatalf("DeleteLocation failed: %v", err)
	}

	if _, err := invSvc.GetRecord(ctx, productID, locA); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected inventory record cascaded away, got %v", err)
	}
}
