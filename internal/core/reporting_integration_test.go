package core_test

import (
	"context"
	"testing"

	"stockledger/internal/core"

	"github.com/shopspring/decimal"
)

func TestReporting_ProductInventoryReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, locB := seedCatalog(t, ctx, pool)

	invSvc := core.NewInventoryService(pool, noCache())
	reports := core.NewReportingService(pool)

	if err := invSvc.Adjust(ctx, productID, locA, 10, true, ""); err != nil {
		t.Fatalf("Adjust at A failed: %v", err)
	}
	if err := invSvc.Adjust(ctx, productID, locB, 5, true, ""); err != nil {
		t.Fatalf("Adjust at B failed: %v", err)
	}

	rows, err := reports.ProductInventoryReport(ctx, productID)
	if err != nil {
		t.Fatalf("ProductInventoryReport failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	// Ordered by location name: Alpha Store then Beta Store.
	if rows[0].LocationName != "Alpha Store" || rows[0].CurrentQuantity != 10 {
		t.Errorf("Row 0: expected Alpha Store/10, got %s/%d", rows[0].LocationName, rows[0].CurrentQuantity)
	}
	if rows[1].LocationName != "Beta Store" || rows[1].CurrentQuantity != 5 {
		t.Errorf("Row 1: expected Beta Store/5, got %s/%d", rows[1].LocationName, rows[1].CurrentQuantity)
	}
	if rows[0].LocationAddress != "1 First St" {
		t.Errorf("Expected joined address %q, got %q", "1 First St", rows[0].LocationAddress)
	}
}

func TestReporting_LocationInventoryReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, _ := seedCatalog(t, ctx, pool)

	invSvc := core.NewInventoryService(pool, noCache())
	reports := core.NewReportingService(pool)

	if err := invSvc.Adjust(ctx, productID, locA, 7, true, ""); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}

	rows, err := reports.LocationInventoryReport(ctx, locA)
	if err != nil {
		t.Fatalf("LocationInventoryReport failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].ProductName != "Widget" || rows[0].ProductBrand != "Acme" {
		t.Errorf("Expected joined product identity Widget/Acme, got %s/%s", rows[0].ProductName, rows[0].ProductBrand)
	}
	if !rows[0].ProductPrice.Equal(decimal.NewFromFloat(25.00)) {
		t.Errorf("Expected joined price 25.00, got %s", rows[0].ProductPrice)
	}
	if rows[0].CurrentQuantity != 7 {
		t.Errorf("Expected current_quantity 7, got %d", rows[0].CurrentQuantity)
	}
}

func TestReporting_LocationSalesReport_DateBounds(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, _ := seedCatalog(t, ctx, pool)
	reports := core.NewReportingService(pool)

	// Insert sales with controlled dates directly; the engine always stamps
	// NOW(), which this test cannot wait for.
	for _, s := range []struct {
		date string
		qty  int
	}{
		{"2026-08-01 09:00:00", 2},
		{"2026-08-15 12:30:00", 3},
		{"2026-08-28 17:45:00", 1},
	} {
		if _, err := pool.Exec(ctx, `
			INSERT INTO sales (product_id, location_id, quantity, price, sale_date)
			VALUES ($1, $2, $3, 25.00, $4)
		`, productID, locA, s.qty, s.date); err != nil {
			t.Fatalf("Failed to insert sale: %v", err)
		}
	}

	// Unbounded: all three, newest first.
	rows, err := reports.LocationSalesReport(ctx, locA, "", "")
	if err != nil {
		t.Fatalf("LocationSalesReport failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].Quantity != 1 || rows[2].Quantity != 2 {
		t.Errorf("Expected newest-first ordering (1, 3, 2), got (%d, %d, %d)",
			rows[0].Quantity, rows[1].Quantity, rows[2].Quantity)
	}
	if !rows[0].Total.Equal(decimal.NewFromFloat(25.00)) {
		t.Errorf("Expected total 25.00 for quantity 1, got %s", rows[0].Total)
	}
	if !rows[1].Total.Equal(decimal.NewFromFloat(75.00)) {
		t.Errorf("Expected total 75.00 for quantity 3, got %s", rows[1].Total)
	}

	// Bounds are inclusive on both ends.
	rows, err = reports.LocationSalesReport(ctx, locA, "2026-08-15", "2026-08-28")
	if err != nil {
		t.Fatalf("Bounded LocationSalesReport failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows in [2026-08-15, 2026-08-28], got %d", len(rows))
	}

	// A lone lower bound works too.
	rows, err = reports.LocationSalesReport(ctx, locA, "2026-08-16", "")
	if err != nil {
		t.Fatalf("Lower-bounded LocationSalesReport failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Quantity != 1 {
		t.Fatalf("Expected only the 2026-08-28 sale, got %d rows", len(rows))
	}
}

func TestReporting_OperationLogFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, locB := seedCatalog(t, ctx, pool)

	invSvc := core.NewInventoryService(pool, noCache())
	reports := core.NewReportingService(pool)

	if err := invSvc.Adjust(ctx, productID, locA, 10, true, ""); err != nil {
		t.Fatalf("Adjust at A failed: %v", err)
	}
	if err := invSvc.Adjust(ctx, productID, locB, 5, true, ""); err != nil {
		t.Fatalf("Adjust at B failed: %v", err)
	}
	if err := invSvc.Adjust(ctx, productID, locA, 2, false, "damaged"); err != nil {
		t.Fatalf("Subtract at A failed: %v", err)
	}

	// Unfiltered: all three entries, joined names present, newest first.
	entries, err := reports.OperationLog(ctx, nil, nil)
	if err != nil {
		t.Fatalf("OperationLog failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].OperationType != core.OpSubtract {
		t.Errorf("Expected newest entry to be the subtract, got %s", entries[0].OperationType)
	}
	if entries[0].ProductName != "Widget" || entries[0].LocationName != "Alpha Store" {
		t.Errorf("Expected joined names Widget/Alpha Store, got %s/%s", entries[0].ProductName, entries[0].LocationName)
	}

	// Location filter.
	entries, err = reports.OperationLog(ctx, nil, &locB)
	if err != nil {
		t.Fatalf("Filtered OperationLog failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Quantity != 5 {
		t.Fatalf("Expected only the location B add, got %d entries", len(entries))
	}

	// Combined filter.
	entries, err = reports.OperationLog(ctx, &productID, &locA)
	if err != nil {
		t.Fatalf("Combined-filter OperationLog failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries for (product, location A), got %d", len(entries))
	}
}

func TestReporting_EmptyResultsAreEmptySlices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	productID, locA, _ := seedCatalog(t, ctx, pool)
	reports := core.NewReportingService(pool)

	dist, err := reports.ProductInventoryReport(ctx, productID)
	if err != nil {
		t.Fatalf("ProductInventoryReport failed: %v", err)
	}
	if dist == nil || len(dist) != 0 {
		t.Errorf("Expected empty non-nil distribution report, got %v", dist)
	}

	sales, err := reports.LocationSalesReport(ctx, locA, "", "")
	if err != nil {
		t.Fatalf("LocationSalesReport failed: %v", err)
	}
	if sales == nil || len(sales) != 0 {
		t.Errorf("Expected empty non-nil sales report, got %v", sales)
	}

	logs, err := reports.OperationLog(ctx, nil, nil)
	if err != nil {
		t.Fatalf("OperationLog failed: %v", err)
	}
	if logs == nil || len(logs) != 0 {
		t.Errorf("Expected empty non-nil log, got %v", logs)
	}
}
