package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// ProductDistributionRow is one inventory record joined with the identity of
// the location holding it.
type ProductDistributionRow struct {
	ProductID       int       `json:"product_id"`
	LocationID      int       `json:"location_id"`
	InitialQuantity int       `json:"initial_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
	LastUpdated     time.Time `json:"last_updated"`
	LocationName    string    `json:"location_name"`
	LocationAddress string    `json:"location_address"`
	LocationContact string    `json:"location_contact"`
}

// LocationInventoryRow is one inventory record joined with product identity.
type LocationInventoryRow struct {
	ProductID       int             `json:"product_id"`
	LocationID      int             `json:"location_id"`
	InitialQuantity int             `json:"initial_quantity"`
	CurrentQuantity int             `json:"current_quantity"`
	LastUpdated     time.Time       `json:"last_updated"`
	ProductName     string          `json:"product_name"`
	ProductBrand    string          `json:"product_brand"`
	ProductCategory string          `json:"product_category"`
	ProductPrice    decimal.Decimal `json:"product_price"`
}

// LocationSalesRow is one sale joined with product identity.
// Total = Quantity × Price.
type LocationSalesRow struct {
	SaleID          int             `json:"sale_id"`
	ProductID       int             `json:"product_id"`
	LocationID      int             `json:"location_id"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	SaleDate        time.Time       `json:"sale_date"`
	ProductName     string          `json:"product_name"`
	ProductBrand    string          `json:"product_brand"`
	ProductCategory string          `json:"product_category"`
	Total           decimal.Decimal `json:"total"`
}

// OperationLogRow is one log entry joined with product and location names.
type OperationLogRow struct {
	ID            int           `json:"id"`
	ProductID     int           `json:"product_id"`
	LocationID    int           `json:"location_id"`
	Quantity      int           `json:"quantity"`
	OperationType OperationType `json:"operation_type"`
	Reason        string        `json:"reason"`
	CreatedAt     time.Time     `json:"created_at"`
	ProductName   string        `json:"product_name"`
	LocationName  string        `json:"location_name"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService is read-only: plain joins under the store's default read
// isolation, no locks, no side effects. "No rows" is an empty slice, never
// nil or an error.
type ReportingService interface {
	// ProductInventoryReport returns the distribution of one product
	// across all locations.
	ProductInventoryReport(ctx context.Context, productID int) ([]ProductDistributionRow, error)

	// LocationInventoryReport returns all inventory held at one location.
	LocationInventoryReport(ctx context.Context, locationID int) ([]LocationInventoryRow, error)

	// LocationSalesReport returns sales at a location, newest first.
	// startDate and endDate are optional inclusive YYYY-MM-DD bounds; pass
	// empty strings for no bound. Either bound may be set independently.
	LocationSalesReport(ctx context.Context, locationID int, startDate, endDate string) ([]LocationSalesRow, error)

	// OperationLog returns log entries newest first, optionally filtered
	// by product and/or location (nil = no filter).
	OperationLog(ctx context.Context, productID, locationID *int) ([]OperationLogRow, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) ProductInventoryReport(ctx context.Context, productID int) ([]ProductDistributionRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.product_id, i.location_id, i.initial_quantity, i.current_quantity, i.last_updated,
		       l.name, l.address, l.contact_person
		FROM inventory i
		JOIN locations l ON l.id = i.location_id
		WHERE i.product_id = $1
		ORDER BY l.name
	`, productID)
	if err != nil {
		return nil, classifyStore("query product inventory report", err)
	}
	defer rows.Close()

	report := make([]ProductDistributionRow, 0)
	for rows.Next() {
		var r ProductDistributionRow
		if err := rows.Scan(&r.ProductID, &r.LocationID, &r.InitialQuantity, &r.CurrentQuantity,
			&r.LastUpdated, &r.LocationName, &r.LocationAddress, &r.LocationContact); err != nil {
			return nil, fmt.Errorf("scan product inventory row: %w", err)
		}
		report = append(report, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate product inventory report", err)
	}
	return report, nil
}

func (s *reportingService) LocationInventoryReport(ctx context.Context, locationID int) ([]LocationInventoryRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.product_id, i.location_id, i.initial_quantity, i.current_quantity, i.last_updated,
		       p.name, p.brand, p.category, p.price
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.location_id = $1
		ORDER BY p.name
	`, locationID)
	if err != nil {
		return nil, classifyStore("query location inventory report", err)
	}
	defer rows.Close()

	report := make([]LocationInventoryRow, 0)
	for rows.Next() {
		var r LocationInventoryRow
		if err := rows.Scan(&r.ProductID, &r.LocationID, &r.InitialQuantity, &r.CurrentQuantity,
			&r.LastUpdated, &r.ProductName, &r.ProductBrand, &r.ProductCategory, &r.ProductPrice); err != nil {
			return nil, fmt.Errorf("scan location inventory row: %w", err)
		}
		report = append(report, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate location inventory report", err)
	}
	return report, nil
}

func (s *reportingService) LocationSalesReport(ctx context.Context, locationID int, startDate, endDate string) ([]LocationSalesRow, error) {
	q := `
		SELECT s.id, s.product_id, s.location_id, s.quantity, s.price, s.sale_date,
		       p.name, p.brand, p.category
		FROM sales s
		JOIN products p ON p.id = s.product_id
		WHERE s.location_id = $1`

	args := []any{locationID}
	if startDate != "" {
		args = append(args, startDate)
		q += fmt.Sprintf(" AND s.sale_date::date >= $%d::date", len(args))
	}
	if endDate != "" {
		args = append(args, endDate)
		q += fmt.Sprintf(" AND s.sale_date::date <= $%d::date", len(args))
	}
	q += " ORDER BY s.sale_date DESC, s.id DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, classifyStore("query location sales report", err)
	}
	defer rows.Close()

	report := make([]LocationSalesRow, 0)
	for rows.Next() {
		var r LocationSalesRow
		if err := rows.Scan(&r.SaleID, &r.ProductID, &r.LocationID, &r.Quantity, &r.Price,
			&r.SaleDate, &r.ProductName, &r.ProductBrand, &r.ProductCategory); err != nil {
			return nil, fmt.Errorf("scan location sales row: %w", err)
		}
		r.Total = r.Price.Mul(decimal.NewFromInt(int64(r.Quantity)))
		report = append(report, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate location sales report", err)
	}
	return report, nil
}

func (s *reportingService) OperationLog(ctx context.Context, productID, locationID *int) ([]OperationLogRow, error) {
	q := `
		SELECT g.id, g.product_id, g.location_id, g.quantity, g.operation_type, g.reason, g.created_at,
		       p.name, l.name
		FROM inventory_log g
		JOIN products p  ON p.id = g.product_id
		JOIN locations l ON l.id = g.location_id`

	var args []any
	if productID != nil {
		args = append(args, *productID)
		q += fmt.Sprintf(" WHERE g.product_id = $%d", len(args))
	}
	if locationID != nil {
		args = append(args, *locationID)
		if productID != nil {
			q += fmt.Sprintf(" AND g.location_id = $%d", len(args))
		} else {
			q += fmt.Sprintf(" WHERE g.location_id = $%d", len(args))
		}
	}
	q += " ORDER BY g.created_at DESC, g.id DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, classifyStore("query operation log", err)
	}
	defer rows.Close()

	entries := make([]OperationLogRow, 0)
	for rows.Next() {
		var r OperationLogRow
		if err := rows.Scan(&r.ID, &r.ProductID, &r.LocationID, &r.Quantity, &r.OperationType,
			&r.Reason, &r.CreatedAt, &r.ProductName, &r.LocationName); err != nil {
			return nil, fmt.Errorf("scan operation log row: %w", err)
		}
		entries = append(entries, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate operation log", err)
	}
	return entries, nil
}
