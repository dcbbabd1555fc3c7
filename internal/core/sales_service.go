package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"stockledger/internal/cache"
)

// SalesService creates and reverses sales. Every mutation runs as one store
// transaction covering the sale row, the inventory delta, the product
// aggregate, and the log entry; either all of them commit or none do.
type SalesService interface {
	// CreateSale records a sale and decrements stock at the location.
	// Unknown product/location or a non-positive quantity is ErrValidation;
	// a missing inventory record or current_quantity < quantity is
	// ErrInsufficientStock.
	CreateSale(ctx context.Context, productID, locationID, quantity int, price decimal.Decimal) (*Sale, error)

	// ReverseSale deletes a sale and restores the stock it consumed.
	// Create-then-reverse is a no-op on current_quantity and the product
	// aggregate; the log keeps both the `sale` and the `return` entry.
	ReverseSale(ctx context.Context, saleID int) (bool, error)

	// GetSales returns all sales, newest first.
	GetSales(ctx context.Context) ([]Sale, error)
}

type salesService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
	cache     *cache.Cache
}

func NewSalesService(pool *pgxpool.Pool, inventory InventoryService, c *cache.Cache) SalesService {
	return &salesService{pool: pool, inventory: inventory, cache: c}
}

func (s *salesService) CreateSale(ctx context.Context, productID, locationID, quantity int, price decimal.Decimal) (*Sale, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: sale quantity must be positive, got %d", ErrValidation, quantity)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: sale price cannot be negative, got %s", ErrValidation, price)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, classifyStore("begin sale", err)
	}
	defer tx.Rollback(ctx)

	// Referenced entities must exist before anything is written.
	var exists int
	if err := tx.QueryRow(ctx, "SELECT id FROM products WHERE id = $1", productID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d does not exist", ErrValidation, productID)
		}
		return nil, classifyStore("resolve product", err)
	}
	if err := tx.QueryRow(ctx, "SELECT id FROM locations WHERE id = $1", locationID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: location %d does not exist", ErrValidation, locationID)
		}
		return nil, classifyStore("resolve location", err)
	}

	// Availability check under a row lock; the lock is held until commit so
	// a concurrent sale on the same key waits here and re-reads the
	// decremented quantity.
	var current int
	err = tx.QueryRow(ctx, `
		SELECT current_quantity
		FROM inventory
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE
	`, productID, locationID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d has no inventory at location %d", ErrInsufficientStock, productID, locationID)
		}
		return nil, classifyStore("lock inventory record", err)
	}
	if current < quantity {
		return nil, fmt.Errorf("%w: product %d at location %d has %d, requested %d",
			ErrInsufficientStock, productID, locationID, current, quantity)
	}

	sale := &Sale{ProductID: productID, LocationID: locationID, Quantity: quantity, Price: price}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (product_id, location_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sale_date, created_at
	`, productID, locationID, quantity, price).Scan(&sale.ID, &sale.SaleDate, &sale.CreatedAt)
	if err != nil {
		return nil, classifyStore("insert sale", err)
	}

	if err := s.inventory.AdjustTx(ctx, tx, productID, locationID, quantity, false, OpSale, "sale"); err != nil {
		return nil, fmt.Errorf("apply sale to inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyStore("commit sale", err)
	}

	s.cache.Invalidate(ctx, cache.KeyInventory, cache.KeyProducts)
	return sale, nil
}

func (s *salesService) ReverseSale(ctx context.Context, saleID int) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, classifyStore("begin sale reversal", err)
	}
	defer tx.Rollback(ctx)

	var productID, locationID, quantity int
	err = tx.QueryRow(ctx, `
		SELECT product_id, location_id, quantity
		FROM sales
		WHERE id = $1
		FOR UPDATE
	`, saleID).Scan(&productID, &locationID, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%w: sale %d", ErrNotFound, saleID)
		}
		return false, classifyStore("fetch sale", err)
	}

	if err := s.inventory.AdjustTx(ctx, tx, productID, locationID, quantity, true, OpReturn, "sale reversal"); err != nil {
		return false, fmt.Errorf("restore inventory for sale %d: %w", saleID, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sales WHERE id = $1", saleID); err != nil {
		return false, classifyStore("delete sale", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, classifyStore("commit sale reversal", err)
	}

	s.cache.Invalidate(ctx, cache.KeyInventory, cache.KeyProducts)
	return true, nil
}

func (s *salesService) GetSales(ctx context.Context) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, location_id, quantity, price, sale_date, created_at
		FROM sales
		ORDER BY sale_date DESC, id DESC
	`)
	if err != nil {
		return nil, classifyStore("query sales", err)
	}
	defer rows.Close()

	sales := make([]Sale, 0)
	for rows.Next() {
		var sl Sale
		if err := rows.Scan(&sl.ID, &sl.ProductID, &sl.LocationID, &sl.Quantity, &sl.Price, &sl.SaleDate, &sl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate sales", err)
	}
	return sales, nil
}
