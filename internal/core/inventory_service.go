package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockledger/internal/cache"
)

// inventoryCacheTTL bounds staleness when an invalidation is lost between
// commit and the cache call.
const inventoryCacheTTL = 5 * time.Minute

// InventoryService applies signed quantity deltas to per-(product, location)
// inventory records and appends the operation log. It is the only writer of
// inventory.current_quantity and products.stock; everything else reads.
type InventoryService interface {
	// Adjust applies a delta in its own transaction. A record is created on
	// the first addition with initial_quantity = quantity; subtracting with
	// no prior record is ErrNotFound. A subtract that would go negative is
	// ErrInsufficientStock and nothing is written.
	Adjust(ctx context.Context, productID, locationID, quantity int, isAddition bool, reason string) error

	// AdjustTx is the tx-scoped variant used by the sales engine so the
	// sale row, the inventory delta, the product aggregate, and the log
	// entry commit or roll back together.
	AdjustTx(ctx context.Context, tx pgx.Tx, productID, locationID, quantity int, isAddition bool, op OperationType, reason string) error

	// GetInventory returns every inventory record, cache first.
	GetInventory(ctx context.Context) ([]InventoryRecord, error)

	// GetRecord returns the record for one (product, location) pair, or
	// ErrNotFound.
	GetRecord(ctx context.Context, productID, locationID int) (*InventoryRecord, error)
}

type inventoryService struct {
	pool  *pgxpool.Pool
	cache *cache.Cache
}

func NewInventoryService(pool *pgxpool.Pool, c *cache.Cache) InventoryService {
	return &inventoryService{pool: pool, cache: c}
}

func (s *inventoryService) Adjust(ctx context.Context, productID, locationID, quantity int, isAddition bool, reason string) error {
	op := OpSubtract
	if isAddition {
		op = OpAdd
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return classifyStore("begin adjustment", err)
	}
	defer tx.Rollback(ctx)

	if err := s.AdjustTx(ctx, tx, productID, locationID, quantity, isAddition, op, reason); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyStore("commit adjustment", err)
	}

	// Cache invalidation is outside the transaction boundary: a crash here
	// leaves a stale entry until TTL expiry, never an inconsistent ledger.
	s.cache.Invalidate(ctx, cache.KeyInventory, cache.KeyProducts)
	return nil
}

func (s *inventoryService) AdjustTx(ctx context.Context, tx pgx.Tx, productID, locationID, quantity int, isAddition bool, op OperationType, reason string) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: adjustment quantity must be positive, got %d", ErrValidation, quantity)
	}
	if reason == "" {
		if isAddition {
			reason = "stock added"
		} else {
			reason = "stock removed"
		}
	}

	delta := quantity
	if !isAddition {
		delta = -quantity
	}

	// Lock the record before the availability check so two concurrent
	// decrements on the same key serialize and cannot both pass.
	var current int
	err := tx.QueryRow(ctx, `
		SELECT current_quantity
		FROM inventory
		WHERE product_id = $1 AND location_id = $2
		FOR UPDATE
	`, productID, locationID).Scan(&current)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if !isAddition {
			return fmt.Errorf("%w: no inventory record for product %d at location %d", ErrNotFound, productID, locationID)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO inventory (product_id, location_id, initial_quantity, current_quantity)
			VALUES ($1, $2, $3, $3)
		`, productID, locationID, quantity); err != nil {
			return classifyStore("create inventory record", err)
		}
	case err != nil:
		return classifyStore("lock inventory record", err)
	default:
		if !isAddition && current-quantity < 0 {
			return fmt.Errorf("%w: product %d at location %d has %d, requested %d",
				ErrInsufficientStock, productID, locationID, current, quantity)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE inventory
			SET current_quantity = current_quantity + $1, last_updated = NOW()
			WHERE product_id = $2 AND location_id = $3
		`, delta, productID, locationID); err != nil {
			return classifyStore("update inventory record", err)
		}
	}

	// The product aggregate moves with the record, in the same transaction.
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, productID)
	if err != nil {
		return classifyStore("update product aggregate", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, productID)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory_log (product_id, location_id, quantity, operation_type, reason)
		VALUES ($1, $2, $3, $4, $5)
	`, productID, locationID, quantity, op, reason); err != nil {
		return classifyStore("append operation log", err)
	}
	return nil
}

func (s *inventoryService) GetInventory(ctx context.Context) ([]InventoryRecord, error) {
	var cached []InventoryRecord
	if s.cache.GetJSON(ctx, cache.KeyInventory, &cached) {
		return cached, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, location_id, initial_quantity, current_quantity, last_updated
		FROM inventory
		ORDER BY product_id, location_id
	`)
	if err != nil {
		return nil, classifyStore("query inventory", err)
	}
	defer rows.Close()

	records := make([]InventoryRecord, 0)
	for rows.Next() {
		var r InventoryRecord
		if err := rows.Scan(&r.ID, &r.ProductID, &r.LocationID, &r.InitialQuantity, &r.CurrentQuantity, &r.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate inventory", err)
	}

	s.cache.SetJSON(ctx, cache.KeyInventory, records, inventoryCacheTTL)
	return records, nil
}

func (s *inventoryService) GetRecord(ctx context.Context, productID, locationID int) (*InventoryRecord, error) {
	var r InventoryRecord
	err := s.pool.QueryRow(ctx, `
		SELECT id, product_id, location_id, initial_quantity, current_quantity, last_updated
		FROM inventory
		WHERE product_id = $1 AND location_id = $2
	`, productID, locationID).Scan(&r.ID, &r.ProductID, &r.LocationID, &r.InitialQuantity, &r.CurrentQuantity, &r.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no inventory record for product %d at location %d", ErrNotFound, productID, locationID)
		}
		return nil, classifyStore("fetch inventory record", err)
	}
	return &r, nil
}
