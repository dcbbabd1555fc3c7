package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType classifies an inventory_log entry.
type OperationType string

const (
	OpAdd      OperationType = "add"
	OpSubtract OperationType = "subtract"
	OpSale     OperationType = "sale"
	OpReturn   OperationType = "return"
)

// Product is a catalogue item. Stock is the aggregate quantity across all
// locations, maintained incrementally by the inventory engine. It is never
// written by master-data updates.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductInput carries the caller-writable product fields. Stock is absent
// deliberately: the aggregate moves only through sale and adjustment
// transactions.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// Location is a distribution center holding per-product inventory.
// CommissionRate is a reporting input only; the ledger invariants ignore it.
type Location struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	ContactPerson  string          `json:"contact_person"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type LocationInput struct {
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	ContactPerson  string          `json:"contact_person"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// InventoryRecord is the per-(product, location) stock counter. At most one
// record exists per pair. InitialQuantity is set when the record is created
// by the first addition and never changes afterwards; CurrentQuantity moves
// on every adjustment and must never be committed negative.
type InventoryRecord struct {
	ID              int       `json:"id"`
	ProductID       int       `json:"product_id"`
	LocationID      int       `json:"location_id"`
	InitialQuantity int       `json:"initial_quantity"`
	CurrentQuantity int       `json:"current_quantity"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Sale is immutable once created; reversal deletes the row and restores the
// stock it consumed.
type Sale struct {
	ID         int             `json:"id"`
	ProductID  int             `json:"product_id"`
	LocationID int             `json:"location_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	SaleDate   time.Time       `json:"sale_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LogEntry is one row of the append-only operation log. Entries are audit
// history, never a source of truth for current quantities, and are never
// updated or deleted: a reversal appends a `return` entry rather than
// removing the original `sale` entry.
type LogEntry struct {
	ID            int           `json:"id"`
	ProductID     int           `json:"product_id"`
	LocationID    int           `json:"location_id"`
	Quantity      int           `json:"quantity"`
	OperationType OperationType `json:"operation_type"`
	Reason        string        `json:"reason"`
	CreatedAt     time.Time     `json:"created_at"`
}
