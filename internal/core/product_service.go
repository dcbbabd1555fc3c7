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

const masterDataCacheTTL = 5 * time.Minute

// ProductService manages the product catalogue. It never writes
// products.stock: the aggregate belongs to the inventory engine.
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	GetProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	UpdateProduct(ctx context.Context, id int, input ProductInput) (*Product, error)
	// DeleteProduct removes the product and cascades its inventory, sales
	// and log rows.
	DeleteProduct(ctx context.Context, id int) (bool, error)
}

type productService struct {
	pool  *pgxpool.Pool
	cache *cache.Cache
}

func NewProductService(pool *pgxpool.Pool, c *cache.Cache) ProductService {
	return &productService{pool: pool, cache: c}
}

func validateProductInput(input ProductInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if input.Price.IsNegative() {
		return fmt.Errorf("%w: product price cannot be negative, got %s", ErrValidation, input.Price)
	}
	if input.Cost.IsNegative() {
		return fmt.Errorf("%w: product cost cannot be negative, got %s", ErrValidation, input.Cost)
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, cost, brand, category, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, description, price, cost, stock, brand, category, image, created_at, updated_at
	`, input.Name, input.Description, input.Price, input.Cost, input.Brand, input.Category, input.Image).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock,
		&p.Brand, &p.Category, &p.Image, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, classifyStore("create product", err)
	}

	s.cache.Invalidate(ctx, cache.KeyProducts)
	return p, nil
}

func (s *productService) GetProducts(ctx context.Context) ([]Product, error) {
	var cached []Product
	if s.cache.GetJSON(ctx, cache.KeyProducts, &cached) {
		return cached, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, price, cost, stock, brand, category, image, created_at, updated_at
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, classifyStore("query products", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock,
			&p.Brand, &p.Category, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate products", err)
	}

	s.cache.SetJSON(ctx, cache.KeyProducts, products, masterDataCacheTTL)
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int) (*Product, error) {
	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, price, cost, stock, brand, category, image, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock,
		&p.Brand, &p.Category, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, classifyStore("fetch product", err)
	}
	return p, nil
}

// UpdateProduct rewrites the caller-editable columns. Stock is absent from
// the SET list on purpose: callers adjusting quantities must go through the
// inventory engine, which also guards against negative balances.
func (s *productService) UpdateProduct(ctx context.Context, id int, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, cost = $4,
		    brand = $5, category = $6, image = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING id, name, description, price, cost, stock, brand, category, image, created_at, updated_at
	`, input.Name, input.Description, input.Price, input.Cost,
		input.Brand, input.Category, input.Image, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock,
		&p.Brand, &p.Category, &p.Image, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, classifyStore("update product", err)
	}

	s.cache.Invalidate(ctx, cache.KeyProducts)
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int) (bool, error) {
	// inventory, sales and inventory_log rows go with the product via
	// ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, classifyStore("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	s.cache.Invalidate(ctx, cache.KeyProducts, cache.KeyInventory)
	return true, nil
}
