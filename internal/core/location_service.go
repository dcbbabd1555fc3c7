package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockledger/internal/cache"
)

// LocationService manages distribution centers.
type LocationService interface {
	CreateLocation(ctx context.Context, input LocationInput) (*Location, error)
	GetLocations(ctx context.Context) ([]Location, error)
	GetLocation(ctx context.Context, id int) (*Location, error)
	UpdateLocation(ctx context.Context, id int, input LocationInput) (*Location, error)
	// DeleteLocation removes the location and cascades its inventory,
	// sales and log rows.
	DeleteLocation(ctx context.Context, id int) (bool, error)
}

type locationService struct {
	pool  *pgxpool.Pool
	cache *cache.Cache
}

func NewLocationService(pool *pgxpool.Pool, c *cache.Cache) LocationService {
	return &locationService{pool: pool, cache: c}
}

func (s *locationService) CreateLocation(ctx context.Context, input LocationInput) (*Location, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: location name is required", ErrValidation)
	}
	if input.CommissionRate.IsNegative() {
		return nil, fmt.Errorf("%w: commission rate cannot be negative, got %s", ErrValidation, input.CommissionRate)
	}

	l := &Location{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO locations (name, address, contact_person, phone, email, commission_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, address, contact_person, phone, email, commission_rate, created_at, updated_at
	`, input.Name, input.Address, input.ContactPerson, input.Phone, input.Email, input.CommissionRate).Scan(
		&l.ID, &l.Name, &l.Address, &l.ContactPerson, &l.Phone, &l.Email,
		&l.CommissionRate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, classifyStore("create location", err)
	}

	s.cache.Invalidate(ctx, cache.KeyLocations)
	return l, nil
}

func (s *locationService) GetLocations(ctx context.Context) ([]Location, error) {
	var cached []Location
	if s.cache.GetJSON(ctx, cache.KeyLocations, &cached) {
		return cached, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, address, contact_person, phone, email, commission_rate, created_at, updated_at
		FROM locations
		ORDER BY name
	`)
	if err != nil {
		return nil, classifyStore("query locations", err)
	}
	defer rows.Close()

	locations := make([]Location, 0)
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.ContactPerson, &l.Phone, &l.Email,
			&l.CommissionRate, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStore("iterate locations", err)
	}

	s.cache.SetJSON(ctx, cache.KeyLocations, locations, masterDataCacheTTL)
	return locations, nil
}

func (s *locationService) GetLocation(ctx context.Context, id int) (*Location, error) {
	l := &Location{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, address, contact_person, phone, email, commission_rate, created_at, updated_at
		FROM locations
		WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.Address, &l.ContactPerson, &l.Phone, &l.Email,
		&l.CommissionRate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: location %d", ErrNotFound, id)
		}
		return nil, classifyStore("fetch location", err)
	}
	return l, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, id int, input LocationInput) (*Location, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: location name is required", ErrValidation)
	}
	if input.CommissionRate.IsNegative() {
		return nil, fmt.Errorf("%w: commission rate cannot be negative, got %s", ErrValidation, input.CommissionRate)
	}

	l := &Location{}
	err := s.pool.QueryRow(ctx, `
		UPDATE locations
		SET name = $1, address = $2, contact_person = $3, phone = $4,
		    email = $5, commission_rate = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id, name, address, contact_person, phone, email, commission_rate, created_at, updated_at
	`, input.Name, input.Address, input.ContactPerson, input.Phone,
		input.Email, input.CommissionRate, id).Scan(
		&l.ID, &l.Name, &l.Address, &l.ContactPerson, &l.Phone, &l.Email,
		&l.CommissionRate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: location %d", ErrNotFound, id)
		}
		return nil, classifyStore("update location", err)
	}

	s.cache.Invalidate(ctx, cache.KeyLocations)
	return l, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, id int) (bool, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM locations WHERE id = $1", id)
	if err != nil {
		return false, classifyStore("delete location", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	s.cache.Invalidate(ctx, cache.KeyLocations, cache.KeyInventory, cache.KeyProducts)
	return true, nil
}
