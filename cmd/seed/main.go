// seed is a one-shot tool that loads demo catalogue data into an empty
// database: a few products and locations, opening stock through the
// inventory engine, and a handful of sales. It refuses to run against a
// database that already holds products.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"

	"stockledger/internal/cache"
	"stockledger/internal/core"
	"stockledger/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		log.Fatalf("Failed to count products: %v", err)
	}
	if existing > 0 {
		log.Fatalf("Refusing to seed: database already has %d products", existing)
	}

	c := cache.New(ctx)
	defer c.Close()

	products := core.NewProductService(pool, c)
	locations := core.NewLocationService(pool, c)
	inventory := core.NewInventoryService(pool, c)
	sales := core.NewSalesService(pool, inventory, c)

	log.Println("Creating products...")
	productInputs := []core.ProductInput{
		{Name: "Espresso Blend 1kg", Description: "Dark roast whole beans", Price: decimal.NewFromFloat(18.50), Cost: decimal.NewFromFloat(9.20), Brand: "Monsoon", Category: "coffee"},
		{Name: "Filter Roast 500g", Description: "Medium roast ground", Price: decimal.NewFromFloat(11.00), Cost: decimal.NewFromFloat(5.40), Brand: "Monsoon", Category: "coffee"},
		{Name: "Ceramic Dripper", Description: "V-shaped pour-over cone", Price: decimal.NewFromFloat(24.00), Cost: decimal.NewFromFloat(12.75), Brand: "Kalita", Category: "equipment"},
	}
	createdProducts := make([]*core.Product, 0, len(productInputs))
	for _, input := range productInputs {
		p, err := products.CreateProduct(ctx, input)
		if err != nil {
			log.Fatalf("Failed to create product %q: %v", input.Name, err)
		}
		createdProducts = append(createdProducts, p)
	}

	log.Println("Creating locations...")
	locationInputs := []core.LocationInput{
		{Name: "Downtown Store", Address: "12 Harbor St", ContactPerson: "Mina Osei", Phone: "555-0101", Email: "downtown@example.com", CommissionRate: decimal.NewFromFloat(0.05)},
		{Name: "Airport Kiosk", Address: "Terminal 2, Gate B", ContactPerson: "Leo Tran", Phone: "555-0102", Email: "airport@example.com", CommissionRate: decimal.NewFromFloat(0.08)},
	}
	createdLocations := make([]*core.Location, 0, len(locationInputs))
	for _, input := range locationInputs {
		l, err := locations.CreateLocation(ctx, input)
		if err != nil {
			log.Fatalf("Failed to create location %q: %v", input.Name, err)
		}
		createdLocations = append(createdLocations, l)
	}

	log.Println("Stocking locations...")
	for _, p := range createdProducts {
		for i, l := range createdLocations {
			qty := 40 - 15*i
			if err := inventory.Adjust(ctx, p.ID, l.ID, qty, true, "initial stock"); err != nil {
				log.Fatalf("Failed to stock product %d at location %d: %v", p.ID, l.ID, err)
			}
		}
	}

	log.Println("Recording demo sales...")
	demoSales := []struct {
		product  *core.Product
		location *core.Location
		quantity int
	}{
		{createdProducts[0], createdLocations[0], 3},
		{createdProducts[1], createdLocations[0], 5},
		{createdProducts[2], createdLocations[1], 1},
	}
	for _, ds := range demoSales {
		if _, err := sales.CreateSale(ctx, ds.product.ID, ds.location.ID, ds.quantity, ds.product.Price); err != nil {
			log.Fatalf("Failed to create sale for product %d: %v", ds.product.ID, err)
		}
	}

	log.Println("Seed complete.")
}
