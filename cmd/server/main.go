package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "stockledger/internal/adapters/web"
	"stockledger/internal/cache"
	"stockledger/internal/core"
	"stockledger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	c := cache.New(ctx)
	defer c.Close()

	inventoryService := core.NewInventoryService(pool, c)
	productService := core.NewProductService(pool, c)
	locationService := core.NewLocationService(pool, c)
	salesService := core.NewSalesService(pool, inventoryService, c)
	reportingService := core.NewReportingService(pool)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(productService, locationService, inventoryService, salesService, reportingService, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
