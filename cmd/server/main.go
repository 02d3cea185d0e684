package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/cartcompare/backend/config"
	httpDelivery "github.com/cartcompare/backend/internal/delivery/http"
	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/infrastructure/cache"
	"github.com/cartcompare/backend/internal/infrastructure/storefront"
	"github.com/cartcompare/backend/internal/usecase"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting cartcompare backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache type: %s", cfg.Cache.Type)
	log.Printf("Storefront backend: %s", cfg.Storefront.BaseURL)

	// Initialize infrastructure dependencies
	var store domain.CacheStore
	if cfg.Cache.Type == "postgres" {
		pgStore, err := cache.NewPostgresStore(context.Background(), cfg.Cache.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect cache store: %v", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		store = cache.NewMemoryStore()
	}

	client := storefront.NewClient(cfg.Storefront.BaseURL)
	sweeper := cache.NewSweeper(store, nil)

	// Initialize usecase layer
	policy := usecase.ThrottlePolicy{
		ChunkSize:  cfg.Throttle.ChunkSize,
		ChunkDelay: cfg.Throttle.ChunkDelay,
		ShopDelay:  cfg.Throttle.ShopDelay,
	}
	metrics := usecase.NewMetrics()
	fetcher := usecase.NewFetchService(store, client, policy, metrics, nil)
	aggregator := usecase.NewAggregationService(client, fetcher, sweeper, policy, metrics)
	settings := usecase.NewSettingsService(store)

	log.Printf("Throttle: chunk=%d, chunk delay=%s, shop delay=%s",
		policy.ChunkSize, policy.ChunkDelay, policy.ShopDelay)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(aggregator, settings, cfg.Storefront)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, metrics.Registry)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
