package main

import (
	"context"
	"log"
	"route-dashboard/internal/adapters/cache"
	"route-dashboard/internal/config"
	"route-dashboard/internal/platform/db"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool prepares a shared Postgres path cache so several dashboard instances can reuse routed geometry.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Initializing path cache schema...")
	if err := cache.InitSchema(ctx, conn, db.Postgres); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
