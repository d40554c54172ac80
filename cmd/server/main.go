package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"route-dashboard/internal/adapters/backend"
	"route-dashboard/internal/adapters/cache"
	"route-dashboard/internal/adapters/routing"
	"route-dashboard/internal/api"
	"route-dashboard/internal/api/handlers"
	"route-dashboard/internal/config"
	"route-dashboard/internal/controller"
	"route-dashboard/internal/dashboard"
	"route-dashboard/internal/domain"
	"route-dashboard/internal/platform/db"
	"route-dashboard/internal/platform/obs"
	"route-dashboard/internal/ports"
	"route-dashboard/internal/render/mapview"
	"route-dashboard/internal/store"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (backend client, OSRM, path cache) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pathCache, closeCache, err := openPathCache(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	// OSRM provider keeps an in-memory LRU in front of the persistent path cache.
	provider, err := routing.NewOSRMPathProvider(cfg.OSRMURL, cfg.OSRMProfile,
		routing.WithPathCache(pathCache),
		routing.WithMemoSize(cfg.PathCacheSize),
	)
	if err != nil {
		log.Fatal(err)
	}

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		log.Fatal(err)
	}

	st := store.New()
	ctrl := controller.New(ctx, client, st)
	maps := mapview.NewRenderer(mapview.TileLayer{URL: cfg.TileURL, Attribution: cfg.TileAttribution}, provider)
	dash := dashboard.New(st, ctrl, maps)

	renderDone := make(chan struct{})
	go func() {
		defer close(renderDone)
		dash.Run(ctx)
	}()

	hub := handlers.NewHub(dash, cfg.AllowedOrigins)
	go hub.Run(ctx)

	// Initial load in normal mode; the page shows the loading overlay until it lands.
	go func() {
		loadCtx := obs.WithRequestID(ctx, "")
		if err := dash.Load(loadCtx, domain.ModeNormal); err != nil && !errors.Is(err, controller.ErrBusy) {
			log.Printf("initial load failed: backend=%s err=%v", cfg.BackendURL, err)
		}
	}()

	router := api.NewRouter(dash, client, hub, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s backend=%s osrm=%s", cfg.Port, cfg.BackendURL, cfg.OSRMURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	cancel()
	ctrl.Wait()
	<-renderDone
	log.Println("Server stopped")
}

// openPathCache picks Redis, then Postgres, then the local SQLite file.
func openPathCache(ctx context.Context, cfg *config.Config) (ports.PathCache, func(), error) {
	switch {
	case cfg.RedisURL != "":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open path cache: parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("open path cache: ping redis: %w", err)
		}
		log.Printf("path cache: backend=redis ttl=%s", cfg.PathCacheTTL)
		return cache.NewRedisPathCache(client, cfg.PathCacheTTL), func() { client.Close() }, nil

	case cfg.DatabaseURL != "":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open path cache: %w", err)
		}
		if err := cache.InitSchema(ctx, conn, db.Postgres); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open path cache: %w", err)
		}
		log.Println("path cache: backend=postgres")
		return cache.NewSQLPathCache(conn), func() { conn.Close() }, nil

	default:
		if dir := filepath.Dir(cfg.CacheDBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("open path cache: create %q: %w", dir, err)
			}
		}
		conn, err := db.OpenSQLite(cfg.CacheDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open path cache: %w", err)
		}
		if err := cache.InitSchema(ctx, conn, db.SQLite); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open path cache: %w", err)
		}
		log.Printf("path cache: backend=sqlite path=%s", cfg.CacheDBPath)
		return cache.NewSqlitePathCache(conn), func() { conn.Close() }, nil
	}
}
