package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	defaultTileAttribution = `&copy; <a href="http://osm.org/copyright">OpenStreetMap</a> contributors`
)

// Config holds all configuration for the dashboard server.
type Config struct {
	Port            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	// Route optimization backend
	BackendURL     string
	BackendTimeout time.Duration

	// Map
	OSRMURL         string
	OSRMProfile     string
	TileURL         string
	TileAttribution string

	// Path cache
	CacheDBPath   string
	DatabaseURL   string
	RedisURL      string
	PathCacheTTL  time.Duration
	PathCacheSize int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:            Get("PORT", "8080"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigins:  getList("ALLOWED_ORIGINS", []string{"*"}),

		BackendURL:     strings.TrimRight(Get("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 30*time.Second),

		OSRMURL:         strings.TrimRight(Get("OSRM_URL", "https://router.project-osrm.org/route/v1"), "/"),
		OSRMProfile:     Get("OSRM_PROFILE", "driving"),
		TileURL:         Get("TILE_URL", defaultTileURL),
		TileAttribution: Get("TILE_ATTRIBUTION", defaultTileAttribution),

		CacheDBPath:   Get("CACHE_DB_PATH", "data/paths.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		PathCacheTTL:  getDuration("PATH_CACHE_TTL", 24*time.Hour),
		PathCacheSize: getInt("PATH_CACHE_SIZE", 256),
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int key=%s value=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid duration key=%s value=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
