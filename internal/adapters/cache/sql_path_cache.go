package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-dashboard/internal/platform/obs"
	"strings"

	"github.com/paulmach/orb"
)

// SQLPathCache is a Postgres-backed cache of routed paths.
type SQLPathCache struct {
	DB *sql.DB
}

func NewSQLPathCache(db *sql.DB) *SQLPathCache {
	return &SQLPathCache{DB: db}
}

// Fetch the cached path for a waypoint key.
func (s *SQLPathCache) Get(ctx context.Context, key string) (_ orb.LineString, _ bool, err error) {
	defer obs.Time(ctx, "path.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("path cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get path cache: key must not be empty")
	}

	var geometry string
	err = s.DB.QueryRowContext(ctx, `
	SELECT geometry
	FROM path_cache
	WHERE waypoint_key = $1;
	`, key).Scan(&geometry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get path cache: query path_cache table: %w", err)
	}

	path, err := decodePath(geometry)
	if err != nil {
		return nil, false, fmt.Errorf("get path cache key=%q: %w", key, err)
	}
	return path, true, nil
}

// Store a path, replacing any previous entry for the key.
func (s *SQLPathCache) Put(ctx context.Context, key string, path orb.LineString) error {
	if s.DB == nil {
		return errors.New("path cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert path cache: empty waypoint key")
	}

	geometry, err := encodePath(path)
	if err != nil {
		return fmt.Errorf("insert path cache: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO path_cache (waypoint_key, geometry)
	VALUES ($1, $2)
	ON CONFLICT (waypoint_key) DO UPDATE
	SET geometry = EXCLUDED.geometry,
		created_at = now();
	`, key, geometry); err != nil {
		return fmt.Errorf("insert path cache key=%q: %w", key, err)
	}

	return nil
}
