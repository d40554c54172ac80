package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// SQLite backed cache of routed paths.
// Keys are expected to be normalized by the caller (see routing.WaypointKey).
type SqlitePathCache struct {
	DB *sql.DB
}

func NewSqlitePathCache(db *sql.DB) *SqlitePathCache {
	return &SqlitePathCache{DB: db}
}

// Fetch the cached path for a waypoint key.
func (s *SqlitePathCache) Get(ctx context.Context, key string) (orb.LineString, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("path cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get path cache: key must not be empty")
	}

	var geometry string
	err := s.DB.QueryRowContext(ctx, `
	SELECT geometry
	FROM path_cache
	WHERE waypoint_key = ?;
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
func (s *SqlitePathCache) Put(ctx context.Context, key string, path orb.LineString) error {
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
	INSERT OR REPLACE INTO path_cache (waypoint_key, geometry, created_at)
	VALUES (?, ?, CURRENT_TIMESTAMP);
	`, key, geometry); err != nil {
		return fmt.Errorf("insert path cache key=%q: %w", key, err)
	}

	return nil
}
