package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-dashboard/internal/platform/db"
)

// InitSchema creates the path cache table for the given dialect.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	createdAt := "TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP"
	if dialect == db.Postgres {
		createdAt = "TIMESTAMPTZ NOT NULL DEFAULT now()"
	}

	createPathCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS path_cache (
		waypoint_key TEXT PRIMARY KEY,
		geometry TEXT NOT NULL,
		created_at %s
	);
	`, createdAt)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_path_cache_created_at
	ON path_cache(created_at);
	`

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{createPathCacheQuery, createIndexQuery} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
