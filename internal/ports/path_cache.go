package ports

import (
	"context"

	"github.com/paulmach/orb"
)

// Persistent store of previously computed paths, keyed by a normalized waypoint key.
type PathCache interface {
	// Return the cached path for key; ok is false on a miss.
	Get(ctx context.Context, key string) (path orb.LineString, ok bool, err error)
	Put(ctx context.Context, key string, path orb.LineString) error
}
