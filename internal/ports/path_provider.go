package ports

import (
	"context"

	"github.com/paulmach/orb"
)

// Contract for turning an ordered waypoint list into a road-following path.
type PathProvider interface {
	// Return the path through the waypoints as [lon, lat] points.
	Path(ctx context.Context, waypoints []orb.Point) (orb.LineString, error)
}
