package ports

import (
	"context"
	"route-dashboard/internal/domain"
)

// Port: the backend that runs route optimization for a scenario.
type RouteSource interface {
	// Return the locations, routes and statistics computed for a mode.
	FetchRoutes(ctx context.Context, mode domain.Mode) (domain.RouteData, error)
}
