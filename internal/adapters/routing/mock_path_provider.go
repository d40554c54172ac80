package routing

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
)

// MockPathProvider serves fixed paths by waypoint key; unknown keys fall back to
// the straight line through the waypoints unless Strict is set.
type MockPathProvider struct {
	Strict bool

	mu    sync.Mutex
	paths map[string]orb.LineString
	calls int
}

func NewMockPathProvider(paths map[string]orb.LineString) *MockPathProvider {
	if paths == nil {
		paths = map[string]orb.LineString{}
	}
	return &MockPathProvider{paths: paths}
}

func (p *MockPathProvider) Path(ctx context.Context, waypoints []orb.Point) (orb.LineString, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	key := WaypointKey(waypoints)
	if ls, ok := p.paths[key]; ok {
		return ls, nil
	}
	if p.Strict {
		return nil, fmt.Errorf("missing path for %q", key)
	}
	return orb.LineString(append([]orb.Point(nil), waypoints...)), nil
}

// Calls reports how many times Path was invoked.
func (p *MockPathProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
