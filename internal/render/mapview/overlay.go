package mapview

import (
	"context"
	"log"
	"route-dashboard/internal/domain"
	"route-dashboard/internal/ports"
	"slices"
	"sync"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 4

// Overlay is one vehicle's route line on the map. It is acquired with its
// waypoints and color and must be released before it is replaced.
//
// The road path is looked up in the background; until it arrives the overlay
// draws the straight line through its waypoints.
type Overlay struct {
	Vehicle   int
	Color     string
	Waypoints []domain.Location

	// path and routed are written once, before done is closed.
	path     orb.LineString
	routed   bool
	done     chan struct{}
	cancel   context.CancelFunc
	released bool
}

// Path returns the drawn geometry and whether it came from the routing service
// (false means the straight waypoint line is drawn instead).
func (o *Overlay) Path() (orb.LineString, bool) {
	select {
	case <-o.done:
		return o.path, o.routed
	default:
		return o.straight(), false
	}
}

// Pending reports whether the path lookup is still running.
func (o *Overlay) Pending() bool {
	select {
	case <-o.done:
		return false
	default:
		return true
	}
}

func (o *Overlay) straight() orb.LineString {
	points := make(orb.LineString, 0, len(o.Waypoints))
	for _, w := range o.Waypoints {
		points = append(points, w.Point())
	}
	return points
}

func (o *Overlay) matches(waypoints []domain.Location, color string) bool {
	return o.Color == color && slices.Equal(o.Waypoints, waypoints)
}

func (o *Overlay) release() {
	if o.released {
		return
	}
	o.released = true
	o.cancel()
}

// OverlaySet tracks the route overlays currently on the map.
// Sync and Close must not be called concurrently with each other.
type OverlaySet struct {
	provider ports.PathProvider
	overlays []*Overlay

	lookups  sync.WaitGroup
	resolved chan struct{}

	mu       sync.Mutex
	acquired int
	released int
	routed   uint64
}

func NewOverlaySet(provider ports.PathProvider) *OverlaySet {
	return &OverlaySet{
		provider: provider,
		resolved: make(chan struct{}, 1),
	}
}

// Sync makes the overlays match routes: unchanged overlays are kept, changed
// ones are released and reacquired, surplus ones are released.
// It does not wait for path lookups; see Resolved.
func (s *OverlaySet) Sync(ctx context.Context, routes []domain.Route) []*Overlay {
	next := make([]*Overlay, len(routes))
	var fresh []*Overlay

	for i, route := range routes {
		color := domain.RouteColor(i)
		if i < len(s.overlays) && s.overlays[i].matches(route, color) {
			next[i] = s.overlays[i]
			continue
		}
		if i < len(s.overlays) {
			s.release(s.overlays[i])
		}

		o := &Overlay{Vehicle: i, Color: color, Waypoints: slices.Clone(route)}
		next[i] = o
		fresh = append(fresh, o)
	}
	for i := len(routes); i < len(s.overlays); i++ {
		s.release(s.overlays[i])
	}

	s.acquire(ctx, fresh)
	s.overlays = next
	return next
}

// Close releases every overlay and waits for cancelled lookups to return.
func (s *OverlaySet) Close() {
	for _, o := range s.overlays {
		s.release(o)
	}
	s.overlays = nil
	s.lookups.Wait()
}

// Resolved signals after a path lookup finished for an overlay that is still held.
// Signals coalesce.
func (s *OverlaySet) Resolved() <-chan struct{} { return s.resolved }

// Generation counts finished lookups; it changes whenever a held overlay's path may have changed.
func (s *OverlaySet) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routed
}

// Wait blocks until every started lookup has returned.
func (s *OverlaySet) Wait() { s.lookups.Wait() }

// Live returns the number of overlays currently held.
func (s *OverlaySet) Live() int { return len(s.overlays) }

// Counts returns how many overlays have been acquired and released in total.
func (s *OverlaySet) Counts() (acquired, released int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquired, s.released
}

func (s *OverlaySet) acquire(ctx context.Context, overlays []*Overlay) {
	type lookup struct {
		ctx context.Context
		o   *Overlay
	}
	var pending []lookup

	for _, o := range overlays {
		octx, cancel := context.WithCancel(ctx)
		o.cancel = cancel
		o.done = make(chan struct{})

		s.mu.Lock()
		s.acquired++
		s.mu.Unlock()

		if s.provider == nil || len(o.Waypoints) < 2 {
			o.path = o.straight()
			close(o.done)
			continue
		}
		pending = append(pending, lookup{ctx: octx, o: o})
	}
	if len(pending) == 0 {
		return
	}

	s.lookups.Add(1)
	go func() {
		defer s.lookups.Done()

		var g errgroup.Group
		g.SetLimit(maxConcurrentLookups)
		for _, l := range pending {
			l := l
			g.Go(func() error {
				l.o.path, l.o.routed = s.lookup(l.ctx, l.o)
				close(l.o.done)
				if l.ctx.Err() == nil {
					s.signal()
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// lookup asks the routing service for the road path and falls back to the
// straight line through the waypoints if that fails.
func (s *OverlaySet) lookup(ctx context.Context, o *Overlay) (orb.LineString, bool) {
	if ctx.Err() != nil {
		return o.straight(), false
	}

	path, err := s.provider.Path(ctx, o.straight())
	if ctx.Err() != nil {
		// Released while the lookup ran.
		return o.straight(), false
	}
	if err != nil || len(path) == 0 {
		log.Printf("route path lookup failed, drawing waypoints: vehicle=%d err=%v", o.Vehicle, err)
		return o.straight(), false
	}
	return path, true
}

func (s *OverlaySet) signal() {
	s.mu.Lock()
	s.routed++
	s.mu.Unlock()

	select {
	case s.resolved <- struct{}{}:
	default:
	}
}

func (s *OverlaySet) release(o *Overlay) {
	if o.released {
		return
	}
	o.release()

	s.mu.Lock()
	s.released++
	s.mu.Unlock()
}
