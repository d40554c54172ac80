package mapview

import (
	"context"
	"route-dashboard/internal/adapters/routing"
	"route-dashboard/internal/domain"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

// blockingProvider holds every lookup until its context is cancelled.
type blockingProvider struct {
	started   chan struct{}
	cancelled chan error
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{
		started:   make(chan struct{}, 8),
		cancelled: make(chan error, 8),
	}
}

func (p *blockingProvider) Path(ctx context.Context, waypoints []orb.Point) (orb.LineString, error) {
	p.started <- struct{}{}
	<-ctx.Done()
	p.cancelled <- ctx.Err()
	return nil, ctx.Err()
}

func (p *blockingProvider) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-p.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for lookup to start")
	}
}

func (p *blockingProvider) cancelledErr(t *testing.T) error {
	t.Helper()
	select {
	case err := <-p.cancelled:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("lookup was not cancelled")
		return nil
	}
}

func TestOverlaySetLifecycle(t *testing.T) {
	provider := routing.NewMockPathProvider(nil)
	s := NewOverlaySet(provider)
	ctx := context.Background()

	a := domain.Route{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	b := domain.Route{{Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}}
	c := domain.Route{{Lat: 4, Lon: 4}, {Lat: 5, Lon: 5}}

	first := s.Sync(ctx, []domain.Route{a, b})
	if acq, rel := s.Counts(); acq != 2 || rel != 0 {
		t.Fatalf("after first sync acquired=%d released=%d", acq, rel)
	}

	s.Wait()

	// Same inputs: overlays are reused, nothing is re-fetched.
	again := s.Sync(ctx, []domain.Route{a, b})
	if again[0] != first[0] || again[1] != first[1] {
		t.Fatal("unchanged overlays should be reused")
	}
	if provider.Calls() != 2 {
		t.Fatalf("path lookups = %d, want 2", provider.Calls())
	}

	// Second route changes: only that overlay is released and replaced.
	changed := s.Sync(ctx, []domain.Route{a, c})
	if changed[0] != first[0] || changed[1] == first[1] {
		t.Fatal("only the changed overlay should be replaced")
	}
	if !first[1].released {
		t.Fatal("replaced overlay must be released")
	}
	if acq, rel := s.Counts(); acq != 3 || rel != 1 {
		t.Fatalf("after change acquired=%d released=%d", acq, rel)
	}

	// Fewer routes: surplus overlays are released.
	s.Sync(ctx, []domain.Route{a})
	if s.Live() != 1 {
		t.Fatalf("live = %d, want 1", s.Live())
	}
	if acq, rel := s.Counts(); acq != 3 || rel != 2 {
		t.Fatalf("after shrink acquired=%d released=%d", acq, rel)
	}

	s.Close()
	if acq, rel := s.Counts(); s.Live() != 0 || acq != rel {
		t.Fatalf("after close live=%d acquired=%d released=%d", s.Live(), acq, rel)
	}
}

func TestOverlayColorChangeReacquires(t *testing.T) {
	s := NewOverlaySet(routing.NewMockPathProvider(nil))
	ctx := context.Background()

	a := domain.Route{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	b := domain.Route{{Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}}

	first := s.Sync(ctx, []domain.Route{a, b})
	// Route b moves from index 1 to index 0 and therefore changes color.
	second := s.Sync(ctx, []domain.Route{b})

	if second[0] == first[1] {
		t.Fatal("an overlay whose color changed must be reacquired")
	}
	if second[0].Color != domain.RouteColor(0) {
		t.Fatalf("color = %s, want %s", second[0].Color, domain.RouteColor(0))
	}
	s.Close()
}

func TestReleaseCancelsPendingLookup(t *testing.T) {
	provider := newBlockingProvider()
	s := NewOverlaySet(provider)
	ctx := context.Background()

	a := domain.Route{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	c := domain.Route{{Lat: 4, Lon: 4}, {Lat: 5, Lon: 5}}

	first := s.Sync(ctx, []domain.Route{a})
	provider.waitStarted(t)
	if !first[0].Pending() {
		t.Fatal("lookup should still be pending")
	}

	// Replacing the route releases the overlay and cuts its lookup short.
	s.Sync(ctx, []domain.Route{c})
	if err := provider.cancelledErr(t); err != context.Canceled {
		t.Fatalf("lookup ended with %v, want context.Canceled", err)
	}
	provider.waitStarted(t)

	s.Close()
	if err := provider.cancelledErr(t); err != context.Canceled {
		t.Fatalf("lookup ended with %v, want context.Canceled", err)
	}
	if first[0].Pending() {
		t.Fatal("released overlay should be settled after Close")
	}
	if path, routed := first[0].Path(); routed || len(path) != 2 {
		t.Fatalf("released overlay path = %v routed=%v", path, routed)
	}
	select {
	case <-s.Resolved():
		t.Fatal("cancelled lookups must not signal a resolved path")
	default:
	}
}

func TestResolvedSignalsFinishedLookup(t *testing.T) {
	s := NewOverlaySet(routing.NewMockPathProvider(nil))
	defer s.Close()

	overlays := s.Sync(context.Background(), []domain.Route{{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}})

	select {
	case <-s.Resolved():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for resolved signal")
	}
	if overlays[0].Pending() {
		t.Fatal("overlay should be settled after the signal")
	}
	if s.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", s.Generation())
	}
}
