package mapview

import (
	"context"
	"encoding/json"
	"route-dashboard/internal/adapters/routing"
	"route-dashboard/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

var tiles = TileLayer{URL: "https://{s}.tile.example/{z}/{x}/{y}.png", Attribution: "test"}

func twoStops() ([]domain.Location, []domain.Route) {
	locs := []domain.Location{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	routes := []domain.Route{{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}}
	return locs, routes
}

func TestRenderScenario(t *testing.T) {
	locs, routes := twoStops()
	provider := routing.NewMockPathProvider(map[string]orb.LineString{
		routing.WaypointKey([]orb.Point{{0, 0}, {1, 1}}): {{0, 0}, {0.5, 0.2}, {1, 1}},
	})

	r := NewRenderer(tiles, provider)
	defer r.Close()

	scene := r.Render(context.Background(), locs, routes)

	if len(scene.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(scene.Markers))
	}
	if scene.Markers[0].Icon != IconDepot || scene.Markers[0].Label != "Depot" {
		t.Fatalf("marker 0 = %+v", scene.Markers[0])
	}
	if scene.Markers[1].Icon != IconStop || scene.Markers[1].Label != "Stop 1" {
		t.Fatalf("marker 1 = %+v", scene.Markers[1])
	}
	if scene.Markers[1].Coords != "1.0000, 1.0000" {
		t.Fatalf("coords = %q", scene.Markers[1].Coords)
	}

	if len(scene.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(scene.Routes))
	}
	if scene.Routes[0].Color != domain.Palette[0] {
		t.Fatalf("color = %s, want %s", scene.Routes[0].Color, domain.Palette[0])
	}

	if scene.Viewport == nil || !scene.Viewport.Refit || scene.Viewport.Padding != 50 {
		t.Fatalf("viewport = %+v", scene.Viewport)
	}
	want := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	if !scene.Viewport.Bounds.Equal(want) {
		t.Fatalf("bounds = %v, want %v", scene.Viewport.Bounds, want)
	}

	// The road path lands after the lookup; the next pass draws it.
	select {
	case <-r.Resolved():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for path lookup")
	}
	settled := r.Render(context.Background(), locs, routes)
	if !settled.Routes[0].Routed || len(settled.Routes[0].Path) != 3 {
		t.Fatalf("route = %+v, want routed 3-point path", settled.Routes[0])
	}
}

func TestRenderDrawsWaypointsWhileLookupPending(t *testing.T) {
	locs, routes := twoStops()
	provider := newBlockingProvider()

	r := NewRenderer(tiles, provider)

	scene := r.Render(context.Background(), locs, routes)
	line := scene.Routes[0]
	if line.Routed || len(line.Path) != 2 {
		t.Fatalf("pending route = %+v, want straight waypoint line", line)
	}
	if len(scene.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(scene.Markers))
	}

	provider.waitStarted(t)
	r.Close()
	if err := provider.cancelledErr(t); err != context.Canceled {
		t.Fatalf("lookup ended with %v, want context.Canceled", err)
	}
}

func TestSceneInitialForcesRefit(t *testing.T) {
	locs, routes := twoStops()
	r := NewRenderer(tiles, nil)

	r.Render(context.Background(), locs, routes)
	latest := r.Render(context.Background(), locs, routes)
	if latest.Viewport.Refit {
		t.Fatal("unchanged locations should not refit an open map")
	}

	initial := latest.Initial()
	if !initial.Viewport.Refit {
		t.Fatal("a fresh map surface must fit the locations")
	}
	if latest.Viewport.Refit {
		t.Fatal("Initial must not modify the original scene")
	}

	b, err := json.Marshal(initial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(b), `"refit":true`) {
		t.Fatalf("scene json = %s", b)
	}

	if empty := (Scene{}).Initial(); empty.Viewport != nil {
		t.Fatal("no viewport expected without locations")
	}
}

func TestRenderColorsCycleWithPalette(t *testing.T) {
	routes := make([]domain.Route, 6)
	for i := range routes {
		routes[i] = domain.Route{{Lat: float64(i), Lon: 0}, {Lat: float64(i), Lon: 1}}
	}

	r := NewRenderer(tiles, routing.NewMockPathProvider(nil))
	defer r.Close()

	scene := r.Render(context.Background(), nil, routes)
	for i, line := range scene.Routes {
		if line.Color != domain.Palette[i%4] {
			t.Errorf("route %d color = %s, want %s", i, line.Color, domain.Palette[i%4])
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer(tiles, nil)
	scene := r.Render(context.Background(), nil, nil)

	if scene.Viewport != nil {
		t.Fatal("no viewport fit expected for an empty location set")
	}
	if len(scene.Markers) != 0 || len(scene.Routes) != 0 {
		t.Fatalf("unexpected scene: %+v", scene)
	}
}

func TestRenderRefitOnlyWhenLocationsChange(t *testing.T) {
	locs, routes := twoStops()
	r := NewRenderer(tiles, routing.NewMockPathProvider(nil))
	defer r.Close()

	first := r.Render(context.Background(), locs, routes)
	second := r.Render(context.Background(), locs, routes)
	if !first.Viewport.Refit || second.Viewport.Refit {
		t.Fatalf("refit = %v then %v, want true then false", first.Viewport.Refit, second.Viewport.Refit)
	}

	moved := append([]domain.Location(nil), locs...)
	moved = append(moved, domain.Location{Lat: 2, Lon: 2})
	third := r.Render(context.Background(), moved, routes)
	if !third.Viewport.Refit {
		t.Fatal("refit expected after locations changed")
	}
}

func TestRenderFallsBackToWaypoints(t *testing.T) {
	locs, routes := twoStops()
	provider := routing.NewMockPathProvider(nil)
	provider.Strict = true

	r := NewRenderer(tiles, provider)
	defer r.Close()

	r.Render(context.Background(), locs, routes)
	r.Overlays().Wait()
	if provider.Calls() != 1 {
		t.Fatalf("path lookups = %d, want 1", provider.Calls())
	}

	scene := r.Render(context.Background(), locs, routes)
	line := scene.Routes[0]
	if line.Routed {
		t.Fatal("route should be marked as not routed")
	}
	if len(line.Path) != 2 || line.Path[1] != (orb.Point{1, 1}) {
		t.Fatalf("fallback path = %v", line.Path)
	}
}

func TestSceneJSON(t *testing.T) {
	locs, routes := twoStops()
	r := NewRenderer(tiles, routing.NewMockPathProvider(nil))
	defer r.Close()

	b, err := json.Marshal(r.Render(context.Background(), locs, routes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Tiles    TileLayer `json:"tiles"`
		Viewport struct {
			Bounds  [2][2]float64 `json:"bounds"`
			Padding [2]int        `json:"padding"`
		} `json:"viewport"`
		Features struct {
			Type     string `json:"type"`
			Features []struct {
				Geometry struct {
					Type string `json:"type"`
				} `json:"geometry"`
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"features"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Tiles != tiles {
		t.Fatalf("tiles = %+v", decoded.Tiles)
	}
	if decoded.Features.Type != "FeatureCollection" || len(decoded.Features.Features) != 3 {
		t.Fatalf("features = %+v", decoded.Features)
	}
	if decoded.Features.Features[2].Geometry.Type != "LineString" {
		t.Fatalf("third feature = %+v", decoded.Features.Features[2])
	}
	if decoded.Features.Features[2].Properties["color"] != domain.Palette[0] {
		t.Fatalf("route color = %v", decoded.Features.Features[2].Properties["color"])
	}
	if decoded.Viewport.Bounds != [2][2]float64{{0, 0}, {1, 1}} || decoded.Viewport.Padding != [2]int{50, 50} {
		t.Fatalf("viewport = %+v", decoded.Viewport)
	}
}
