package mapview

import (
	"context"
	"route-dashboard/internal/domain"
	"route-dashboard/internal/ports"
	"slices"

	"github.com/paulmach/orb"
)

// Renderer draws the map surface from view state snapshots.
// Its only state is the overlays it holds and the last location set it fitted;
// it is not safe for concurrent use.
type Renderer struct {
	tiles    TileLayer
	overlays *OverlaySet
	fitted   []domain.Location
}

func NewRenderer(tiles TileLayer, provider ports.PathProvider) *Renderer {
	return &Renderer{
		tiles:    tiles,
		overlays: NewOverlaySet(provider),
	}
}

// Render produces the scene for locations and routes.
// Routes whose road path is still being looked up are drawn as straight lines;
// render again after Resolved fires to pick the paths up.
func (r *Renderer) Render(ctx context.Context, locations []domain.Location, routes []domain.Route) Scene {
	scene := Scene{
		Tiles:   r.tiles,
		Markers: make([]Marker, 0, len(locations)),
		Routes:  make([]RouteLine, 0, len(routes)),
	}

	for i, loc := range locations {
		icon := IconStop
		if i == 0 {
			icon = IconDepot
		}
		scene.Markers = append(scene.Markers, Marker{
			Index:    i,
			Label:    domain.StopLabel(i),
			Coords:   domain.FormatCoord(loc),
			Icon:     icon,
			Location: loc,
		})
	}

	for _, o := range r.overlays.Sync(ctx, routes) {
		path, routed := o.Path()
		scene.Routes = append(scene.Routes, RouteLine{
			Vehicle: o.Vehicle,
			Color:   o.Color,
			Path:    path,
			Routed:  routed,
		})
	}

	if len(locations) > 0 {
		scene.Viewport = &Viewport{
			Bounds:  FitBounds(locations),
			Padding: fitPadding,
			Refit:   !slices.Equal(r.fitted, locations),
		}
		r.fitted = slices.Clone(locations)
	}

	return scene
}

// Overlays exposes the overlay set, mainly for lifecycle inspection.
func (r *Renderer) Overlays() *OverlaySet { return r.overlays }

// Resolved signals when a path lookup finished and a new render would differ.
func (r *Renderer) Resolved() <-chan struct{} { return r.overlays.Resolved() }

// Close releases every overlay held by the renderer.
func (r *Renderer) Close() {
	r.overlays.Close()
}

// FitBounds returns the smallest bound containing every location.
func FitBounds(locations []domain.Location) orb.Bound {
	mp := make(orb.MultiPoint, 0, len(locations))
	for _, l := range locations {
		mp = append(mp, l.Point())
	}
	return mp.Bound()
}
