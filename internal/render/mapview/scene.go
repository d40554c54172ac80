package mapview

import (
	"encoding/json"
	"route-dashboard/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	// Pixels kept free around the locations when fitting the viewport.
	fitPadding = 50

	routeOpacity = 0.8
	routeWeight  = 6
)

// Map position used before any location has been loaded.
var (
	defaultCenter = domain.Location{Lat: 40.7128, Lon: -74.0060}
	defaultZoom   = 12
)

type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

type Icon string

const (
	IconDepot Icon = "depot"
	IconStop  Icon = "stop"
)

type Marker struct {
	Index    int
	Label    string
	Coords   string
	Icon     Icon
	Location domain.Location
}

type RouteLine struct {
	Vehicle int
	Color   string
	Path    orb.LineString
	Routed  bool
}

// Viewport is the area the map should show. Refit is set when the location set
// changed since the previous scene, so an unchanged map keeps the user's pan/zoom.
type Viewport struct {
	Bounds  orb.Bound
	Padding int
	Refit   bool
}

// Scene is one render pass of the map.
type Scene struct {
	Tiles    TileLayer
	Markers  []Marker
	Routes   []RouteLine
	Viewport *Viewport
}

// Initial returns the scene as drawn on a map surface that has shown nothing yet:
// any viewport is fitted regardless of what earlier passes already fitted.
func (s Scene) Initial() Scene {
	if s.Viewport != nil {
		v := *s.Viewport
		v.Refit = true
		s.Viewport = &v
	}
	return s
}

// FeatureCollection encodes markers as Points and routes as LineStrings.
func (s Scene) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, m := range s.Markers {
		f := geojson.NewFeature(m.Location.Point())
		f.Properties["kind"] = "marker"
		f.Properties["index"] = m.Index
		f.Properties["label"] = m.Label
		f.Properties["coords"] = m.Coords
		f.Properties["icon"] = string(m.Icon)
		fc.Append(f)
	}

	for _, r := range s.Routes {
		f := geojson.NewFeature(r.Path)
		f.Properties["kind"] = "route"
		f.Properties["vehicle"] = r.Vehicle
		f.Properties["color"] = r.Color
		f.Properties["opacity"] = routeOpacity
		f.Properties["weight"] = routeWeight
		f.Properties["routed"] = r.Routed
		fc.Append(f)
	}

	return fc
}

type viewJSON struct {
	Center [2]float64 `json:"center"`
	Zoom   int        `json:"zoom"`
}

type viewportJSON struct {
	// [[south, west], [north, east]] in the map widget's lat/lon order.
	Bounds  [2][2]float64 `json:"bounds"`
	Padding [2]int        `json:"padding"`
	Refit   bool          `json:"refit"`
}

type sceneJSON struct {
	Tiles    TileLayer                  `json:"tiles"`
	Default  viewJSON                   `json:"default_view"`
	Viewport *viewportJSON              `json:"viewport,omitempty"`
	Features *geojson.FeatureCollection `json:"features"`
}

func (s Scene) MarshalJSON() ([]byte, error) {
	out := sceneJSON{
		Tiles: s.Tiles,
		Default: viewJSON{
			Center: [2]float64{defaultCenter.Lat, defaultCenter.Lon},
			Zoom:   defaultZoom,
		},
		Features: s.FeatureCollection(),
	}

	if v := s.Viewport; v != nil {
		out.Viewport = &viewportJSON{
			Bounds: [2][2]float64{
				{v.Bounds.Min.Lat(), v.Bounds.Min.Lon()},
				{v.Bounds.Max.Lat(), v.Bounds.Max.Lon()},
			},
			Padding: [2]int{v.Padding, v.Padding},
			Refit:   v.Refit,
		}
	}

	return json.Marshal(out)
}
