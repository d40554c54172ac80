package domain

import "slices"

// Geometric waypoints for one vehicle, in drawing order.
// The road-following path between them is computed by the routing service.
type Route []Location

// Logical visiting order for one vehicle as indices into the location collection.
// IndexRoutes[v] and Routes[v] describe the same vehicle.
type IndexRoute []int

// Aggregate cost of one vehicle's route as reported by the backend.
type RouteStats struct {
	Time     float64 `json:"time"`     // minutes
	Distance float64 `json:"distance"` // kilometers
}

// Represents one complete optimization result for a mode.
// RouteStats is aligned positionally with IndexRoutes and Routes; a nil entry
// (or a missing tail) means no statistics exist for that vehicle.
type RouteData struct {
	Locations   []Location    `json:"locations"`
	Routes      []Route       `json:"routes"`
	IndexRoutes []IndexRoute  `json:"index_routes"`
	RouteStats  []*RouteStats `json:"route_stats"`
}

// EmptyRouteData returns a RouteData whose collections are all empty, never nil.
func EmptyRouteData() RouteData {
	return RouteData{
		Locations:   []Location{},
		Routes:      []Route{},
		IndexRoutes: []IndexRoute{},
		RouteStats:  []*RouteStats{},
	}
}

// Normalize replaces nil collections with empty ones.
func (d RouteData) Normalize() RouteData {
	if d.Locations == nil {
		d.Locations = []Location{}
	}
	if d.Routes == nil {
		d.Routes = []Route{}
	}
	if d.IndexRoutes == nil {
		d.IndexRoutes = []IndexRoute{}
	}
	if d.RouteStats == nil {
		d.RouteStats = []*RouteStats{}
	}
	return d
}

// StatsFor returns the statistics for vehicle i, if the backend reported any.
func (d RouteData) StatsFor(i int) (RouteStats, bool) {
	if i < 0 || i >= len(d.RouteStats) || d.RouteStats[i] == nil {
		return RouteStats{}, false
	}
	return *d.RouteStats[i], true
}

// Clone returns a deep copy so callers can hand out snapshots without sharing backing arrays.
func (d RouteData) Clone() RouteData {
	out := RouteData{
		Locations:   slices.Clone(d.Locations),
		Routes:      make([]Route, len(d.Routes)),
		IndexRoutes: make([]IndexRoute, len(d.IndexRoutes)),
		RouteStats:  make([]*RouteStats, len(d.RouteStats)),
	}
	for i, r := range d.Routes {
		out.Routes[i] = slices.Clone(r)
	}
	for i, r := range d.IndexRoutes {
		out.IndexRoutes[i] = slices.Clone(r)
	}
	for i, s := range d.RouteStats {
		if s != nil {
			cp := *s
			out.RouteStats[i] = &cp
		}
	}
	return out.Normalize()
}
