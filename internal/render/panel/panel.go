package panel

import (
	"fmt"
	"route-dashboard/internal/domain"
)

// Panel is the control panel and map overlay content for one view state.
type Panel struct {
	Title    string         `json:"title"`
	Actions  []Action       `json:"actions"`
	Stops    []StopRow      `json:"stops"`
	Vehicles []VehicleBlock `json:"vehicles"`
	Legend   []LegendEntry  `json:"legend"`
	Overlay  Overlay        `json:"overlay"`
}

// Action is a mode button. Active marks the mode currently displayed.
type Action struct {
	Label    string      `json:"label"`
	Mode     domain.Mode `json:"mode"`
	Active   bool        `json:"active"`
	Disabled bool        `json:"disabled"`
}

type StopRow struct {
	Label  string `json:"label"`
	Coords string `json:"coords"`
	Depot  bool   `json:"depot"`
}

type VehicleBlock struct {
	Header    string `json:"header"`
	Color     string `json:"color"`
	RouteText string `json:"route_text"`
	Stats     *Stats `json:"stats,omitempty"`
}

type Stats struct {
	Time     string `json:"time"`
	Distance string `json:"distance"`
}

type LegendKind string

const (
	LegendDepot LegendKind = "depot"
	LegendStop  LegendKind = "stop"
	LegendRoute LegendKind = "route"
)

type LegendEntry struct {
	Kind  LegendKind `json:"kind"`
	Label string     `json:"label"`
	Color string     `json:"color,omitempty"`
}

type OverlayKind string

const (
	OverlayNone    OverlayKind = ""
	OverlayLoading OverlayKind = "loading"
	OverlayError   OverlayKind = "error"
)

type Overlay struct {
	Kind    OverlayKind `json:"kind,omitempty"`
	Title   string      `json:"title,omitempty"`
	Message string      `json:"message,omitempty"`
	Hint    string      `json:"hint,omitempty"`
}

var actions = []struct {
	label string
	mode  domain.Mode
}{
	{"Show Normal Route", domain.ModeNormal},
	{"Simulate Traffic Jam", domain.ModeTraffic},
}

// Build derives the panel from a view state snapshot. It has no side effects.
func Build(st domain.ViewState) Panel {
	p := Panel{
		Title:    "AI Dynamic Routing Dashboard",
		Actions:  make([]Action, 0, len(actions)),
		Stops:    make([]StopRow, 0, len(st.Locations)),
		Vehicles: make([]VehicleBlock, 0, len(st.IndexRoutes)),
		Legend:   make([]LegendEntry, 0, 2+len(st.Routes)),
		Overlay:  buildOverlay(st),
	}

	for _, a := range actions {
		p.Actions = append(p.Actions, Action{
			Label:    a.label,
			Mode:     a.mode,
			Active:   st.Mode == a.mode && !st.IsLoading,
			Disabled: st.IsLoading,
		})
	}

	for i, loc := range st.Locations {
		p.Stops = append(p.Stops, StopRow{
			Label:  domain.StopLabel(i),
			Coords: domain.FormatCoord(loc),
			Depot:  i == 0,
		})
	}

	for v, route := range st.IndexRoutes {
		block := VehicleBlock{
			Header:    fmt.Sprintf("Vehicle %d", v+1),
			Color:     domain.RouteColor(v),
			RouteText: domain.FormatRouteText(route),
		}
		if s, ok := st.StatsFor(v); ok {
			block.Stats = &Stats{
				Time:     domain.FormatNumber(s.Time) + " min",
				Distance: domain.FormatNumber(s.Distance) + " km",
			}
		}
		p.Vehicles = append(p.Vehicles, block)
	}

	p.Legend = append(p.Legend,
		LegendEntry{Kind: LegendDepot, Label: "Depot"},
		LegendEntry{Kind: LegendStop, Label: "Delivery Stop"},
	)
	for i := range st.Routes {
		p.Legend = append(p.Legend, LegendEntry{
			Kind:  LegendRoute,
			Label: fmt.Sprintf("Vehicle %d Route", i+1),
			Color: domain.RouteColor(i),
		})
	}

	return p
}

func buildOverlay(st domain.ViewState) Overlay {
	switch {
	case st.IsLoading:
		return Overlay{
			Kind:    OverlayLoading,
			Title:   "Calculating optimal routes...",
			Message: "Communicating with backend...",
		}
	case st.HasError():
		return Overlay{
			Kind:    OverlayError,
			Title:   "Connection Error",
			Message: st.Error,
			Hint:    "Please ensure the route optimization backend is running and BACKEND_URL points at it.",
		}
	default:
		return Overlay{Kind: OverlayNone}
	}
}
