package cache

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Paths are stored as GeoJSON LineString text so rows stay readable from a SQL shell.
func encodePath(path orb.LineString) (string, error) {
	b, err := geojson.NewGeometry(path).MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode path: %w", err)
	}
	return string(b), nil
}

func decodePath(s string) (orb.LineString, error) {
	g, err := geojson.UnmarshalGeometry([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	ls, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("decode path: geometry is %s, want LineString", g.Type)
	}
	return ls, nil
}
