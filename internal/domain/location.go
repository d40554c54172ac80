package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Geographic point (latitude, longitude).
// Within a location collection the position is the identity: index 0 is the depot.
type Location struct {
	Lat float64
	Lon float64
}

// Return the location as an orb point, which orders coordinates [lon, lat].
func (l Location) Point() orb.Point { return orb.Point{l.Lon, l.Lat} }

// Return the location as "lon,lat" for routing service URLs.
func (l Location) LonLat() string { return fmt.Sprintf("%f,%f", l.Lon, l.Lat) }

// The backend encodes a location as a two element [lat, lon] array.
// A null location is rejected rather than read as (0, 0).
func (l *Location) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return errors.New("decode location: null location")
	}

	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("decode location: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode location: expected [lat, lon], got %d values", len(pair))
	}

	l.Lat = pair[0]
	l.Lon = pair[1]
	return nil
}

func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{l.Lat, l.Lon})
}
