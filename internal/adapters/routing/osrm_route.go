package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry geojson.Geometry `json:"geometry"`
		Distance float64          `json:"distance"`
		Duration float64          `json:"duration"`
	} `json:"routes"`
}

// fetchRoute asks the OSRM route endpoint for the full-resolution geometry through coords
// (already formatted as "lon,lat;lon,lat").
func (o *OSRMPathProvider) fetchRoute(ctx context.Context, coords string) (orb.LineString, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", o.baseURL, o.profile, coords)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		q.Set("steps", "false")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	if rr.Code != "Ok" {
		return nil, fmt.Errorf("OSRM returned code %q: %s", rr.Code, rr.Message)
	}
	if len(rr.Routes) == 0 {
		return nil, fmt.Errorf("OSRM returned no routes for %s", coords)
	}

	ls, ok := rr.Routes[0].Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("OSRM geometry is %s, want LineString", rr.Routes[0].Geometry.Type)
	}

	return ls, nil
}
