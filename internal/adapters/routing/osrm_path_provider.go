package routing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"route-dashboard/internal/platform/obs"
	"route-dashboard/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/paulmach/orb"
)

// OSRMPathProvider implements PathProvider using an OSRM route service.
//
// It coordinates:
//   - Waypoint key normalization
//   - An in-memory LRU of recent paths
//   - A persistent path cache shared across restarts or instances
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type OSRMPathProvider struct {
	session *http.Client
	baseURL string
	profile string
	memo    gcache.Cache
	cache   ports.PathCache
	backoff time.Duration
}

type Option func(*OSRMPathProvider)

// WithPathCache puts a persistent cache behind the in-memory LRU.
func WithPathCache(c ports.PathCache) Option {
	return func(o *OSRMPathProvider) { o.cache = c }
}

// WithMemoSize sets the number of paths kept in memory.
func WithMemoSize(n int) Option {
	return func(o *OSRMPathProvider) {
		if n > 0 {
			o.memo = gcache.New(n).LRU().Build()
		}
	}
}

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(o *OSRMPathProvider) { o.session = c }
}

func NewOSRMPathProvider(baseURL, profile string, opts ...Option) (*OSRMPathProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base URL is empty")
	}
	if profile == "" {
		profile = "driving"
	}

	o := &OSRMPathProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		profile: profile,
		memo:    gcache.New(256).LRU().Build(),
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Path returns the road-following path through waypoints.
// With fewer than two waypoints there is nothing to route and the waypoints are returned as-is.
func (o *OSRMPathProvider) Path(ctx context.Context, waypoints []orb.Point) (_ orb.LineString, err error) {
	if len(waypoints) < 2 {
		return orb.LineString(append([]orb.Point(nil), waypoints...)), nil
	}

	defer obs.Time(ctx, "osrm.Path")(&err)

	key := WaypointKey(waypoints)

	if v, err := o.memo.Get(key); err == nil {
		return v.(orb.LineString), nil
	}

	// Check persistent path cache before issuing external API calls.
	if o.cache != nil {
		path, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			log.Printf("path cache read failed: key=%s err=%v", key, err)
		} else if ok {
			_ = o.memo.Set(key, path)
			return path, nil
		}
	}

	path, err := o.fetchRoute(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetching route: %w", err)
	}

	_ = o.memo.Set(key, path)
	if o.cache != nil {
		if err := o.cache.Put(ctx, key, path); err != nil {
			log.Printf("path cache write failed: key=%s err=%v", key, err)
		}
	}

	return path, nil
}

// WaypointKey builds the cache key and OSRM coordinate list "lon,lat;lon,lat;...".
// Coordinates are fixed to 6 decimals (about 10cm) so equal waypoints always share a key.
func WaypointKey(waypoints []orb.Point) string {
	var b strings.Builder
	for i, p := range waypoints {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.FormatFloat(p.Lon(), 'f', 6, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Lat(), 'f', 6, 64))
	}
	return b.String()
}
