package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

const okRoute = `{
	"code": "Ok",
	"routes": [{
		"geometry": {"type": "LineString", "coordinates": [[-74.006,40.7128],[-73.99,40.72],[-73.9352,40.7306]]},
		"distance": 8123.4,
		"duration": 912.1
	}]
}`

type memCache struct {
	mu sync.Mutex
	m  map[string]orb.LineString
}

func (c *memCache) Get(ctx context.Context, key string) (orb.LineString, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ls, ok := c.m[key]
	return ls, ok, nil
}

func (c *memCache) Put(ctx context.Context, key string, path orb.LineString) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = path
	return nil
}

func newProvider(t *testing.T, h http.HandlerFunc, opts ...Option) *OSRMPathProvider {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewOSRMPathProvider(srv.URL+"/route/v1", "driving", opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.backoff = time.Millisecond
	return p
}

var waypoints = []orb.Point{{-74.006, 40.7128}, {-73.9352, 40.7306}}

func TestPathRequestsGeometry(t *testing.T) {
	var gotPath, gotGeometries string
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotGeometries = r.URL.Query().Get("geometries")
		_, _ = w.Write([]byte(okRoute))
	})

	ls, err := p.Path(context.Background(), waypoints)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "/route/v1/driving/-74.006000,40.712800;-73.935200,40.730600"; gotPath != want {
		t.Fatalf("path = %q, want %q", gotPath, want)
	}
	if gotGeometries != "geojson" {
		t.Fatalf("geometries = %q, want geojson", gotGeometries)
	}
	if len(ls) != 3 || ls[1] != (orb.Point{-73.99, 40.72}) {
		t.Fatalf("unexpected line string: %v", ls)
	}
}

func TestPathRetriesTransientFailures(t *testing.T) {
	var calls int32
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(okRoute))
	})

	if _, err := p.Path(context.Background(), waypoints); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestPathDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"code":"InvalidQuery"}`, http.StatusBadRequest)
	})

	if _, err := p.Path(context.Background(), waypoints); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestPathRejectsNonOkCode(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points"}`))
	})

	_, err := p.Path(context.Background(), waypoints)
	if err == nil || !strings.Contains(err.Error(), "NoRoute") {
		t.Fatalf("expected NoRoute error, got %v", err)
	}
}

func TestPathUsesCaches(t *testing.T) {
	var calls int32
	h := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(okRoute))
	}

	shared := &memCache{m: map[string]orb.LineString{}}
	p := newProvider(t, h, WithPathCache(shared), WithMemoSize(8))

	for i := 0; i < 3; i++ {
		if _, err := p.Path(context.Background(), waypoints); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (memo hit)", calls)
	}
	if _, ok := shared.m[WaypointKey(waypoints)]; !ok {
		t.Fatal("path was not written to the persistent cache")
	}

	// A fresh provider with an empty memo reads through to the shared cache.
	fresh := newProvider(t, h, WithPathCache(shared))
	if _, err := fresh.Path(context.Background(), waypoints); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (persistent cache hit)", calls)
	}
}

func TestPathShortWaypointList(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("routing service should not be called")
	})

	ls, err := p.Path(context.Background(), waypoints[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ls) != 1 {
		t.Fatalf("len = %d, want 1", len(ls))
	}
}
