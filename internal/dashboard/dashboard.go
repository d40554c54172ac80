// Package dashboard is the composition unit that owns the view state and
// turns every state change into a fresh render pass.
package dashboard

import (
	"context"
	"log"
	"route-dashboard/internal/controller"
	"route-dashboard/internal/domain"
	"route-dashboard/internal/render/mapview"
	"route-dashboard/internal/render/panel"
	"route-dashboard/internal/store"
	"sync"
)

// Frame is the output of one render pass.
// Seq increases with every published frame; Version is the state version it shows.
// Two frames can share a Version when a road path arrived between them.
type Frame struct {
	Seq     uint64
	Version uint64
	State   domain.ViewState
	Panel   panel.Panel
	Scene   mapview.Scene
}

type Dashboard struct {
	store *store.Store
	ctrl  *controller.Controller
	maps  *mapview.Renderer

	renderMu sync.Mutex
	paths    uint64

	mu     sync.RWMutex
	latest Frame
	subs   map[chan Frame]struct{}
}

func New(st *store.Store, ctrl *controller.Controller, maps *mapview.Renderer) *Dashboard {
	return &Dashboard{
		store: st,
		ctrl:  ctrl,
		maps:  maps,
		subs:  make(map[chan Frame]struct{}),
	}
}

// Run renders on every store change and every resolved road path until ctx is
// done, then releases the map overlays.
func (d *Dashboard) Run(ctx context.Context) {
	changes, cancel := d.store.Subscribe()
	defer cancel()
	defer d.maps.Close()

	d.Render(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			d.Render(ctx)
		case <-d.maps.Resolved():
			d.Render(ctx)
		}
	}
}

// Render runs one pass over the current snapshot and publishes the frame.
// Passes are serialized; when neither the state nor any road path changed
// since the latest frame, that frame is returned as is.
func (d *Dashboard) Render(ctx context.Context) Frame {
	d.renderMu.Lock()
	defer d.renderMu.Unlock()

	st, version := d.store.Snapshot()
	paths := d.maps.Overlays().Generation()

	d.mu.RLock()
	prev := d.latest
	d.mu.RUnlock()
	if prev.Seq != 0 && version == prev.Version && paths == d.paths {
		return prev
	}
	d.paths = paths

	frame := Frame{
		Seq:     prev.Seq + 1,
		Version: version,
		State:   st,
		Panel:   panel.Build(st),
		Scene:   d.maps.Render(ctx, st.Locations, st.Routes),
	}

	d.mu.Lock()
	d.latest = frame
	for ch := range d.subs {
		// Keep only the newest frame for slow readers.
		select {
		case <-ch:
		default:
		}
		ch <- frame
	}
	d.mu.Unlock()

	log.Printf("render pass: seq=%d version=%d mode=%s loading=%t stops=%d routes=%d",
		frame.Seq, version, st.Mode, st.IsLoading, len(st.Locations), len(st.Routes))
	return frame
}

// Latest returns the most recent frame.
func (d *Dashboard) Latest() Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest
}

// Subscribe delivers every new frame; only the newest undelivered frame is kept.
func (d *Dashboard) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)

	d.mu.Lock()
	d.subs[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, ch)
			d.mu.Unlock()
		})
	}
}

// Trigger runs a mode action. It reports false when the action is disabled
// because a fetch is already in flight.
func (d *Dashboard) Trigger(mode domain.Mode) bool {
	return d.ctrl.Trigger(mode)
}

// Load performs the initial synchronous fetch for mode.
func (d *Dashboard) Load(ctx context.Context, mode domain.Mode) error {
	return d.ctrl.Load(ctx, mode)
}

// Busy reports whether a fetch is in flight.
func (d *Dashboard) Busy() bool {
	return d.store.InFlight()
}
