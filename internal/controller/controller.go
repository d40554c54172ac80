package controller

import (
	"context"
	"errors"
	"log"
	"route-dashboard/internal/domain"
	"route-dashboard/internal/platform/obs"
	"route-dashboard/internal/ports"
	"route-dashboard/internal/store"
	"sync"
)

// ErrBusy is returned by Load when another fetch is still in flight.
var ErrBusy = errors.New("a route fetch is already in progress")

// Controller turns the dashboard's mode actions into fetches and pipes each
// outcome into the store. At most one fetch is in flight at a time.
type Controller struct {
	source ports.RouteSource
	store  *store.Store
	ctx    context.Context
	wg     sync.WaitGroup
}

// New returns a controller whose background fetches run under ctx;
// cancelling ctx aborts them.
func New(ctx context.Context, source ports.RouteSource, st *store.Store) *Controller {
	return &Controller{source: source, store: st, ctx: ctx}
}

// Trigger starts a fetch for mode in the background.
// It is a no-op returning false while a previous fetch is pending.
func (c *Controller) Trigger(mode domain.Mode) bool {
	if !c.store.Begin(mode) {
		log.Printf("mode trigger ignored: mode=%s reason=busy", mode)
		return false
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.fetch(obs.WithRequestID(c.ctx, ""), mode)
	}()
	return true
}

// Load fetches mode synchronously and returns the fetch error, if any.
// The outcome is applied to the store either way.
func (c *Controller) Load(ctx context.Context, mode domain.Mode) error {
	if !c.store.Begin(mode) {
		return ErrBusy
	}
	return c.fetch(ctx, mode)
}

// Wait blocks until every background fetch has been applied.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) fetch(ctx context.Context, mode domain.Mode) (err error) {
	defer obs.Time(ctx, "controller.fetch mode="+mode.String())(&err)

	data, err := c.source.FetchRoutes(ctx, mode)
	if err != nil {
		var d interface{ Detail() string }
		if errors.As(err, &d) {
			log.Printf("fetch routes failed: mode=%s %s", mode, d.Detail())
		}
	}

	c.store.Apply(mode, data, err)
	return err
}
