// Package store owns the dashboard's view state.
//
// All mutation goes through Begin and Apply; readers only ever see copies
// returned by Snapshot. Subscribers are signalled after every mutation so a
// render pass can run over the new snapshot.
package store

import (
	"errors"
	"route-dashboard/internal/domain"
	"sync"
)

type Store struct {
	mu       sync.Mutex
	state    domain.ViewState
	inFlight bool
	version  uint64
	subs     map[chan struct{}]struct{}
}

// New returns a store in the startup state: no data, normal mode, loading.
func New() *Store {
	return &Store{
		state: domain.ViewState{
			RouteData: domain.EmptyRouteData(),
			Mode:      domain.ModeNormal,
			IsLoading: true,
		},
		subs: make(map[chan struct{}]struct{}),
	}
}

// Snapshot returns a deep copy of the current state and its version.
// The version increases on every mutation.
func (s *Store) Snapshot() (domain.ViewState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.RouteData = s.state.RouteData.Clone()
	return st, s.version
}

// Begin marks the start of a fetch for mode.
// It returns false, changing nothing, while another fetch is still in flight.
func (s *Store) Begin(mode domain.Mode) bool {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return false
	}
	s.inFlight = true
	s.state.IsLoading = true
	s.state.Error = ""
	s.version++
	s.mu.Unlock()

	s.notify()
	return true
}

// Apply records the outcome of the fetch started by Begin.
// On success the four collections are replaced together and mode becomes current.
// On failure the previous data and mode are kept and only the error is set.
func (s *Store) Apply(mode domain.Mode, data domain.RouteData, err error) {
	s.mu.Lock()
	s.inFlight = false
	s.state.IsLoading = false

	if err != nil {
		s.state.Error = errorMessage(err)
	} else {
		s.state.RouteData = data.Clone()
		s.state.Mode = mode
		s.state.Error = ""
	}
	s.version++
	s.mu.Unlock()

	s.notify()
}

// InFlight reports whether a fetch has begun and not yet been applied.
func (s *Store) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Subscribe returns a channel that receives a signal after each mutation.
// Signals coalesce: a slow reader sees at most one pending signal.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// errorMessage picks the user-facing text of err: the message of the outermost
// error that declares itself displayable, else err.Error().
func errorMessage(err error) string {
	var d interface{ UserMessage() string }
	if errors.As(err, &d) {
		return d.UserMessage()
	}
	return err.Error()
}
