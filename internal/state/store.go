package state

import (
	"fmt"
	"log/slog"
	"sync"
)

// Store is the single observable state container for a client process.
// Construct one with New and pass it to every component that needs it.
type Store struct {
	logger *slog.Logger

	mu      sync.Mutex // Serializes dispatch; protects everything below
	state   State
	subs    map[int]chan State
	nextSub int
	closed  bool
}

// New creates a store with every sub-state at its default
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger,
		state:  Initial(),
		subs:   make(map[int]chan State),
	}
}

// Snapshot returns the current fully-applied state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a to the current state and publishes the new snapshot.
// Dispatches are applied one at a time in call order. The returned bool
// reports whether the action changed anything.
func (s *Store) Dispatch(a Action) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := reduce(s.state, a)
	if !changed {
		s.logger.Debug("action ignored", "action", actionName(a))
		return s.state, false
	}
	next.Version = s.state.Version + 1
	s.state = next

	s.logger.Debug("action applied", "action", actionName(a), "version", next.Version)
	s.publish(next)
	return next, true
}

// publish delivers st to every subscriber without blocking.
// A subscriber that has not consumed its previous snapshot gets it replaced.
func (s *Store) publish(st State) {
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- st:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

// Subscribe returns a channel that receives the newest snapshot after each
// change, and a function that ends the subscription. The channel is closed
// by the cancel func or by Close.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close ends all subscriptions. Dispatch keeps working afterwards so
// in-flight operations can settle, but nothing is published.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func actionName(a Action) string {
	return fmt.Sprintf("%T", a)
}
