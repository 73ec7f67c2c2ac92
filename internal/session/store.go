package session

import (
	"sort"
	"sync"
)

// Source exposes the live session state.
type Source interface {
	Current() State
}

// Store holds the current State and notifies subscribers of every change.
//
// Only the session provider publishes; everything else reads through Current
// or a subscription. Notifications are delivered synchronously and in
// publish order: a Publish does not return until every subscriber has seen
// the new state, and no other Publish can interleave. Subscribers must not
// call Publish or Subscribe from inside their callback.
type Store struct {
	dispatch sync.Mutex

	mu     sync.RWMutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewStore returns a store in the Loading state.
func NewStore() *Store {
	return &Store{state: Loading(), subs: make(map[int]func(State))}
}

// Current returns the state at the moment of the call.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn and immediately delivers the current state to it.
// The returned function unsubscribes; calling it more than once is a no-op.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Publish replaces the current state and notifies subscribers in the order
// they subscribed.
func (s *Store) Publish(st State) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	s.state = st
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
