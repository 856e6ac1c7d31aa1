// Package session maps opaque session identifiers to per-session game
// engines. The engines themselves never see session ids; the web layer owns
// the lookup and the lifecycle.
package session

import "sync"

// Store is a process-wide table of session id to engine with
// creation-on-miss. Engines are single-session by contract, so the lock only
// guards the table, never the engines.
type Store[T any] struct {
	mu        sync.Mutex
	engines   map[string]T
	newEngine func() T
}

func NewStore[T any](newEngine func() T) *Store[T] {
	return &Store[T]{
		mu:        sync.Mutex{},
		engines:   make(map[string]T),
		newEngine: newEngine,
	}
}

// Get returns the engine for id, creating one on first use.
func (s *Store[T]) Get(id string) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	engine, ok := s.engines[id]
	if !ok {
		engine = s.newEngine()
		s.engines[id] = engine
	}
	return engine
}

// Delete tears down the engine for id. A later Get creates a fresh one.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.engines, id)
}

// Len returns the number of live sessions.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.engines)
}
