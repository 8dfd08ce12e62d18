// Package state holds the fetch-lifecycle-tracked view state shared by a
// view's fetcher and its mutation coordinator.
package state

import (
	"fmt"
	"sync"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhaseSuccess:
		return "Success"
	case PhaseError:
		return "Error"
	default:
		return "InvalidPhase"
	}
}

func (p Phase) validateTransitionTo(next Phase) error {
	switch p {
	case PhaseIdle:
		if next == PhaseLoading || next == PhaseIdle {
			return nil
		}
	case PhaseLoading:
		switch next {
		// Loading to Loading happens when a newer request supersedes the
		// one in flight.
		case PhaseLoading, PhaseSuccess, PhaseError, PhaseIdle:
			return nil
		}
	case PhaseSuccess, PhaseError:
		switch next {
		// Success and Error stay put while a mutation reconciles in place.
		case PhaseLoading, PhaseIdle, p:
			return nil
		}
	}

	return fmt.Errorf("invalid phase transition from %v to %v", p, next)
}

// Snapshot is an immutable copy of a view's state.
type Snapshot[T any] struct {
	Phase Phase
	// Data is only meaningful when Phase is PhaseSuccess, or when an error
	// policy kept the last successful value.
	Data T
	// ErrorMessage is the user-visible text of the last failure, either a
	// failed fetch (Phase is PhaseError) or a failed mutation (Phase is
	// unchanged).
	ErrorMessage string
	// Generation counts issued fetches.
	Generation uint64
	// HasData reports whether Data came from a successful response.
	HasData bool
}

// Store owns one view's Snapshot. All methods are safe for concurrent use.
type Store[T any] struct {
	mu   sync.RWMutex
	snap Snapshot[T]

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot[T])
	nextSub     int
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{subscribers: make(map[int]func(Snapshot[T]))}
}

func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Update applies fn to a copy of the snapshot and commits it when fn
// returns true and the phase change is legal.
func (s *Store[T]) Update(fn func(*Snapshot[T]) bool) error {
	s.mu.Lock()
	next := s.snap
	if !fn(&next) {
		s.mu.Unlock()
		return nil
	}
	if err := s.snap.Phase.validateTransitionTo(next.Phase); err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = next
	s.mu.Unlock()

	s.notify(next)
	return nil
}

// Subscribe registers fn to receive every committed snapshot. The returned
// function removes the subscription.
func (s *Store[T]) Subscribe(fn func(Snapshot[T])) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subscribers == nil {
		s.subscribers = make(map[int]func(Snapshot[T]))
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store[T]) notify(snap Snapshot[T]) {
	s.subMu.Lock()
	fns := make([]func(Snapshot[T]), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
