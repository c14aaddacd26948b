package selection

import (
	"slices"
	"sync"
)

// Store owns the current selection and notifies subscribers after every
// mutation, in subscription order.
type Store struct {
	mu          sync.Mutex
	current     Set
	subscribers []func(Set)
}

// NewStore creates a store seeded with the default selection
func NewStore() *Store {
	return &Store{current: Defaults()}
}

// Current returns the current selection
func (s *Store) Current() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn to receive every new selection
func (s *Store) Subscribe(fn func(Set)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Toggle adds id when absent and removes it when present
func (s *Store) Toggle(id string) Set {
	return s.update(func(cur Set) Set { return cur.Toggle(id) })
}

// SelectAll replaces the selection with every registry identifier
func (s *Store) SelectAll(allIDs []string) Set {
	return s.Replace(NewSet(allIDs...))
}

// SelectNone empties the selection
func (s *Store) SelectNone() Set {
	return s.Replace(NewSet())
}

// SelectDefaults restores the default selection without consulting the registry
func (s *Store) SelectDefaults() Set {
	return s.Replace(Defaults())
}

// Replace sets the selection to next
func (s *Store) Replace(next Set) Set {
	return s.update(func(Set) Set { return next })
}

func (s *Store) update(fn func(Set) Set) Set {
	s.mu.Lock()
	next := fn(s.current)
	s.current = next
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub(next)
	}
	return next
}
