// Package selection holds the set of packs a user has chosen to install.
package selection

import (
	"sort"
	"strings"
)

// Set is an immutable set of pack identifiers. The zero value is empty.
type Set struct {
	items map[string]struct{}
}

// NewSet builds a Set from ids, ignoring duplicates
func NewSet(ids ...string) Set {
	items := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		items[id] = struct{}{}
	}
	return Set{items: items}
}

// Len returns the number of identifiers in the set
func (s Set) Len() int {
	return len(s.items)
}

// Has reports whether id is in the set
func (s Set) Has(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Equal reports set equality
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.items {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the identifiers in lexicographic order
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Join returns the sorted identifiers joined with sep
func (s Set) Join(sep string) string {
	return strings.Join(s.Sorted(), sep)
}

// Toggle returns the symmetric difference of the set and {id}
func (s Set) Toggle(id string) Set {
	next := s.clone()
	if _, ok := next.items[id]; ok {
		delete(next.items, id)
	} else {
		next.items[id] = struct{}{}
	}
	return next
}

// Intersect returns the identifiers present in both sets
func (s Set) Intersect(other Set) Set {
	out := NewSet()
	for id := range s.items {
		if other.Has(id) {
			out.items[id] = struct{}{}
		}
	}
	return out
}

func (s Set) String() string {
	return "{" + s.Join(",") + "}"
}

func (s Set) clone() Set {
	items := make(map[string]struct{}, len(s.items)+1)
	for id := range s.items {
		items[id] = struct{}{}
	}
	return Set{items: items}
}
