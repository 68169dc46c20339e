package character

import "sort"

// IDSet is an immutable set of skill ids. The zero value is empty.
// With and Without return new sets and never modify the receiver.
type IDSet struct {
	m map[string]struct{}
}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	if len(ids) == 0 {
		return IDSet{}
	}
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return IDSet{m: m}
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the number of ids.
func (s IDSet) Len() int {
	return len(s.m)
}

// With returns a copy of s that also contains id.
func (s IDSet) With(id string) IDSet {
	if s.Has(id) {
		return s
	}
	m := make(map[string]struct{}, len(s.m)+1)
	for k := range s.m {
		m[k] = struct{}{}
	}
	m[id] = struct{}{}
	return IDSet{m: m}
}

// Without returns a copy of s that does not contain id.
func (s IDSet) Without(id string) IDSet {
	if !s.Has(id) {
		return s
	}
	m := make(map[string]struct{}, len(s.m))
	for k := range s.m {
		if k != id {
			m[k] = struct{}{}
		}
	}
	return IDSet{m: m}
}

// Equal reports whether both sets hold the same ids.
func (s IDSet) Equal(o IDSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k := range s.m {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// IDs returns the ids in sorted order.
func (s IDSet) IDs() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
