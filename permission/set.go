package permission

import "sort"

// Set is an immutable-by-convention collection of granted keys. The zero
// value is the empty set, which grants nothing.
type Set map[Key]struct{}

// NewSet builds a Set from string keys as stored in the role registry.
// Unknown keys are carried along; they simply never match a gate.
func NewSet(keys []string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[Key(k)] = struct{}{}
	}
	return s
}

// Has is the authorization decision primitive: it reports whether the set
// grants required. Pure, cheap, re-evaluated on every gated action.
func (s Set) Has(required Key) bool {
	_, ok := s[required]
	return ok
}

// Keys returns the granted keys sorted for stable display and serialization.
func (s Set) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
