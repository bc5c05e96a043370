package domain

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Property is a single global property. Name comparisons are case-insensitive,
// but the original casing is preserved for the wire.
type Property struct {
	Name  string
	Value string
}

// PropertySet is a global-property map with case-insensitive names.
// The zero value is not usable; construct with NewPropertySet.
type PropertySet struct {
	entries map[string]Property // keyed by folded name
}

// NewPropertySet creates a PropertySet from the given properties.
// Later duplicates (case-insensitively) win.
func NewPropertySet(props ...Property) *PropertySet {
	s := &PropertySet{entries: make(map[string]Property, len(props))}
	for _, p := range props {
		s.Set(p.Name, p.Value)
	}
	return s
}

// Set adds or replaces a property.
func (s *PropertySet) Set(name, value string) {
	s.entries[strings.ToLower(name)] = Property{Name: name, Value: value}
}

// Get returns the value for name, matched case-insensitively.
func (s *PropertySet) Get(name string) (string, bool) {
	p, ok := s.entries[strings.ToLower(name)]
	return p.Value, ok
}

// Len returns the number of properties.
func (s *PropertySet) Len() int {
	return len(s.entries)
}

// Pairs returns the properties sorted by folded name.
func (s *PropertySet) Pairs() []Property {
	pairs := make([]Property, 0, len(s.entries))
	for _, p := range s.entries {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		return strings.ToLower(pairs[i].Name) < strings.ToLower(pairs[j].Name)
	})
	return pairs
}

// Equal reports whether both sets contain the same properties.
// Names compare case-insensitively, values exactly.
func (s *PropertySet) Equal(other *PropertySet) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.entries) != len(other.entries) {
		return false
	}
	for key, p := range s.entries {
		q, ok := other.entries[key]
		if !ok || p.Value != q.Value {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s *PropertySet) Clone() *PropertySet {
	c := &PropertySet{entries: make(map[string]Property, len(s.entries))}
	for key, p := range s.entries {
		c.entries[key] = p
	}
	return c
}

// WriteHash feeds the set into the digest in deterministic order.
// Two equal sets always produce the same bytes.
func (s *PropertySet) WriteHash(d *xxhash.Digest) {
	for _, p := range s.Pairs() {
		_, _ = d.WriteString(strings.ToLower(p.Name))
		_, _ = d.WriteString("=")
		_, _ = d.WriteString(p.Value)
		_, _ = d.WriteString(";")
	}
}
