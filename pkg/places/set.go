package places

// Set is an insertion-ordered set of canonical location names. Membership
// is case-sensitive exact match on the canonical string. A Set only ever
// grows; there is no remove operation.
type Set struct {
	names []string
	seen  map[string]struct{}
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add inserts name and reports whether the set grew.
func (s *Set) Add(name string) bool {
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Has reports whether name is a member.
func (s *Set) Has(name string) bool {
	_, ok := s.seen[name]
	return ok
}

// Names returns the members in insertion order. The returned slice is a
// copy and safe to retain.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of members.
func (s *Set) Len() int { return len(s.names) }

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	c := NewSet()
	for _, n := range s.names {
		c.Add(n)
	}
	return c
}
