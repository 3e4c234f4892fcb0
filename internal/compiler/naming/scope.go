package naming

// Scope hands out identifiers within one Go namespace. A name already taken
// gets a trailing underscore until it is unique.
type Scope struct {
	taken map[string]bool
}

// NewScope creates a scope in which reserved is already taken.
func NewScope(reserved ...string) *Scope {
	s := &Scope{taken: make(map[string]bool)}
	for _, r := range reserved {
		s.taken[r] = true
	}
	return s
}

// Claim returns name, or name with as many underscores appended as needed to
// make it unique, and marks the result as taken.
func (s *Scope) Claim(name string) string {
	for s.taken[name] {
		name += "_"
	}
	s.taken[name] = true
	return name
}
