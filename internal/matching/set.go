package matching

// Set is a string set. Skills and interests are stored as ordered lists that may
// repeat entries; scoring always works on their deduplicated form.
type Set map[string]struct{}

// NewSet collapses values into a set. Values are compared exactly.
func NewSet(values []string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// IntersectCount returns |s ∩ other|.
func (s Set) IntersectCount(other Set) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for v := range small {
		if large.Has(v) {
			n++
		}
	}
	return n
}

// DifferenceCount returns |s − other|.
func (s Set) DifferenceCount(other Set) int {
	n := 0
	for v := range s {
		if !other.Has(v) {
			n++
		}
	}
	return n
}
