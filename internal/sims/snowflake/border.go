package snowflake

// BorderSet is a dense set of cell indices with O(1) add, remove and
// membership. Iteration follows insertion order, with removals filled by the
// last member.
type BorderSet struct {
	members []int
	pos     []int32
}

// NewBorderSet allocates a set able to hold indices in [0, n).
func NewBorderSet(n int) *BorderSet {
	pos := make([]int32, n)
	for i := range pos {
		pos[i] = -1
	}
	return &BorderSet{pos: pos}
}

// Len returns the number of members.
func (s *BorderSet) Len() int { return len(s.members) }

// Has reports whether i is a member.
func (s *BorderSet) Has(i int) bool { return s.pos[i] >= 0 }

// Add inserts i and reports whether it was absent.
func (s *BorderSet) Add(i int) bool {
	if s.pos[i] >= 0 {
		return false
	}
	s.pos[i] = int32(len(s.members))
	s.members = append(s.members, i)
	return true
}

// Remove deletes i and reports whether it was present.
func (s *BorderSet) Remove(i int) bool {
	p := s.pos[i]
	if p < 0 {
		return false
	}
	last := len(s.members) - 1
	moved := s.members[last]
	s.members[p] = moved
	s.pos[moved] = p
	s.members = s.members[:last]
	s.pos[i] = -1
	return true
}

// Members exposes the member indices. The slice is invalidated by Add/Remove.
func (s *BorderSet) Members() []int { return s.members }
