package bridge

// idSet is a membership set of CAN identifiers with optional bounded
// capacity. When the capacity is reached, the oldest inserted identifier
// is evicted first, which keeps the suppression window anchored to the
// most recently relayed traffic. Capacity 0 means unbounded.
//
// idSet is not goroutine-safe; the Router serializes access.
type idSet struct {
	capacity int
	members  map[uint32]struct{}
	order    []uint32
}

func newIDSet(capacity int) *idSet {
	return &idSet{
		capacity: capacity,
		members:  make(map[uint32]struct{}),
	}
}

func (s *idSet) Contains(id uint32) bool {
	_, ok := s.members[id]
	return ok
}

// Add inserts id, evicting the oldest member when the set is full.
// Adding an identifier already present does not change its age.
func (s *idSet) Add(id uint32) {
	if s.Contains(id) {
		return
	}
	if s.capacity > 0 && len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.members, oldest)
	}
	s.members[id] = struct{}{}
	if s.capacity > 0 {
		s.order = append(s.order, id)
	}
}

func (s *idSet) Len() int { return len(s.members) }
