package gtree

// Identity names a physical directory on the host filesystem, independent
// of the path used to reach it. Two paths with equal identities are the
// same directory, which is what makes symlink cycles detectable.
type Identity struct {
	Dev uint64 // device id
	Ino uint64 // file serial (inode) number
}

// identitySet records every directory identity entered during one walk.
// It is created before traversal and discarded after; nothing is ever
// removed from it.
type identitySet struct {
	seen map[Identity]struct{}
}

func newIdentitySet() *identitySet {
	return &identitySet{seen: make(map[Identity]struct{})}
}

// register inserts id and reports whether it was absent. A false return
// means the directory was entered before.
func (s *identitySet) register(id Identity) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// contains is a pure lookup with no mutation.
func (s *identitySet) contains(id Identity) bool {
	_, ok := s.seen[id]
	return ok
}
