package ui

// snapshotLimit caps both the undo and redo stacks independently.
const snapshotLimit = 10

// snapshotStack is a bounded LIFO of serialized surface snapshots. Pushing
// beyond capacity evicts the oldest entry. Not safe for concurrent use; the
// owning widget serializes access.
type snapshotStack struct {
	snaps [][]byte
}

func (s *snapshotStack) Push(snap []byte) {
	s.snaps = append(s.snaps, snap)
	if len(s.snaps) > snapshotLimit {
		s.snaps = s.snaps[1:]
	}
}

func (s *snapshotStack) Pop() ([]byte, bool) {
	if len(s.snaps) == 0 {
		return nil, false
	}
	snap := s.snaps[len(s.snaps)-1]
	s.snaps = s.snaps[:len(s.snaps)-1]
	return snap, true
}

func (s *snapshotStack) Len() int {
	return len(s.snaps)
}

func (s *snapshotStack) Reset() {
	s.snaps = nil
}
