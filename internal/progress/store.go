package progress

import "sync"

// SnapshotStore keeps the latest snapshot for pollers such as the dashboard
type SnapshotStore struct {
	mu   sync.RWMutex
	last Snapshot
}

// Render implements Renderer
func (s *SnapshotStore) Render(snap Snapshot) {
	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()
}

// Latest returns the most recent snapshot
func (s *SnapshotStore) Latest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
