package loader

import (
	"sync"

	"roomboard/internal/models"
)

// SnapshotHolder hands an immutable roster snapshot to concurrent readers
// and lets the loader swap it atomically on refresh. Readers must treat the
// returned snapshot as read-only.
type SnapshotHolder struct {
	mu   sync.RWMutex
	snap *models.Snapshot
}

// NewSnapshotHolder constructs an empty holder.
func NewSnapshotHolder() *SnapshotHolder {
	return &SnapshotHolder{}
}

// Get returns the current snapshot, or nil when none has been loaded yet.
func (h *SnapshotHolder) Get() *models.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Set replaces the current snapshot.
func (h *SnapshotHolder) Set(snap *models.Snapshot) {
	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()
}
