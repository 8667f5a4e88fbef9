package viewer

import (
	"sync"
	"time"

	"github.com/dhima/guild-log-viewer/internal/models"
)

// Snapshot is a point-in-time copy of the list.
type Snapshot struct {
	Kind       models.LogKind `json:"kind" example:"event"`
	Filter     string         `json:"filter,omitempty" example:"Member Join"`
	Rows       []Row          `json:"rows"`
	RenderedAt time.Time      `json:"rendered_at"`
	Sequence   uint64         `json:"sequence" example:"3"`
} // @name Snapshot

// ListView is the single shared list every fetch renders into.
type ListView struct {
	mu   sync.RWMutex
	snap Snapshot
}

// replace swaps the list contents unless a fetch issued after seq has
// already rendered. It reports whether the rows were applied.
func (l *ListView) replace(seq uint64, kind models.LogKind, filter string, rows []Row, at time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= l.snap.Sequence {
		return false
	}
	l.snap = Snapshot{
		Kind:       kind,
		Filter:     filter,
		Rows:       rows,
		RenderedAt: at,
		Sequence:   seq,
	}
	return true
}

// Snapshot returns a copy of the current contents.
func (l *ListView) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := l.snap
	out.Rows = make([]Row, len(l.snap.Rows))
	copy(out.Rows, l.snap.Rows)
	return out
}
