// Package tracker records which async operation, if any, is in flight for
// each section. It is the single-slot gate that keeps a second generate or
// refine from piling onto a section that is already busy, and it drives the
// per-section spinners in the UI.
package tracker

import "sync"

// Op enumerates per-section operation states.
type Op string

const (
	OpIdle       Op = "idle"
	OpGenerating Op = "generating"
	OpRefining   Op = "refining"
)

// Tracker maps section ids to their in-flight operation. Busy state for one
// section never blocks any other section.
type Tracker struct {
	mu  sync.RWMutex
	ops map[string]Op
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{ops: make(map[string]Op)}
}

// Begin claims the section for op. It returns false, leaving state
// untouched, when a previous operation has not settled yet. One slot per
// section; callers must reject the action instead of queueing it.
func (t *Tracker) Begin(sectionID string, op Op) bool {
	if op == OpIdle {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, ok := t.ops[sectionID]; ok && current != OpIdle {
		return false
	}
	t.ops[sectionID] = op
	return true
}

// End returns the section to idle. It must run on every exit path, success
// or failure, so the UI never shows a permanent spinner.
func (t *Tracker) End(sectionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ops, sectionID)
}

// State reports the section's current operation.
func (t *Tracker) State(sectionID string) Op {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if op, ok := t.ops[sectionID]; ok {
		return op
	}
	return OpIdle
}

// Busy reports whether any operation is in flight for the section.
func (t *Tracker) Busy(sectionID string) bool {
	return t.State(sectionID) != OpIdle
}

// Snapshot copies the full busy map for rendering.
func (t *Tracker) Snapshot() map[string]Op {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]Op, len(t.ops))
	for id, op := range t.ops {
		out[id] = op
	}
	return out
}
