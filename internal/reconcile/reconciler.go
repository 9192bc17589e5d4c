// Package reconcile rebinds colour slots when the active illustration changes.
package reconcile

import (
	"github.com/alexisbeaulieu97/colorpick/internal/slots"
)

// Result describes a completed rebind.
type Result struct {
	// ShapeCount is the colourable shape count used for the new illustration,
	// after the zero-count fallback.
	ShapeCount int
	// Detected is the raw count reported by the classifier.
	Detected int
	// Capacity is the slot capacity after the rebind.
	Capacity int
	// Visible holds replayed entries that have a shape to paint.
	Visible []slots.Entry
	// Hidden holds replayed entries past the end of the new illustration.
	// They stay assigned so a later switch can show them again.
	Hidden []slots.Entry
}

// Reconciler tracks the largest capacity seen during a session.
type Reconciler struct {
	defaultCapacity int
	trackedMax      int
}

// New returns a reconciler whose tracked maximum starts at defaultCapacity.
func New(defaultCapacity int) *Reconciler {
	if defaultCapacity <= 0 {
		defaultCapacity = slots.DefaultCapacity
	}
	return &Reconciler{defaultCapacity: defaultCapacity, trackedMax: defaultCapacity}
}

// TrackedMax returns the largest capacity seen so far.
func (r *Reconciler) TrackedMax() int { return r.trackedMax }

// EffectiveShapeCount applies the zero-count fallback: an illustration with no
// detected colourable shapes is treated as a detection failure.
func (r *Reconciler) EffectiveShapeCount(detected int) int {
	if detected <= 0 {
		return r.defaultCapacity
	}
	return detected
}

// Rebind snapshots mgr, grows the tracked capacity to cover the new
// illustration and the snapshot, rebuilds mgr empty at that capacity and
// replays the snapshot at the same indices.
func (r *Reconciler) Rebind(mgr *slots.Manager, detected int) Result {
	snapshot := mgr.Snapshot()
	shapeCount := r.EffectiveShapeCount(detected)

	r.trackedMax = max(r.trackedMax, shapeCount, len(snapshot), mgr.Capacity())
	mgr.Rebuild(r.trackedMax, snapshot)

	res := Result{
		ShapeCount: shapeCount,
		Detected:   detected,
		Capacity:   mgr.Capacity(),
	}
	for _, entry := range snapshot {
		if entry.Index < shapeCount {
			res.Visible = append(res.Visible, entry)
		} else {
			res.Hidden = append(res.Hidden, entry)
		}
	}
	return res
}
