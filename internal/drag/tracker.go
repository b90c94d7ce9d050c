package drag

import "github.com/archcanvas/archcanvas/internal/geometry"

// Tracker remembers each group's previous-frame position across a live
// drag. It exists because the renderer can update a group's position
// before the drag callback fires, so computing "delta since last frame"
// from ViewState alone would sometimes read the already-moved value.
type Tracker struct {
	previous map[string]geometry.Point
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{previous: map[string]geometry.Point{}}
}

// PreviousOrDefault returns the tracked previous position for groupID if
// one is recorded, else viewstatePosition (the fallback priority is
// explicit tracker, then ViewState, then the caller's own "no delta"
// default).
func (t *Tracker) PreviousOrDefault(groupID string, viewstatePosition geometry.Point) geometry.Point {
	if p, ok := t.previous[groupID]; ok {
		return p
	}
	return viewstatePosition
}

// Record stores groupID's new position as the previous position for the
// next frame.
func (t *Tracker) Record(groupID string, position geometry.Point) {
	t.previous[groupID] = position
}

// Clear removes groupID's tracked position. Call this when a drag ends.
func (t *Tracker) Clear(groupID string) {
	delete(t.previous, groupID)
}
