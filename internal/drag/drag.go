// Package drag implements live node and group dragging: direct
// ViewState writes that bypass the orchestrator's apply pipeline, plus
// the containment tests that decide whether a drag implies a reparent.
package drag

import (
	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

// DragNode snaps newPosition to the grid and writes it into
// ViewState.node[id], returning the node's new world rectangle.
func DragNode(vs *viewstate.ViewState, id string, newPosition geometry.Point, gridSize float64) geometry.Rect {
	snapped := geometry.SnapPoint(newPosition, gridSize)
	geo, _ := vs.GetNode(id)
	geo.X, geo.Y = snapped.X, snapped.Y
	vs.SetNode(id, geo)
	return geo.Rect()
}

// GroupDragResult reports what DragGroup touched.
type GroupDragResult struct {
	MovedIDs []string // groupID followed by every descendant with a ViewState node entry
	Delta    geometry.Point
	Rect     geometry.Rect
}

// DragGroup moves groupID to newPosition and translates every descendant
// with a ViewState entry by the same delta, so the whole subtree follows
// the group without relying on the renderer's own nesting. The delta is
// computed against tracker's recorded previous position when available,
// falling back to ViewState's current position, and finally to
// newPosition itself (delta zero) on the very first frame of a drag.
func DragGroup(tracker *Tracker, g *domain.Graph, vs *viewstate.ViewState, groupID string, newPosition geometry.Point, gridSize float64) GroupDragResult {
	snapped := geometry.SnapPoint(newPosition, gridSize)

	current, ok := vs.GetGroup(groupID)
	currentPos := geometry.Point{X: current.X, Y: current.Y}
	if !ok {
		currentPos = snapped
	}
	previous := tracker.PreviousOrDefault(groupID, currentPos)
	delta := geometry.Delta(previous, snapped)

	current.X, current.Y = snapped.X, snapped.Y
	vs.SetGroup(groupID, current)
	if mirror, ok := vs.GetNode(groupID); ok {
		mirror.X, mirror.Y = snapped.X, snapped.Y
		vs.SetNode(groupID, mirror)
	}

	moved := []string{groupID}
	queue := g.Children(groupID)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if geo, ok := vs.GetNode(id); ok {
			geo.X += delta.X
			geo.Y += delta.Y
			vs.SetNode(id, geo)
			moved = append(moved, id)
		}
		if geo, ok := vs.GetGroup(id); ok {
			geo.X += delta.X
			geo.Y += delta.Y
			vs.SetGroup(id, geo)
		}
		queue = append(queue, g.Children(id)...)
	}

	tracker.Record(groupID, snapped)
	return GroupDragResult{MovedIDs: moved, Delta: delta, Rect: current.Rect()}
}

// EndDrag clears groupID's tracked previous position. Call this once
// when a drag gesture ends.
func EndDrag(tracker *Tracker, groupID string) {
	tracker.Clear(groupID)
}

// ReparentDecision is the outcome of testing a moved node or group for
// containment: the caller should dispatch a move-node intent for
// NodeID/NewParentID, and — if UnlockGroupID is non-empty — unlock that
// group to FREE mode first, since a manual reparent implies manual
// placement.
type ReparentDecision struct {
	NodeID        string
	NewParentID   string
	UnlockGroupID string
}

// DecideNodeReparent tests a moved non-group node's rectangle for full
// containment against every registered group, and reports a reparent
// decision if the deepest containing group differs from the node's
// current domain parent. ok is false when no reparent is needed.
func DecideNodeReparent(g *domain.Graph, vs *viewstate.ViewState, nodeID string, rect geometry.Rect) (ReparentDecision, bool) {
	domainParent, _ := domain.FindParent(g, nodeID)
	newParent := ContainingGroup(g, vs, rect, nodeID)
	if newParent == "" {
		newParent = domain.RootID
	}
	if newParent == domainParent {
		return ReparentDecision{}, false
	}

	decision := ReparentDecision{NodeID: nodeID, NewParentID: newParent}
	if newParent != domain.RootID && vs.GetMode(newParent) == viewstate.ModeLock {
		decision.UnlockGroupID = newParent
	}
	return decision, true
}

// DecideGroupAbsorption finds every other node whose rectangle is now
// fully inside a moved group's rectangle, and reports a reparent
// decision for each one not already a child of groupID.
func DecideGroupAbsorption(g *domain.Graph, vs *viewstate.ViewState, groupID string, groupRect geometry.Rect) []ReparentDecision {
	var decisions []ReparentDecision
	for _, nodeID := range NewlyContainedNodes(g, vs, groupID, groupRect) {
		parent, _ := domain.FindParent(g, nodeID)
		if parent == groupID {
			continue
		}
		decisions = append(decisions, ReparentDecision{NodeID: nodeID, NewParentID: groupID})
	}
	return decisions
}
