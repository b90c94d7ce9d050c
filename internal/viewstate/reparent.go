package viewstate

import "github.com/archcanvas/archcanvas/internal/geometry"

// GroupWorldFunc resolves a group id (or "" for root) to its absolute
// world top-left corner. Implementations must treat an unknown or root
// id as (0, 0).
type GroupWorldFunc func(groupID string) geometry.Point

// AdjustForReparent preserves the world position of a moved node across
// a parent-frame change: since all ViewState positions are already
// absolute-world, this is the identity transform on vs.nodes/vs.groups —
// there is no relative coordinate to re-derive. It exists, and takes the
// old/new parent world positions, so a caller (or a future consumer that
// does store relative coordinates) has a single stable call site;
// documented here as an explicit no-op rather than silently skipped, so
// a reviewer does not mistake the absence of an adjustment for a missed
// case.
func AdjustForReparent(vs *ViewState, nodeID, oldParentID, newParentID string, getGroupWorld GroupWorldFunc) *ViewState {
	_ = oldParentID
	_ = newParentID
	_ = getGroupWorld
	_, hasNode := vs.GetNode(nodeID)
	_, hasGroup := vs.GetGroup(nodeID)
	if !hasNode && !hasGroup {
		return vs
	}
	// No-op: absolute coordinates already encode world position.
	return vs
}
