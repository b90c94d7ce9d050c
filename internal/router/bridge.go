package router

import "github.com/archcanvas/archcanvas/internal/viewstate"

// ClearFreeOverrideOnTouch clears edgeID's RoutingModeFree override in
// vs, if one is set. A caller assembling a BatchUpdateObstaclesAndReroute
// connector list calls this once per connector before the batch runs:
// the first reroute that touches an edge's source or target after a
// LOCK-to-FREE transition is the trigger that lets the edge's mode
// revert to whatever its LCG group's mode says next, rather than
// staying pinned to FREE forever. Calling it on an edge with no
// override, or one already cleared, is a no-op.
func ClearFreeOverrideOnTouch(vs *viewstate.ViewState, edgeID string) {
	e, ok := vs.GetEdge(edgeID)
	if !ok || e.RoutingMode != viewstate.RoutingModeFree {
		return
	}
	e.RoutingMode = viewstate.RoutingModeInherit
	vs.SetEdge(edgeID, e)
}
