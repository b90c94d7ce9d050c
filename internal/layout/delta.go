package layout

import "github.com/archcanvas/archcanvas/internal/viewstate"

// Delta is the sparse patch a hierarchical layout run produces, merged
// into ViewState by the orchestrator.
type Delta struct {
	Node  map[string]viewstate.NodeGeometry
	Group map[string]viewstate.GroupGeometry
	Edge  map[string]viewstate.EdgeGeometry
}

// newDelta returns an empty, ready-to-populate Delta.
func newDelta() Delta {
	return Delta{
		Node:  map[string]viewstate.NodeGeometry{},
		Group: map[string]viewstate.GroupGeometry{},
		Edge:  map[string]viewstate.EdgeGeometry{},
	}
}

// Merge applies d onto vs in place, preferring d's entries. Edge handles
// already present in vs are kept even when d carries an edge patch; only
// Waypoints and RoutingMode are overwritten by a layout run.
func (d Delta) Merge(vs *viewstate.ViewState) {
	for id, g := range d.Node {
		vs.SetNode(id, g)
	}
	for id, g := range d.Group {
		vs.SetGroup(id, g)
	}
	for id, patch := range d.Edge {
		existing, ok := vs.GetEdge(id)
		if ok {
			patch.SourceHandle = preferNonEmpty(patch.SourceHandle, existing.SourceHandle)
			patch.TargetHandle = preferNonEmpty(patch.TargetHandle, existing.TargetHandle)
		}
		vs.SetEdge(id, patch)
	}
}

func preferNonEmpty(newValue, existing string) string {
	if existing != "" {
		return existing
	}
	return newValue
}
