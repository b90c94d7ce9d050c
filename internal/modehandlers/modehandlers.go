// Package modehandlers implements the two scope-wide layout-mode
// transitions: dropping a locked subtree back to manual placement, and
// locking a subtree over to hierarchical auto-layout.
package modehandlers

import (
	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

// Result reports what a mode transition touched, for the caller to
// reproject and signal.
type Result struct {
	AffectedGroups []string
	AffectedEdges  []string
}

// UnlockScopeToFree sets FREE mode on scopeGroupID and every descendant
// group, and sets a FREE routingMode override on every edge touching any
// descendant node (source or target). Existing waypoints are left
// untouched — they are cleared lazily by the router on the next position
// update, not eagerly here, so edges don't snap to stale positions
// mid-transition.
func UnlockScopeToFree(scopeGroupID string, g *domain.Graph, vs *viewstate.ViewState) Result {
	groups := descendantGroups(g, scopeGroupID)
	for _, id := range groups {
		vs.SetMode(id, viewstate.ModeFree)
	}

	descendants := subtreeNodeIDs(g, scopeGroupID)
	var affectedEdges []string
	for _, edgeID := range touchingEdges(g, descendants) {
		edge, ok := vs.GetEdge(edgeID)
		if !ok {
			edge = preservedHandles(g, edgeID)
		}
		edge.RoutingMode = viewstate.RoutingModeFree
		vs.SetEdge(edgeID, edge)
		affectedEdges = append(affectedEdges, edgeID)
	}

	return Result{AffectedGroups: groups, AffectedEdges: affectedEdges}
}

// LockScopeAndDescendants sets LOCK mode on scopeGroupID and every
// descendant group, and clears any FREE routingMode override on edges
// touching the subtree so LCG-inferred routing governs them again.
func LockScopeAndDescendants(scopeGroupID string, g *domain.Graph, vs *viewstate.ViewState) Result {
	groups := descendantGroups(g, scopeGroupID)
	for _, id := range groups {
		vs.SetMode(id, viewstate.ModeLock)
	}

	descendants := subtreeNodeIDs(g, scopeGroupID)
	var affectedEdges []string
	for _, edgeID := range touchingEdges(g, descendants) {
		edge, ok := vs.GetEdge(edgeID)
		if !ok {
			continue
		}
		edge.RoutingMode = viewstate.RoutingModeInherit
		vs.SetEdge(edgeID, edge)
		affectedEdges = append(affectedEdges, edgeID)
	}

	return Result{AffectedGroups: groups, AffectedEdges: affectedEdges}
}

// descendantGroups returns scopeGroupID and every descendant id that is
// a Group (has at least one child), the only ids UnlockScopeToFree and
// LockScopeAndDescendants are ever allowed to treat as a containing
// group.
func descendantGroups(g *domain.Graph, scopeGroupID string) []string {
	if !g.HasNode(scopeGroupID) {
		return nil
	}
	var groups []string
	queue := []string{scopeGroupID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, ok := g.GetNode(id)
		if !ok {
			continue
		}
		if n.IsGroup() {
			groups = append(groups, id)
		}
		queue = append(queue, n.Children...)
	}
	return groups
}

// subtreeNodeIDs returns every id in the subtree rooted at scopeGroupID,
// including leaves.
func subtreeNodeIDs(g *domain.Graph, scopeGroupID string) map[string]bool {
	ids := map[string]bool{}
	queue := []string{scopeGroupID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if ids[id] {
			continue
		}
		ids[id] = true
		queue = append(queue, g.Children(id)...)
	}
	return ids
}

// touchingEdges returns every edge in g whose source or target falls
// within ids, including crossing edges whose LCG sits outside the
// subtree entirely (EdgesAt(id) only reaches edges that reside at a
// node inside the subtree, which misses those).
func touchingEdges(g *domain.Graph, ids map[string]bool) []string {
	var out []string
	for _, edgeID := range g.EdgeIDs() {
		edge, ok := g.GetEdge(edgeID)
		if !ok {
			continue
		}
		if ids[edge.Source] || ids[edge.Target] {
			out = append(out, edgeID)
		}
	}
	return out
}

// preservedHandles builds a fresh EdgeGeometry for an edge ViewState has
// never recorded, carrying forward the handle assignment from the
// domain edge's own data so an edge freshly unlocked after restoration
// doesn't lose its handle binding.
func preservedHandles(g *domain.Graph, edgeID string) viewstate.EdgeGeometry {
	edge, ok := g.GetEdge(edgeID)
	if !ok {
		return viewstate.EdgeGeometry{}
	}
	return viewstate.EdgeGeometry{
		SourceHandle: edge.Data.SourceHandle,
		TargetHandle: edge.Data.TargetHandle,
	}
}
