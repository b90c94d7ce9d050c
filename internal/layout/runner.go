package layout

import (
	"context"
	"fmt"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

// Config carries the small set of numeric knobs RunScopeLayout needs
// beyond the Engine itself: the grid used to convert pixels to the
// engine's integer units, and the engine's own container padding
// supplied by the caller's configuration.
type Config struct {
	GridSize         float64
	ContainerPadding float64
	DefaultNodeW     float64
	DefaultNodeH     float64
	DefaultGroupW    float64
	DefaultGroupH    float64
}

// RunScopeLayout wraps the external hierarchical layout engine: it
// extracts the subtree rooted at scopeID, runs the engine in
// scope-local integer units, and reprojects the result back into
// absolute world pixel coordinates, returning a Delta the caller merges
// into ViewState. RunScopeLayout never mutates g or vs.
func RunScopeLayout(ctx context.Context, scopeID string, g *domain.Graph, vs *viewstate.ViewState, engine Engine, opts Options, cfg Config) (Delta, error) {
	subtree, subtreeIDs := extractSubtree(g, scopeID)
	injectSizes(subtree, vs, cfg)

	anchor := preLayoutAnchor(scopeID, vs)

	result, err := engine.Layout(ctx, subtree, opts)
	if err != nil {
		return Delta{}, &LayoutEngineError{ScopeID: scopeID, Cause: err}
	}

	scale := cfg.GridSize
	if scale <= 0 {
		scale = 1
	}

	delta := newDelta()
	absolute := map[string]geometry.Point{scopeID: anchor}

	// Translate only the scope group's own top-left to the pre-layout
	// anchor (step 6); everything else is reprojected relative to it.
	applyGroupOrNodeGeometry(delta, g, vs, scopeID, geometry.Rect{X: anchor.X, Y: anchor.Y}, cfg)

	queue := []string{scopeID}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]
		parentAbs := absolute[parentID]

		children := g.Children(parentID)
		if len(children) == 0 {
			continue
		}

		// Step 5: capture each direct child's layout-output position
		// ("relative") before computing anything else, so a later step
		// cannot be mistaken for having corrupted it via translation.
		relative := make(map[string]geometry.Point, len(children))
		for _, childID := range children {
			if !subtreeIDs[childID] {
				continue
			}
			pos, ok := result.Nodes[childID]
			if !ok {
				continue
			}
			relative[childID] = geometry.Point{
				X: float64(pos.X) * scale,
				Y: float64(pos.Y) * scale,
			}
		}
		if len(relative) == 0 {
			continue
		}
		minOffset := minPoint(relative)

		for _, childID := range children {
			rel, ok := relative[childID]
			if !ok {
				continue
			}
			childAbs := geometry.Point{
				X: parentAbs.X + cfg.ContainerPadding + (rel.X - minOffset.X),
				Y: parentAbs.Y + cfg.ContainerPadding + (rel.Y - minOffset.Y),
			}
			childAbs = geometry.SnapPoint(childAbs, cfg.GridSize)
			absolute[childID] = childAbs

			frame := geometry.Rect{X: childAbs.X, Y: childAbs.Y}
			if pos, ok := result.Nodes[childID]; ok {
				frame.W = float64(pos.W) * scale
				frame.H = float64(pos.H) * scale
			}
			applyGroupOrNodeGeometry(delta, g, vs, childID, frame, cfg)

			if n, ok := g.GetNode(childID); ok && n.IsGroup() {
				queue = append(queue, childID)
			}
		}
	}

	for _, edgeID := range subtreeEdgeIDs(g, subtreeIDs) {
		edge, ok := g.GetEdge(edgeID)
		if !ok {
			continue
		}
		waypoints := waypointsFor(result, edgeID, scale)
		container := domain.FindLCG(g, []string{edge.Source, edge.Target})
		containerAbs, ok := absolute[container]
		if !ok {
			continue
		}
		translated := make([]geometry.Point, len(waypoints))
		for i, p := range waypoints {
			translated[i] = geometry.Translate(p, containerAbs)
		}
		if !geometry.IsOrthogonalPolyline(translated, 1) {
			// Diagonal output: drop the polyline entirely so the
			// renderer falls back to its own L-shape instead of rendering a
			// diagonal edge.
			continue
		}
		patch := viewstate.EdgeGeometry{Waypoints: translated}
		if existing, ok := vs.GetEdge(edgeID); ok {
			patch.RoutingMode = existing.RoutingMode
		}
		delta.Edge[edgeID] = patch
	}

	return delta, nil
}

// extractSubtree builds the Engine-facing Subtree for scopeID (step 1)
// and returns the set of node ids it contains.
func extractSubtree(g *domain.Graph, scopeID string) (Subtree, map[string]bool) {
	ids := map[string]bool{}
	nodes := map[string]InputNode{}
	var edges []InputEdge

	queue := []string{scopeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if ids[id] {
			continue
		}
		ids[id] = true
		n, ok := g.GetNode(id)
		if !ok {
			continue
		}
		nodes[id] = InputNode{ID: id, Children: append([]string(nil), n.Children...), IsGroup: n.IsGroup()}
		queue = append(queue, n.Children...)
	}
	for _, id := range subtreeEdgeIDs(g, ids) {
		e, ok := g.GetEdge(id)
		if !ok {
			continue
		}
		edges = append(edges, InputEdge{ID: e.ID, Source: e.Source, Target: e.Target})
	}

	return Subtree{RootID: scopeID, Nodes: nodes, Edges: edges}, ids
}

// subtreeEdgeIDs returns every edge whose source and target both fall
// within ids (an edge only ever needs laying out if the whole edge is
// inside the scope; cross-scope edges are left to the enclosing scope).
func subtreeEdgeIDs(g *domain.Graph, ids map[string]bool) []string {
	var out []string
	for id := range ids {
		for _, edgeID := range g.EdgesAt(id) {
			e, ok := g.GetEdge(edgeID)
			if !ok {
				continue
			}
			if ids[e.Source] && ids[e.Target] {
				out = append(out, edgeID)
			}
		}
	}
	return out
}

// injectSizes fills each subtree node's Size in the engine's integer
// units from ViewState's known pixel sizes (step 2), falling back to
// configured defaults for nodes ViewState has never seen.
func injectSizes(subtree Subtree, vs *viewstate.ViewState, cfg Config) {
	scale := cfg.GridSize
	if scale <= 0 {
		scale = 1
	}
	for id, n := range subtree.Nodes {
		var w, h float64
		if n.IsGroup {
			if geo, ok := vs.GetGroup(id); ok {
				w, h = geo.W, geo.H
			} else {
				w, h = cfg.DefaultGroupW, cfg.DefaultGroupH
			}
		} else {
			if geo, ok := vs.GetNode(id); ok {
				w, h = geo.W, geo.H
			} else {
				w, h = cfg.DefaultNodeW, cfg.DefaultNodeH
			}
		}
		n.Size = NodeSize{ID: id, W: int(w / scale), H: int(h / scale)}
		subtree.Nodes[id] = n
	}
}

// preLayoutAnchor returns scopeID's pre-layout world top-left from
// ViewState, or (0,0) if it has none yet (first-ever layout of a scope).
func preLayoutAnchor(scopeID string, vs *viewstate.ViewState) geometry.Point {
	if geo, ok := vs.GetGroup(scopeID); ok {
		return geometry.Point{X: geo.X, Y: geo.Y}
	}
	if geo, ok := vs.GetNode(scopeID); ok {
		return geometry.Point{X: geo.X, Y: geo.Y}
	}
	return geometry.Point{}
}

// applyGroupOrNodeGeometry records frame into delta as a group or node
// patch depending on id's Domain kind, honouring step 8's auto-fit rule:
// only size a group to the engine's output when ViewState has no
// existing size for it, otherwise keep the original frame so toggling
// LOCK on and off doesn't resize the group.
func applyGroupOrNodeGeometry(delta Delta, g *domain.Graph, vs *viewstate.ViewState, id string, frame geometry.Rect, cfg Config) {
	n, ok := g.GetNode(id)
	isGroup := ok && n.IsGroup()

	if isGroup {
		if existing, ok := vs.GetGroup(id); ok {
			frame.W, frame.H = existing.W, existing.H
		} else if frame.W == 0 && frame.H == 0 {
			frame.W, frame.H = cfg.DefaultGroupW, cfg.DefaultGroupH
		}
		delta.Group[id] = viewstate.GroupGeometry{X: frame.X, Y: frame.Y, W: frame.W, H: frame.H}
		// Groups also receive a node mirror for the renderer.
		mirrorW, mirrorH := frame.W, frame.H
		delta.Node[id] = viewstate.NodeGeometry{X: frame.X, Y: frame.Y, W: mirrorW, H: mirrorH}
		return
	}

	if frame.W == 0 && frame.H == 0 {
		if existing, ok := vs.GetNode(id); ok {
			frame.W, frame.H = existing.W, existing.H
		} else {
			frame.W, frame.H = cfg.DefaultNodeW, cfg.DefaultNodeH
		}
	}
	var ports map[string]geometry.Point
	if existing, ok := vs.GetNode(id); ok {
		ports = existing.Ports
	}
	delta.Node[id] = viewstate.NodeGeometry{X: frame.X, Y: frame.Y, W: frame.W, H: frame.H, Ports: ports}
}

func minPoint(points map[string]geometry.Point) geometry.Point {
	first := true
	var min geometry.Point
	for _, p := range points {
		if first {
			min = p
			first = false
			continue
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
	}
	return min
}

func waypointsFor(result Result, edgeID string, scale float64) []geometry.Point {
	for _, section := range result.Sections {
		if section.EdgeID != edgeID {
			continue
		}
		points := make([]geometry.Point, 0, len(section.BendPoints)+2)
		points = append(points, geometry.Point{X: float64(section.StartPoint[0]) * scale, Y: float64(section.StartPoint[1]) * scale})
		for _, bp := range section.BendPoints {
			points = append(points, geometry.Point{X: float64(bp[0]) * scale, Y: float64(bp[1]) * scale})
		}
		points = append(points, geometry.Point{X: float64(section.EndPoint[0]) * scale, Y: float64(section.EndPoint[1]) * scale})
		return points
	}
	return nil
}

// DescribeScope is a small debugging helper that reports how many ids a
// layout run over scopeID would touch, without invoking the engine.
func DescribeScope(g *domain.Graph, scopeID string) (string, error) {
	if !g.HasNode(scopeID) {
		return "", fmt.Errorf("layout: unknown scope %q", scopeID)
	}
	_, ids := extractSubtree(g, scopeID)
	return fmt.Sprintf("scope %s: %d nodes", scopeID, len(ids)), nil
}
