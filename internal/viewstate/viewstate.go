// Package viewstate implements the ViewState layer: the process-wide
// authoritative store of absolute geometry, waypoints, handle
// assignments and per-group layout mode, keyed by the same ids as the
// Domain graph.
package viewstate

import "github.com/archcanvas/archcanvas/internal/geometry"

// Mode is a per-group layout discipline.
type Mode int

const (
	// ModeFree is manual placement with live obstacle-avoiding routing.
	ModeFree Mode = iota
	// ModeLock is hierarchical auto-layout ownership of geometry.
	ModeLock
)

func (m Mode) String() string {
	if m == ModeLock {
		return "LOCK"
	}
	return "FREE"
}

// NodeGeometry is the absolute world position and size stored for any id
// rendered as a leaf cell. Groups additionally receive a NodeGeometry
// mirror for the renderer.
type NodeGeometry struct {
	X, Y, W, H float64
	Ports      map[string]geometry.Point
}

// Rect returns g's geometry as a geometry.Rect.
func (g NodeGeometry) Rect() geometry.Rect {
	return geometry.Rect{X: g.X, Y: g.Y, W: g.W, H: g.H}
}

// GroupGeometry is the absolute world frame stored for Group nodes.
type GroupGeometry struct {
	X, Y, W, H float64
}

// Rect returns g's geometry as a geometry.Rect.
func (g GroupGeometry) Rect() geometry.Rect {
	return geometry.Rect{X: g.X, Y: g.Y, W: g.W, H: g.H}
}

// RoutingModeOverride is an explicit per-edge override of the LCG-
// inferred routing mode, set by the mode handlers for edges that cross a
// mode transition boundary.
type RoutingModeOverride int

const (
	// RoutingModeInherit means no override is set: the effective mode is
	// the mode of the LCG group that owns the edge.
	RoutingModeInherit RoutingModeOverride = iota
	RoutingModeFree
	RoutingModeLock
)

// EdgeGeometry is the per-edge geometry ViewState owns.
type EdgeGeometry struct {
	Waypoints    []geometry.Point
	SourceHandle string
	TargetHandle string
	RoutingMode  RoutingModeOverride
}

// ViewState is the geometry ownership store. The zero value is not
// usable; construct with New.
type ViewState struct {
	nodes  map[string]NodeGeometry
	groups map[string]GroupGeometry
	edges  map[string]EdgeGeometry
	layout map[string]Mode
}

// New returns an empty ViewState.
func New() *ViewState {
	return &ViewState{
		nodes:  map[string]NodeGeometry{},
		groups: map[string]GroupGeometry{},
		edges:  map[string]EdgeGeometry{},
		layout: map[string]Mode{},
	}
}

// Clone returns a deep-enough copy of vs: independent maps whose values
// are themselves value types, with the reference fields (NodeGeometry.Ports
// and the edge waypoint slices) copied explicitly, so writes to the clone
// never show through in vs.
func (vs *ViewState) Clone() *ViewState {
	next := New()
	for id, g := range vs.nodes {
		if g.Ports != nil {
			ports := make(map[string]geometry.Point, len(g.Ports))
			for k, v := range g.Ports {
				ports[k] = v
			}
			g.Ports = ports
		}
		next.nodes[id] = g
	}
	for id, g := range vs.groups {
		next.groups[id] = g
	}
	for id, e := range vs.edges {
		if e.Waypoints != nil {
			e.Waypoints = append([]geometry.Point(nil), e.Waypoints...)
		}
		next.edges[id] = e
	}
	for id, m := range vs.layout {
		next.layout[id] = m
	}
	return next
}

// GetNode returns the node geometry for id, if present.
func (vs *ViewState) GetNode(id string) (NodeGeometry, bool) {
	g, ok := vs.nodes[id]
	return g, ok
}

// SetNode sets the node geometry for id.
func (vs *ViewState) SetNode(id string, g NodeGeometry) {
	vs.nodes[id] = g
}

// DeleteNode removes the node geometry entry for id.
func (vs *ViewState) DeleteNode(id string) {
	delete(vs.nodes, id)
}

// GetGroup returns the group geometry for id, if present.
func (vs *ViewState) GetGroup(id string) (GroupGeometry, bool) {
	g, ok := vs.groups[id]
	return g, ok
}

// SetGroup sets the group geometry for id.
func (vs *ViewState) SetGroup(id string, g GroupGeometry) {
	vs.groups[id] = g
}

// DeleteGroup removes the group geometry entry for id.
func (vs *ViewState) DeleteGroup(id string) {
	delete(vs.groups, id)
}

// GetEdge returns the edge geometry for id, if present.
func (vs *ViewState) GetEdge(id string) (EdgeGeometry, bool) {
	e, ok := vs.edges[id]
	return e, ok
}

// SetEdge sets the edge geometry for id.
func (vs *ViewState) SetEdge(id string, e EdgeGeometry) {
	vs.edges[id] = e
}

// DeleteEdge removes the edge geometry entry for id.
func (vs *ViewState) DeleteEdge(id string) {
	delete(vs.edges, id)
}

// NodeIDs returns every id with a node geometry entry.
func (vs *ViewState) NodeIDs() []string {
	ids := make([]string, 0, len(vs.nodes))
	for id := range vs.nodes {
		ids = append(ids, id)
	}
	return ids
}

// GroupIDs returns every id with a group geometry entry.
func (vs *ViewState) GroupIDs() []string {
	ids := make([]string, 0, len(vs.groups))
	for id := range vs.groups {
		ids = append(ids, id)
	}
	return ids
}

// EdgeIDs returns every id with an edge geometry entry.
func (vs *ViewState) EdgeIDs() []string {
	ids := make([]string, 0, len(vs.edges))
	for id := range vs.edges {
		ids = append(ids, id)
	}
	return ids
}

// GetMode returns the layout mode for groupID, defaulting to ModeFree
// when no mode has been recorded — including immediately after a fresh
// restore, before any mode has ever been set explicitly.
func (vs *ViewState) GetMode(groupID string) Mode {
	m, ok := vs.layout[groupID]
	if !ok {
		return ModeFree
	}
	return m
}

// SetMode records the layout mode for groupID.
func (vs *ViewState) SetMode(groupID string, mode Mode) {
	vs.layout[groupID] = mode
}

// DeleteMode removes any recorded layout mode for groupID.
func (vs *ViewState) DeleteMode(groupID string) {
	delete(vs.layout, groupID)
}
