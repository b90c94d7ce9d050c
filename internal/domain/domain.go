// Package domain implements the structural Domain graph: a tree of
// nodes and groups rooted at a sentinel root, carrying edges attached at
// the Lowest Common Group of their endpoints. Every mutation in this
// package is pure — it receives a *Graph and returns a new *Graph (or an
// error), never mutating its receiver in place — so a caller can hold a
// reference to "the current graph" and swap it atomically after each
// committed intent.
//
// Unmodified nodes and edges are shared by pointer between graph versions
// (structural sharing): each mutation copies the id maps and only the
// nodes and edges it changes. Callers must never mutate a *Node or *Edge
// value obtained from a Graph — treat every returned value as read-only.
package domain

import "sort"

// RootID is the sentinel id of the tree's root. It never appears in
// ViewState and is never emitted by the renderer projector.
const RootID = "root"

// NodeData is the opaque payload the Domain layer stores per node.
// IsGroup is a creation-time hint consumed by the renderer projector
// (§4.9); it does not by itself make a node a Group — that is purely a
// function of child count (§3 invariant 5).
type NodeData struct {
	Label   string
	Icon    string
	IsGroup bool
}

// EdgeData is the opaque payload the Domain layer stores per edge,
// including optional handle hints consumed by ViewState on creation.
type EdgeData struct {
	SourceHandle string
	TargetHandle string
}

// Node is one vertex of the Domain tree.
type Node struct {
	ID       string
	ParentID string // "" only for the root sentinel
	Children []string
	EdgeIDs  []string // edges residing at this node (this node is their LCG)
	Data     NodeData
}

// IsGroup reports whether n is a Group: a node is a Group iff it has at
// least one child.
func (n *Node) IsGroup() bool {
	return len(n.Children) > 0
}

// Edge is one Domain edge between two node ids.
type Edge struct {
	ID     string
	Source string
	Target string
	Data   EdgeData
}

// Graph is an immutable snapshot of the Domain tree.
type Graph struct {
	nodes map[string]*Node
	edges map[string]*Edge
}

// New returns an empty Graph containing only the root sentinel.
func New() *Graph {
	return &Graph{
		nodes: map[string]*Node{
			RootID: {ID: RootID, ParentID: ""},
		},
		edges: map[string]*Edge{},
	}
}

// clone returns a shallow copy of g's top-level maps. Node and Edge
// values are not copied here; callers that intend to modify a specific
// node or edge must replace its map entry with a fresh value (see
// withNode/withEdge) rather than mutating the pointee.
func (g *Graph) clone() *Graph {
	nodes := make(map[string]*Node, len(g.nodes))
	for id, n := range g.nodes {
		nodes[id] = n
	}
	edges := make(map[string]*Edge, len(g.edges))
	for id, e := range g.edges {
		edges[id] = e
	}
	return &Graph{nodes: nodes, edges: edges}
}

// withNode returns a clone of g with node replacing whatever entry (if
// any) currently exists for node.ID.
func (g *Graph) withNode(node *Node) *Graph {
	next := g.clone()
	next.nodes[node.ID] = node
	return next
}

// withEdge returns a clone of g with edge replacing whatever entry (if
// any) currently exists for edge.ID.
func (g *Graph) withEdge(edge *Edge) *Graph {
	next := g.clone()
	next.edges[edge.ID] = edge
	return next
}

// copyNode returns a value copy of n with independently-owned slices, so
// callers can append to Children/EdgeIDs without aliasing the original.
func copyNode(n *Node) *Node {
	cp := *n
	if n.Children != nil {
		cp.Children = append([]string(nil), n.Children...)
	}
	if n.EdgeIDs != nil {
		cp.EdgeIDs = append([]string(nil), n.EdgeIDs...)
	}
	return &cp
}

// GetNode returns the node with the given id, if any.
func (g *Graph) GetNode(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// GetEdge returns the edge with the given id, if any.
func (g *Graph) GetEdge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// HasNode reports whether id exists in the graph (root included).
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeIDs returns every non-root node id in the graph, in no particular
// order. Callers that need determinism should sort the result.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		if id == RootID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// EdgeIDs returns every edge id in the graph, in no particular order.
func (g *Graph) EdgeIDs() []string {
	ids := make([]string, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	return ids
}

// Children returns the ordered child ids of id, or nil if id has none or
// does not exist.
func (g *Graph) Children(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return n.Children
}

// EdgesAt returns the ids of edges residing at id (id is their LCG).
func (g *Graph) EdgesAt(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return n.EdgeIDs
}

// FindParent returns the parent id of id, if id exists and is not root.
func FindParent(g *Graph, id string) (string, bool) {
	n, ok := g.nodes[id]
	if !ok || id == RootID {
		return "", false
	}
	return n.ParentID, true
}

// FindNodeByID returns the node with the given id, if any. It is an
// alias for Graph.GetNode kept for callers that prefer the explicit
// lookup-by-id name.
func FindNodeByID(g *Graph, id string) (*Node, bool) {
	return g.GetNode(id)
}

// PathToRoot returns the path from the root sentinel down to id,
// inclusive of both ends (root first). It returns nil if id does not
// exist. Used by FindLCG to compute the deepest common prefix.
func PathToRoot(g *Graph, id string) []string {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	var reversed []string
	cur := id
	for {
		reversed = append(reversed, cur)
		if cur == RootID {
			break
		}
		parent, ok := FindParent(g, cur)
		if !ok {
			// Should not happen for a well-formed graph (invariant 4),
			// but terminate defensively rather than loop forever.
			break
		}
		cur = parent
	}
	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}

// FindLCG returns the Lowest Common Group of ids: the deepest node on
// every id's root-to-node path prefix. An empty or single-id selection
// resolves to that id's parent (or root, for a selection containing
// root itself). Unknown ids are skipped; if none of ids exist, FindLCG
// returns RootID.
func FindLCG(g *Graph, ids []string) string {
	var paths [][]string
	for _, id := range ids {
		if p := PathToRoot(g, id); p != nil {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return RootID
	}
	if len(paths) == 1 {
		// Single-node selection: its LCG is its parent (root for a
		// direct child of root).
		path := paths[0]
		if len(path) <= 1 {
			return RootID
		}
		return path[len(path)-2]
	}

	shortest := paths[0]
	for _, p := range paths[1:] {
		if len(p) < len(shortest) {
			shortest = p
		}
	}
	lcg := RootID
	for i := range shortest {
		candidate := shortest[i]
		for _, p := range paths {
			if i >= len(p) || p[i] != candidate {
				return lcg
			}
		}
		lcg = candidate
	}
	return lcg
}

// sortedCopy returns a sorted copy of ids, used anywhere the Domain
// layer needs deterministic iteration order over a map-derived id set.
func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}
