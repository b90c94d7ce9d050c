package domain

import "sort"

// GraphSchemaVersion identifies the Serializable wire format. Bump it
// whenever the shape of SerializableGraph changes in a breaking way.
const GraphSchemaVersion = "1.0"

// SerializableNode is the JSON-serializable representation of a Node.
type SerializableNode struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parentId"`
	Children []string `json:"children,omitempty"`
	EdgeIDs  []string `json:"edgeIds,omitempty"`
	Data     NodeData `json:"data"`
}

// SerializableEdge is the JSON-serializable representation of an Edge.
type SerializableEdge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Data   EdgeData `json:"data"`
}

// SerializableGraph is the JSON-serializable representation of a Graph,
// with nodes and edges sorted by id for deterministic snapshots.
type SerializableGraph struct {
	SchemaVersion string             `json:"schemaVersion"`
	Nodes         []SerializableNode `json:"nodes"`
	Edges         []SerializableEdge `json:"edges"`
}

// ToSerializable converts g into its JSON-serializable form, including
// the root sentinel so FromSerializable can reconstruct an identical
// tree without special-casing it.
func (g *Graph) ToSerializable() *SerializableGraph {
	sg := &SerializableGraph{SchemaVersion: GraphSchemaVersion}

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := g.nodes[id]
		sg.Nodes = append(sg.Nodes, SerializableNode{
			ID:       n.ID,
			ParentID: n.ParentID,
			Children: append([]string(nil), n.Children...),
			EdgeIDs:  append([]string(nil), n.EdgeIDs...),
			Data:     n.Data,
		})
	}

	edgeIDs := make([]string, 0, len(g.edges))
	for id := range g.edges {
		edgeIDs = append(edgeIDs, id)
	}
	sort.Strings(edgeIDs)
	for _, id := range edgeIDs {
		e := g.edges[id]
		sg.Edges = append(sg.Edges, SerializableEdge{ID: e.ID, Source: e.Source, Target: e.Target, Data: e.Data})
	}

	return sg
}

// FromSerializable reconstructs a Graph from sg. It does not validate
// structural invariants beyond what the map assembly itself enforces
// (duplicate ids overwrite rather than error) — a snapshot produced by
// ToSerializable is always well-formed, and a hand-edited or corrupted
// one is the caller's responsibility to reject before calling this.
func FromSerializable(sg *SerializableGraph) *Graph {
	g := &Graph{nodes: map[string]*Node{}, edges: map[string]*Edge{}}
	for _, n := range sg.Nodes {
		g.nodes[n.ID] = &Node{
			ID:       n.ID,
			ParentID: n.ParentID,
			Children: append([]string(nil), n.Children...),
			EdgeIDs:  append([]string(nil), n.EdgeIDs...),
			Data:     n.Data,
		}
	}
	if _, ok := g.nodes[RootID]; !ok {
		g.nodes[RootID] = &Node{ID: RootID}
	}
	for _, e := range sg.Edges {
		g.edges[e.ID] = &Edge{ID: e.ID, Source: e.Source, Target: e.Target, Data: e.Data}
	}
	return g
}
