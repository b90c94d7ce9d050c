package domain

// AddNode adds a new node with the given id under parentID. It fails
// with *DuplicateIdError if id already exists anywhere in the tree, and
// with *NotFoundError if parentID does not exist.
func AddNode(g *Graph, id, parentID string, data NodeData) (*Graph, error) {
	if g.HasNode(id) {
		return g, &DuplicateIdError{ID: id}
	}
	if _, exists := g.GetEdge(id); exists {
		return g, &DuplicateIdError{ID: id}
	}
	parent, ok := g.GetNode(parentID)
	if !ok {
		return g, &NotFoundError{ID: parentID}
	}

	next := g.withNode(&Node{ID: id, ParentID: parentID, Data: data})
	updatedParent := copyNode(parent)
	updatedParent.Children = append(updatedParent.Children, id)
	next = next.withNode(updatedParent)
	return next, nil
}

// AddEdge adds a new edge between src and tgt, placing it at
// FindLCG(src, tgt). It fails with *DuplicateIdError if id already
// exists, or *UnknownEndpointError if either endpoint is missing.
func AddEdge(g *Graph, id, src, tgt string, data EdgeData) (*Graph, error) {
	if _, exists := g.GetEdge(id); exists {
		return g, &DuplicateIdError{ID: id}
	}
	if g.HasNode(id) {
		return g, &DuplicateIdError{ID: id}
	}
	if !g.HasNode(src) {
		return g, &UnknownEndpointError{ID: src}
	}
	if !g.HasNode(tgt) {
		return g, &UnknownEndpointError{ID: tgt}
	}

	container := FindLCG(g, []string{src, tgt})
	edge := &Edge{ID: id, Source: src, Target: tgt, Data: data}

	next := g.withEdge(edge)
	containerNode, _ := next.GetNode(container)
	updated := copyNode(containerNode)
	updated.EdgeIDs = append(updated.EdgeIDs, id)
	next = next.withNode(updated)
	return next, nil
}

// DeleteNode removes the subtree rooted at id, along with every edge
// anywhere in the tree incident to id or any of its descendants.
// Deleting an id that does not exist is a no-op that returns the graph
// unchanged error-free: it leaves the tree in the state the caller
// wanted (the node is gone either way).
func DeleteNode(g *Graph, id string) (*Graph, error) {
	if id == RootID {
		return g, &NotFoundError{ID: id}
	}
	if !g.HasNode(id) {
		return g, nil
	}

	doomed := subtreeIDs(g, id)
	next := g.clone()

	// Purge every edge incident to a doomed node, wherever it resides.
	for edgeID, e := range next.edges {
		if doomed[e.Source] || doomed[e.Target] {
			delete(next.edges, edgeID)
		}
	}
	// Remove doomed edge ids from every surviving node's EdgeIDs list.
	for nid, n := range next.nodes {
		if doomed[nid] {
			continue
		}
		filtered := filterEdgeIDs(n.EdgeIDs, func(eid string) bool {
			_, ok := next.edges[eid]
			return ok
		})
		if len(filtered) != len(n.EdgeIDs) {
			updated := copyNode(n)
			updated.EdgeIDs = filtered
			next.nodes[nid] = updated
		}
	}

	// Detach id from its parent's child list, then drop every doomed node.
	parentID, _ := FindParent(g, id)
	if parent, ok := next.nodes[parentID]; ok {
		updated := copyNode(parent)
		updated.Children = removeString(updated.Children, id)
		next.nodes[parentID] = updated
	}
	for nid := range doomed {
		delete(next.nodes, nid)
	}

	return next, nil
}

// DeleteEdge removes the edge with the given id from whichever node
// holds it. It fails with *NotFoundError if the edge does not exist; a
// concurrent-delete miss here is harmless for a caller that treats it as
// a warning rather than a failure.
func DeleteEdge(g *Graph, id string) (*Graph, error) {
	edge, ok := g.GetEdge(id)
	if !ok {
		return g, &NotFoundError{ID: id}
	}
	container := FindLCG(g, []string{edge.Source, edge.Target})

	next := g.clone()
	delete(next.edges, id)
	if containerNode, ok := next.nodes[container]; ok {
		updated := copyNode(containerNode)
		updated.EdgeIDs = removeString(updated.EdgeIDs, id)
		next.nodes[container] = updated
	} else {
		// The edge's recorded container may have moved out from under it
		// in a pathological sequence; fall back to a full scan so the
		// edge id can never survive orphaned in some other node's list.
		for nid, n := range next.nodes {
			if containsString(n.EdgeIDs, id) {
				updated := copyNode(n)
				updated.EdgeIDs = removeString(updated.EdgeIDs, id)
				next.nodes[nid] = updated
			}
		}
	}
	return next, nil
}

// MoveNode detaches id from its current parent and reattaches it under
// newParentID, then relocates every edge whose recomputed LCG changed as
// a result. If id is already a child of newParentID, MoveNode returns
// the graph unchanged along with *AlreadyContainsError, which a caller
// is free to swallow silently rather than surface as a failure.
func MoveNode(g *Graph, id, newParentID string) (*Graph, error) {
	if id == RootID {
		return g, &NotFoundError{ID: id}
	}
	node, ok := g.GetNode(id)
	if !ok {
		return g, &NotFoundError{ID: id}
	}
	if !g.HasNode(newParentID) {
		return g, &NotFoundError{ID: newParentID}
	}
	if node.ParentID == newParentID {
		return g, &AlreadyContainsError{ID: id, ParentID: newParentID}
	}
	if newParentID == id || isDescendant(g, id, newParentID) {
		return g, &NotFoundError{ID: newParentID}
	}

	next := g.clone()

	oldParent := next.nodes[node.ParentID]
	updatedOld := copyNode(oldParent)
	updatedOld.Children = removeString(updatedOld.Children, id)
	next.nodes[oldParent.ID] = updatedOld

	newParent := next.nodes[newParentID]
	updatedNew := copyNode(newParent)
	updatedNew.Children = append(updatedNew.Children, id)
	next.nodes[newParentID] = updatedNew

	updatedNode := copyNode(node)
	updatedNode.ParentID = newParentID
	next.nodes[id] = updatedNode

	next = reconcileEdgeResidency(next)
	return next, nil
}

// GroupNodes creates a new Group node with id newGroupID under parentID,
// then reparents each node in ids into it, preserving their relative
// sibling order from ids. Edge residency is reconciled after each
// individual move.
func GroupNodes(g *Graph, ids []string, parentID, newGroupID string, data NodeData) (*Graph, error) {
	next, err := AddNode(g, newGroupID, parentID, data)
	if err != nil {
		return g, err
	}
	for _, id := range ids {
		moved, err := MoveNode(next, id, newGroupID)
		if err != nil {
			if _, already := err.(*AlreadyContainsError); already {
				continue
			}
			return g, err
		}
		next = moved
	}
	return next, nil
}

// UngroupNodes reparents every child of groupID to groupID's parent, in
// their existing order, then removes the now-empty groupID node. It is
// the Domain-level inverse of GroupNodes.
func UngroupNodes(g *Graph, groupID string) (*Graph, error) {
	group, ok := g.GetNode(groupID)
	if !ok {
		return g, &NotFoundError{ID: groupID}
	}
	if groupID == RootID {
		return g, &NotFoundError{ID: groupID}
	}
	parentID := group.ParentID
	children := append([]string(nil), group.Children...)

	next := g
	for _, child := range children {
		moved, err := MoveNode(next, child, parentID)
		if err != nil {
			return g, err
		}
		next = moved
	}
	next, err := DeleteNode(next, groupID)
	if err != nil {
		return g, err
	}
	return next, nil
}

// reconcileEdgeResidency walks every edge in g and relocates it to
// FindLCG(source, target) when that differs from its current container.
// Called after any mutation that can change an edge endpoint's ancestry.
func reconcileEdgeResidency(g *Graph) *Graph {
	next := g
	for _, edgeID := range sortedCopy(g.EdgeIDs()) {
		edge, ok := next.GetEdge(edgeID)
		if !ok {
			continue
		}
		want := FindLCG(next, []string{edge.Source, edge.Target})
		current := findEdgeContainer(next, edgeID)
		if current == want {
			continue
		}
		clone := next.clone()
		if current != "" {
			if n, ok := clone.nodes[current]; ok {
				updated := copyNode(n)
				updated.EdgeIDs = removeString(updated.EdgeIDs, edgeID)
				clone.nodes[current] = updated
			}
		}
		if n, ok := clone.nodes[want]; ok {
			updated := copyNode(n)
			updated.EdgeIDs = append(updated.EdgeIDs, edgeID)
			clone.nodes[want] = updated
		}
		next = clone
	}
	return next
}

func findEdgeContainer(g *Graph, edgeID string) string {
	for nid, n := range g.nodes {
		if containsString(n.EdgeIDs, edgeID) {
			return nid
		}
	}
	return ""
}

func subtreeIDs(g *Graph, root string) map[string]bool {
	set := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range g.Children(cur) {
			if !set[child] {
				set[child] = true
				queue = append(queue, child)
			}
		}
	}
	return set
}

func isDescendant(g *Graph, ancestor, candidate string) bool {
	return subtreeIDs(g, ancestor)[candidate]
}

func removeString(list []string, target string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

func filterEdgeIDs(list []string, keep func(string) bool) []string {
	out := make([]string, 0, len(list))
	for _, id := range list {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
