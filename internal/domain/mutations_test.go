package domain

import (
	"sort"
	"testing"
)

func mustAddNode(t *testing.T, g *Graph, id, parent string) *Graph {
	t.Helper()
	next, err := AddNode(g, id, parent, NodeData{})
	if err != nil {
		t.Fatalf("AddNode(%s, %s): %v", id, parent, err)
	}
	return next
}

func TestAddNode_DuplicateID(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "n1", RootID)

	if _, err := AddNode(g, "n1", RootID, NodeData{}); err == nil {
		t.Fatal("expected DuplicateIdError")
	} else if _, ok := err.(*DuplicateIdError); !ok {
		t.Fatalf("expected *DuplicateIdError, got %T", err)
	}
}

func TestAddNode_UnknownParent(t *testing.T) {
	g := New()
	if _, err := AddNode(g, "n1", "missing", NodeData{}); err == nil {
		t.Fatal("expected error for unknown parent")
	}
}

func TestAddEdge_PlacesAtLCG(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "g1", RootID)
	g = mustAddNode(t, g, "n1", "g1")
	g = mustAddNode(t, g, "n2", RootID)

	next, err := AddEdge(g, "e1", "n1", "n2", EdgeData{})
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if !containsString(next.EdgesAt(RootID), "e1") {
		t.Errorf("expected e1 to live at root (LCG), edges at root: %v", next.EdgesAt(RootID))
	}
}

func TestAddEdge_UnknownEndpoint(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "n1", RootID)
	if _, err := AddEdge(g, "e1", "n1", "missing", EdgeData{}); err == nil {
		t.Fatal("expected UnknownEndpointError")
	} else if _, ok := err.(*UnknownEndpointError); !ok {
		t.Fatalf("expected *UnknownEndpointError, got %T", err)
	}
}

func TestDeleteNode_PurgesIncidentEdgesEverywhere(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "g1", RootID)
	g = mustAddNode(t, g, "n1", "g1")
	g = mustAddNode(t, g, "n2", RootID)
	g, err := AddEdge(g, "e1", "n1", "n2", EdgeData{})
	if err != nil {
		t.Fatal(err)
	}

	next, err := DeleteNode(g, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if next.HasNode("n1") || next.HasNode("g1") {
		t.Fatal("expected subtree removed")
	}
	if _, ok := next.GetEdge("e1"); ok {
		t.Fatal("expected incident edge purged")
	}
	if containsString(next.EdgesAt(RootID), "e1") {
		t.Fatal("expected e1 removed from root's edge list")
	}
}

func TestDeleteNode_MissingIsNoop(t *testing.T) {
	g := New()
	next, err := DeleteNode(g, "nope")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if next != g {
		t.Error("expected graph unchanged for missing id")
	}
}

func TestDeleteEdge_NotFound(t *testing.T) {
	g := New()
	if _, err := DeleteEdge(g, "missing"); err == nil {
		t.Fatal("expected NotFoundError")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
}

func TestMoveNode_AlreadyContains(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "n1", RootID)

	next, err := MoveNode(g, "n1", RootID)
	if err == nil {
		t.Fatal("expected AlreadyContainsError")
	}
	if _, ok := err.(*AlreadyContainsError); !ok {
		t.Fatalf("expected *AlreadyContainsError, got %T", err)
	}
	if next != g {
		t.Error("expected graph unchanged on already-contains")
	}
}

func TestMoveNode_RelocatesIncidentEdges(t *testing.T) {
	// Moving a node into the group of the node it shares an edge with
	// should relocate that edge to the new common ancestor.
	g := New()
	g = mustAddNode(t, g, "g1", RootID)
	g = mustAddNode(t, g, "n1", "g1")
	g = mustAddNode(t, g, "n2", RootID)
	g, err := AddEdge(g, "e1", "n1", "n2", EdgeData{})
	if err != nil {
		t.Fatal(err)
	}
	if !containsString(g.EdgesAt(RootID), "e1") {
		t.Fatal("expected e1 initially at root")
	}

	next, err := MoveNode(g, "n2", "g1")
	if err != nil {
		t.Fatal(err)
	}
	if containsString(next.EdgesAt(RootID), "e1") {
		t.Error("expected e1 no longer at root after reparent")
	}
	if !containsString(next.EdgesAt("g1"), "e1") {
		t.Error("expected e1 relocated into g1")
	}
}

func TestGroupNodes(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "n1", RootID)
	g = mustAddNode(t, g, "n2", RootID)

	next, err := GroupNodes(g, []string{"n1", "n2"}, RootID, "grp", NodeData{})
	if err != nil {
		t.Fatal(err)
	}
	node, ok := next.GetNode("grp")
	if !ok {
		t.Fatal("expected group node to exist")
	}
	if !node.IsGroup() {
		t.Error("expected grp to be a Group (has children)")
	}
	children := sort.StringSlice(append([]string(nil), node.Children...))
	children.Sort()
	if len(children) != 2 || children[0] != "n1" || children[1] != "n2" {
		t.Errorf("unexpected children: %v", children)
	}
}

func TestUngroupNodes(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "n1", RootID)
	g, err := GroupNodes(g, []string{"n1"}, RootID, "grp", NodeData{})
	if err != nil {
		t.Fatal(err)
	}

	next, err := UngroupNodes(g, "grp")
	if err != nil {
		t.Fatal(err)
	}
	if next.HasNode("grp") {
		t.Error("expected group node removed")
	}
	parent, ok := FindParent(next, "n1")
	if !ok || parent != RootID {
		t.Errorf("expected n1 reparented to root, got %q", parent)
	}
}

func TestFindLCG(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "g1", RootID)
	g = mustAddNode(t, g, "n1", "g1")
	g = mustAddNode(t, g, "n2", "g1")
	g = mustAddNode(t, g, "n3", RootID)

	if got := FindLCG(g, []string{"n1", "n3"}); got != RootID {
		t.Errorf("distinct-group nodes: got %q, want root", got)
	}
	if got := FindLCG(g, []string{"n1", "n2"}); got != "g1" {
		t.Errorf("sibling nodes: got %q, want g1", got)
	}
	if got := FindLCG(g, []string{"n1"}); got != "g1" {
		t.Errorf("single-node selection: got %q, want its parent g1", got)
	}
}

func TestIdentityUniqueAcrossNodesAndEdges(t *testing.T) {
	g := New()
	g = mustAddNode(t, g, "n1", RootID)
	g = mustAddNode(t, g, "n2", RootID)
	g, err := AddEdge(g, "shared", "n1", "n2", EdgeData{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddNode(g, "shared", RootID, NodeData{}); err == nil {
		t.Fatal("expected duplicate-id rejection across node/edge namespace")
	}
}
