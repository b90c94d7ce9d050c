package modehandlers

import (
	"testing"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

func buildScopeGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.New()
	var err error
	g, err = domain.AddNode(g, "g1", domain.RootID, domain.NodeData{IsGroup: true})
	if err != nil {
		t.Fatal(err)
	}
	g, err = domain.AddNode(g, "g1a", "g1", domain.NodeData{IsGroup: true})
	if err != nil {
		t.Fatal(err)
	}
	g, err = domain.AddNode(g, "n1", "g1a", domain.NodeData{})
	if err != nil {
		t.Fatal(err)
	}
	g, err = domain.AddNode(g, "n2", "g1a", domain.NodeData{})
	if err != nil {
		t.Fatal(err)
	}
	g, err = domain.AddNode(g, "outside", domain.RootID, domain.NodeData{})
	if err != nil {
		t.Fatal(err)
	}
	g, err = domain.AddEdge(g, "inside-edge", "n1", "n2", domain.EdgeData{})
	if err != nil {
		t.Fatal(err)
	}
	g, err = domain.AddEdge(g, "crossing-edge", "n1", "outside", domain.EdgeData{SourceHandle: "right"})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestUnlockScopeToFree_SetsModeAndRoutingOverride(t *testing.T) {
	g := buildScopeGraph(t)
	vs := viewstate.New()
	vs.SetMode("g1", viewstate.ModeLock)
	vs.SetMode("g1a", viewstate.ModeLock)

	result := UnlockScopeToFree("g1", g, vs)

	if vs.GetMode("g1") != viewstate.ModeFree || vs.GetMode("g1a") != viewstate.ModeFree {
		t.Error("expected both scope and descendant group to be FREE")
	}
	if len(result.AffectedGroups) != 2 {
		t.Errorf("expected 2 affected groups, got %d", len(result.AffectedGroups))
	}

	insideEdge, ok := vs.GetEdge("inside-edge")
	if !ok || insideEdge.RoutingMode != viewstate.RoutingModeFree {
		t.Error("expected inside-edge routingMode overridden to FREE")
	}
	crossingEdge, ok := vs.GetEdge("crossing-edge")
	if !ok || crossingEdge.RoutingMode != viewstate.RoutingModeFree {
		t.Error("expected crossing-edge routingMode overridden to FREE")
	}
	if crossingEdge.SourceHandle != "right" {
		t.Errorf("expected preserved handle from domain edge data, got %q", crossingEdge.SourceHandle)
	}
}

func TestUnlockScopeToFree_PreservesExistingWaypoints(t *testing.T) {
	g := buildScopeGraph(t)
	vs := viewstate.New()
	vs.SetEdge("inside-edge", viewstate.EdgeGeometry{Waypoints: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}})

	UnlockScopeToFree("g1", g, vs)

	edge, _ := vs.GetEdge("inside-edge")
	if len(edge.Waypoints) != 2 {
		t.Error("expected existing waypoints preserved across unlock")
	}
}

func TestLockScopeAndDescendants_ClearsOverride(t *testing.T) {
	g := buildScopeGraph(t)
	vs := viewstate.New()
	vs.SetEdge("inside-edge", viewstate.EdgeGeometry{RoutingMode: viewstate.RoutingModeFree})

	LockScopeAndDescendants("g1", g, vs)

	if vs.GetMode("g1") != viewstate.ModeLock || vs.GetMode("g1a") != viewstate.ModeLock {
		t.Error("expected scope and descendant group locked")
	}
	edge, _ := vs.GetEdge("inside-edge")
	if edge.RoutingMode != viewstate.RoutingModeInherit {
		t.Error("expected routingMode override cleared back to inherit")
	}
}

func TestDescendantGroups_ExcludesLeafNodes(t *testing.T) {
	g := buildScopeGraph(t)
	groups := descendantGroups(g, "g1")
	for _, id := range groups {
		n, _ := g.GetNode(id)
		if !n.IsGroup() {
			t.Errorf("expected only group ids, got leaf %q", id)
		}
	}
}
