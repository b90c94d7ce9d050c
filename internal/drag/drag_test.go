package drag

import (
	"testing"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

func TestDragNode_SnapsAndWrites(t *testing.T) {
	vs := viewstate.New()
	rect := DragNode(vs, "n1", geometry.Point{X: 123, Y: 187}, 16)
	if rect.X != 128 || rect.Y != 192 {
		t.Errorf("got (%v,%v), want (128,192)", rect.X, rect.Y)
	}
	geo, ok := vs.GetNode("n1")
	if !ok || geo.X != 128 {
		t.Error("expected node geometry written to ViewState")
	}
}

func buildDragGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.New()
	var err error
	g, err = domain.AddNode(g, "group1", domain.RootID, domain.NodeData{IsGroup: true})
	if err != nil {
		t.Fatal(err)
	}
	g, err = domain.AddNode(g, "child", "group1", domain.NodeData{})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDragGroup_TranslatesDescendantsBySameDelta(t *testing.T) {
	g := buildDragGraph(t)
	vs := viewstate.New()
	vs.SetGroup("group1", viewstate.GroupGeometry{X: 100, Y: 100, W: 200, H: 200})
	vs.SetNode("child", viewstate.NodeGeometry{X: 120, Y: 120, W: 40, H: 40})

	tracker := NewTracker()
	result := DragGroup(tracker, g, vs, "group1", geometry.Point{X: 116, Y: 116}, 16)

	groupGeo, _ := vs.GetGroup("group1")
	if groupGeo.X != 112 || groupGeo.Y != 112 {
		t.Errorf("group position = (%v,%v), want (112,112)", groupGeo.X, groupGeo.Y)
	}

	childGeo, _ := vs.GetNode("child")
	wantX := 120 + result.Delta.X
	if childGeo.X != wantX {
		t.Errorf("child.X = %v, want %v (delta %v)", childGeo.X, wantX, result.Delta.X)
	}
	if len(result.MovedIDs) != 2 {
		t.Errorf("expected 2 moved ids (group + child), got %d", len(result.MovedIDs))
	}
}

func TestDragGroup_UsesTrackerAcrossFrames(t *testing.T) {
	g := buildDragGraph(t)
	vs := viewstate.New()
	vs.SetGroup("group1", viewstate.GroupGeometry{X: 0, Y: 0, W: 100, H: 100})

	tracker := NewTracker()
	DragGroup(tracker, g, vs, "group1", geometry.Point{X: 16, Y: 0}, 16)
	second := DragGroup(tracker, g, vs, "group1", geometry.Point{X: 32, Y: 0}, 16)

	if second.Delta.X != 16 {
		t.Errorf("expected incremental delta of 16 using tracker, got %v", second.Delta.X)
	}
}

func TestEndDrag_ClearsTracker(t *testing.T) {
	tracker := NewTracker()
	tracker.Record("group1", geometry.Point{X: 10, Y: 10})
	EndDrag(tracker, "group1")
	if _, ok := tracker.previous["group1"]; ok {
		t.Error("expected tracker entry cleared")
	}
}

func TestContainingGroup_PicksDeepestNesting(t *testing.T) {
	g := domain.New()
	g, _ = domain.AddNode(g, "outer", domain.RootID, domain.NodeData{IsGroup: true})
	g, _ = domain.AddNode(g, "inner", "outer", domain.NodeData{IsGroup: true})
	vs := viewstate.New()
	vs.SetGroup("outer", viewstate.GroupGeometry{X: 0, Y: 0, W: 400, H: 400})
	vs.SetGroup("inner", viewstate.GroupGeometry{X: 50, Y: 50, W: 200, H: 200})

	got := ContainingGroup(g, vs, geometry.Rect{X: 60, Y: 60, W: 20, H: 20}, "")
	if got != "inner" {
		t.Errorf("got %q, want inner", got)
	}
}

func TestDecideNodeReparent_DetectsMoveIntoGroup(t *testing.T) {
	g := domain.New()
	g, _ = domain.AddNode(g, "group1", domain.RootID, domain.NodeData{IsGroup: true})
	g, _ = domain.AddNode(g, "n1", domain.RootID, domain.NodeData{})
	vs := viewstate.New()
	vs.SetGroup("group1", viewstate.GroupGeometry{X: 0, Y: 0, W: 400, H: 400})

	decision, changed := DecideNodeReparent(g, vs, "n1", geometry.Rect{X: 50, Y: 50, W: 20, H: 20})
	if !changed {
		t.Fatal("expected a reparent decision")
	}
	if decision.NewParentID != "group1" {
		t.Errorf("got %q, want group1", decision.NewParentID)
	}
}

func TestDecideNodeReparent_UnlocksTargetIfLocked(t *testing.T) {
	g := domain.New()
	g, _ = domain.AddNode(g, "group1", domain.RootID, domain.NodeData{IsGroup: true})
	g, _ = domain.AddNode(g, "n1", domain.RootID, domain.NodeData{})
	vs := viewstate.New()
	vs.SetGroup("group1", viewstate.GroupGeometry{X: 0, Y: 0, W: 400, H: 400})
	vs.SetMode("group1", viewstate.ModeLock)

	decision, changed := DecideNodeReparent(g, vs, "n1", geometry.Rect{X: 50, Y: 50, W: 20, H: 20})
	if !changed {
		t.Fatal("expected a reparent decision")
	}
	if decision.UnlockGroupID != "group1" {
		t.Error("expected entering a locked group to request an unlock")
	}
}

func TestDecideNodeReparent_NoChangeWhenAlreadyCorrect(t *testing.T) {
	g := buildDragGraph(t)
	vs := viewstate.New()
	vs.SetGroup("group1", viewstate.GroupGeometry{X: 0, Y: 0, W: 400, H: 400})

	_, changed := DecideNodeReparent(g, vs, "child", geometry.Rect{X: 50, Y: 50, W: 20, H: 20})
	if changed {
		t.Error("expected no reparent when node is already correctly parented")
	}
}
