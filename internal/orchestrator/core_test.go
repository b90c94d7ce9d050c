package orchestrator

import (
	"context"
	"testing"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/layout"
	"github.com/archcanvas/archcanvas/internal/render"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

// fakeEngine stacks a scope's direct children left to right, enough to
// exercise Arrange without a real hierarchical layout dependency.
type fakeEngine struct{}

func (fakeEngine) Layout(_ context.Context, subtree layout.Subtree, _ layout.Options) (layout.Result, error) {
	nodes := map[string]layout.PositionedNode{}
	root := subtree.Nodes[subtree.RootID]
	x := 0
	for _, id := range root.Children {
		n := subtree.Nodes[id]
		nodes[id] = layout.PositionedNode{ID: id, X: x, Y: 0, W: n.Size.W, H: n.Size.H}
		x += n.Size.W + 2
	}
	return layout.Result{Nodes: nodes}, nil
}

func newTestCore(t *testing.T) (*Core, *[]render.Projection) {
	t.Helper()
	g := domain.New()
	vs := viewstate.New()
	projections := &[]render.Projection{}
	cfg := layout.Config{GridSize: 16, ContainerPadding: 16, DefaultNodeW: 96, DefaultNodeH: 96, DefaultGroupW: 480, DefaultGroupH: 320}
	c := New(g, vs, fakeEngine{}, cfg, layout.Options{}, nil, func(p render.Projection) {
		*projections = append(*projections, p)
	})
	return c, projections
}

func TestApply_AddNodeThenDeleteNodeKeepsLayersInSync(t *testing.T) {
	c, projections := newTestCore(t)
	ctx := context.Background()

	if err := c.Apply(ctx, AddNode{ID: "a", ParentID: domain.RootID, Position: geometry.Point{X: 10, Y: 10}, PositionSet: true}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := c.Apply(ctx, AddNode{ID: "b", ParentID: domain.RootID, Position: geometry.Point{X: 50, Y: 50}, PositionSet: true}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if !c.Domain().HasNode("a") || !c.Domain().HasNode("b") {
		t.Fatal("expected both nodes present in domain")
	}
	if _, ok := c.ViewState().GetNode("a"); !ok {
		t.Fatal("expected viewstate geometry for a")
	}

	if err := c.Apply(ctx, DeleteNode{ID: "a"}); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	if c.Domain().HasNode("a") {
		t.Error("expected a removed from domain")
	}
	if _, ok := c.ViewState().GetNode("a"); ok {
		t.Error("expected a's geometry cleaned from viewstate after delete")
	}
	if len(*projections) != 3 {
		t.Errorf("expected exactly one render per committed intent, got %d", len(*projections))
	}
}

func TestApply_DeleteNodeThenAddSameIDLeavesNoGhost(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	if err := c.Apply(ctx, AddNode{ID: "a", ParentID: domain.RootID, Position: geometry.Point{X: 0, Y: 0}, PositionSet: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(ctx, DeleteNode{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(ctx, AddNode{ID: "a", ParentID: domain.RootID, Position: geometry.Point{X: 5, Y: 5}, PositionSet: true}); err != nil {
		t.Fatal(err)
	}
	geo, ok := c.ViewState().GetNode("a")
	if !ok {
		t.Fatal("expected a's geometry present after re-add")
	}
	if geo.X != 5 || geo.Y != 5 {
		t.Errorf("expected fresh geometry for re-added id, got %+v", geo)
	}
}

func TestApply_DeleteEdgeAfterNodeDeleteIsHarmless(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	if err := c.Apply(ctx, AddNode{ID: "a", ParentID: domain.RootID, PositionSet: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(ctx, AddNode{ID: "b", ParentID: domain.RootID, PositionSet: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(ctx, AddEdge{ID: "e1", Source: "a", Target: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(ctx, DeleteNode{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	// e1 was already purged as incident to a; deleting it again must not
	// surface as an error.
	if err := c.Apply(ctx, DeleteEdge{ID: "e1"}); err != nil {
		t.Fatalf("expected harmless duplicate delete, got error: %v", err)
	}
}

func TestApply_SelectDeselectTouchesNoDomainOrViewState(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()
	if err := c.Apply(ctx, AddNode{ID: "a", ParentID: domain.RootID, PositionSet: true}); err != nil {
		t.Fatal(err)
	}
	beforeG, beforeVS := c.Domain(), c.ViewState()

	if err := c.Apply(ctx, Select{IDs: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	if c.Domain() != beforeG {
		t.Error("expected Select to leave the domain graph pointer unchanged")
	}
	if c.ViewState() != beforeVS {
		t.Error("expected Select to leave the viewstate pointer unchanged")
	}
	sel := c.Selected()
	if len(sel) != 1 || sel[0] != "a" {
		t.Errorf("expected selection [a], got %v", sel)
	}

	if err := c.Apply(ctx, Deselect{IDs: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	if len(c.Selected()) != 0 {
		t.Error("expected empty selection after deselect")
	}
}

func TestApply_ArrangeMergesLayoutDeltaIntoViewState(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	if err := c.Apply(ctx, AddNode{ID: "group1", ParentID: domain.RootID, IsGroup: true, Position: geometry.Point{X: 100, Y: 100}, PositionSet: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(ctx, AddNode{ID: "a", ParentID: "group1", PositionSet: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(ctx, AddNode{ID: "b", ParentID: "group1", PositionSet: true}); err != nil {
		t.Fatal(err)
	}

	if err := c.Apply(ctx, Arrange{ScopeID: "group1"}); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	geoA, ok := c.ViewState().GetNode("a")
	if !ok {
		t.Fatal("expected a to retain geometry after arrange")
	}
	geoB, _ := c.ViewState().GetNode("b")
	if geoA.X == geoB.X {
		t.Error("expected the fake engine to place a and b at distinct x offsets")
	}
}

func TestApply_UnrecognizedIntentReturnsInvalidIntentError(t *testing.T) {
	c, _ := newTestCore(t)
	err := c.Apply(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error for a nil intent")
	}
	if _, ok := err.(*InvalidIntentError); !ok {
		t.Errorf("expected *InvalidIntentError, got %T", err)
	}
}

func TestApply_AddNodeWithoutPositionIsRejected(t *testing.T) {
	c, _ := newTestCore(t)
	err := c.Apply(context.Background(), AddNode{ID: "a", ParentID: domain.RootID})
	if err == nil {
		t.Fatal("expected an error for an add-node intent with no position")
	}
	if _, ok := err.(*InvalidIntentError); !ok {
		t.Errorf("expected *InvalidIntentError, got %T", err)
	}
	if c.Domain().HasNode("a") {
		t.Error("expected rejected add-node to leave no trace in the domain graph")
	}
}

func TestSubscribe_ReceivesSignalsFromModeTransitions(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()
	if err := c.Apply(ctx, AddNode{ID: "group1", ParentID: domain.RootID, IsGroup: true, PositionSet: true}); err != nil {
		t.Fatal(err)
	}

	var got []Signal
	unsubscribe := c.Subscribe(func(s Signal) { got = append(got, s) })
	defer unsubscribe()

	if err := c.Apply(ctx, UnlockScopeToFree{ScopeGroupID: "group1"}); err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one signal from a mode transition")
	}
}
