// Package layout wraps an external hierarchical layout engine — a pure
// function `layout(subtree, opts) -> subtree` — and implements the
// coordinate maths that turn its output into a Delta the orchestrator
// can merge into ViewState.
//
// The engine itself is treated as an opaque collaborator: this package
// only depends on the small Engine interface below, the same way a
// parser-consuming package depends on an interface rather than embedding
// a concrete parser.
package layout

import "context"

// NodeSize is the layout engine's integer-unit input for one node, after
// conversion from ViewState pixels (pixel / grid).
type NodeSize struct {
	ID string
	W  int
	H  int
}

// InputNode is one node of the subtree handed to the external engine.
type InputNode struct {
	ID       string
	Children []string
	IsGroup  bool
	Size     NodeSize
}

// InputEdge is one edge of the subtree handed to the external engine.
type InputEdge struct {
	ID     string
	Source string
	Target string
}

// Subtree is the scope-local input to the external layout engine: the
// extracted subtree rooted at the scope group, deep-cloned so the
// engine can freely mutate it.
type Subtree struct {
	RootID  string
	Nodes   map[string]InputNode
	Edges   []InputEdge
	Padding int
}

// PositionedNode is one node as positioned by the external engine, in
// the engine's own integer units.
type PositionedNode struct {
	ID   string
	X, Y int
	W, H int
}

// RoutedSection is one edge's routing output, in the engine's integer
// units: a start point, interior bend points, and an end point.
type RoutedSection struct {
	EdgeID     string
	StartPoint [2]int
	BendPoints [][2]int
	EndPoint   [2]int
}

// Result is the external engine's output: the same subtree enriched with
// positions and edge routing sections.
type Result struct {
	Nodes    map[string]PositionedNode
	Sections []RoutedSection
}

// Options configures one layout run (direction, spacing, etc.); its
// fields are opaque to this package and passed through to Engine.Layout
// verbatim.
type Options struct {
	Direction string
	Spacing   int
}

// Engine is the external hierarchical layout library's interface. A
// production binary wires a real ELK-style implementation; tests use a
// fake.
type Engine interface {
	Layout(ctx context.Context, subtree Subtree, opts Options) (Result, error)
}

// LayoutEngineError wraps an error from Engine.Layout with the offending
// scope id.
type LayoutEngineError struct {
	ScopeID string
	Cause   error
}

func (e *LayoutEngineError) Error() string {
	return "layout: scope " + e.ScopeID + ": " + e.Cause.Error()
}

func (e *LayoutEngineError) Unwrap() error {
	return e.Cause
}
