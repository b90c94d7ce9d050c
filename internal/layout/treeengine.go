package layout

import (
	"context"
	"sort"
)

// TreeEngine is the production Engine: a deterministic shelf-packing
// layout that positions every node of a subtree in one consistent
// coordinate space, row by row, recursing into group children with the
// row origin offset inward by Config's container padding equivalent
// (opts.Spacing, since the engine only sees Options, not Config).
//
// No graph-layout library in this module's dependency set produces
// positions directly — the available DOT-family packages only emit
// textual graph descriptions for an external `dot`/`neato` binary to
// render, and shelling out to a system binary from inside the
// orchestrator's layout path was rejected in favor of a pure-Go
// implementation. TreeEngine is that implementation; RunScopeLayout
// only depends on it through the Engine interface, so a real ELK-style
// binding can replace it later without touching caller code.
type TreeEngine struct{}

// NewTreeEngine returns the shelf-packing Engine used by canvasd in
// production.
func NewTreeEngine() *TreeEngine {
	return &TreeEngine{}
}

// Layout implements Engine. It ignores ctx cancellation since the
// packing below is always O(n log n) in the subtree size and returns
// promptly; ctx is accepted only to satisfy the interface other engines
// may need for real work.
func (e *TreeEngine) Layout(_ context.Context, subtree Subtree, opts Options) (Result, error) {
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = 1
	}

	positions := make(map[string]PositionedNode, len(subtree.Nodes))
	packChildren(subtree, subtree.RootID, 0, 0, spacing, positions)

	return Result{Nodes: positions}, nil
}

// packChildren lays out nodeID's children in left-to-right rows starting
// at (originX, originY), wrapping to a new row once the running row
// width passes a target derived from the child count so that wide
// scopes don't produce one absurdly long row. Children are visited in
// sorted id order for determinism across runs with the same input.
func packChildren(subtree Subtree, nodeID string, originX, originY, spacing int, positions map[string]PositionedNode) {
	node, ok := subtree.Nodes[nodeID]
	if !ok {
		return
	}
	children := make([]string, 0, len(node.Children))
	for _, id := range node.Children {
		if _, ok := subtree.Nodes[id]; ok {
			children = append(children, id)
		}
	}
	sort.Strings(children)
	if len(children) == 0 {
		return
	}

	targetRowWidth := rowWidthTarget(subtree, children)

	x, y := originX, originY
	rowHeight := 0
	rowWidth := 0
	for _, childID := range children {
		child := subtree.Nodes[childID]
		w, h := child.Size.W, child.Size.H
		if w <= 0 {
			w = 1
		}
		if h <= 0 {
			h = 1
		}

		if rowWidth > 0 && rowWidth+w > targetRowWidth {
			x = originX
			y += rowHeight + spacing
			rowHeight = 0
			rowWidth = 0
		}

		positions[childID] = PositionedNode{ID: childID, X: x, Y: y, W: w, H: h}
		if child.IsGroup {
			packChildren(subtree, childID, x+spacing, y+spacing, spacing, positions)
		}

		x += w + spacing
		rowWidth += w + spacing
		if h > rowHeight {
			rowHeight = h
		}
	}
}

// rowWidthTarget approximates a square-ish packing by aiming for a row
// width close to the total width needed if every child were laid out in
// a single row, divided by the square root of the child count.
func rowWidthTarget(subtree Subtree, children []string) int {
	total := 0
	for _, id := range children {
		total += subtree.Nodes[id].Size.W
	}
	if len(children) <= 1 {
		return total + 1
	}
	perRow := total / isqrt(len(children))
	if perRow < subtree.Nodes[children[0]].Size.W {
		perRow = subtree.Nodes[children[0]].Size.W
	}
	return perRow + 1
}

func isqrt(n int) int {
	if n <= 1 {
		return 1
	}
	r := 1
	for r*r < n {
		r++
	}
	return r
}
