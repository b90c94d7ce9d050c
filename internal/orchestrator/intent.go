package orchestrator

import (
	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
)

// EditIntent is the sealed sum type every edit the core accepts
// implements. The unexported marker method means no type outside this
// package can satisfy it, so Core.Apply's type switch is exhaustive by
// construction: a new intent kind forces a matching case.
type EditIntent interface {
	isEditIntent()
}

// GeoOnly repositions or resizes an existing id with no structural
// change to Domain.
type GeoOnly struct {
	ID      string
	Rect    geometry.Rect
	IsGroup bool
}

// AddNode places a new leaf or group under ParentID at Position.
// PositionSet distinguishes an explicitly supplied (0,0) from a caller
// that omitted position entirely, which applyAddNode rejects.
type AddNode struct {
	ID          string
	ParentID    string
	Position    geometry.Point
	PositionSet bool
	Size        geometry.Size
	IsGroup     bool
}

// DeleteNode removes id and its subtree, and every edge incident to any
// of them anywhere in the tree.
type DeleteNode struct {
	ID string
}

// DeleteEdge removes one edge. A concurrent node delete may have already
// removed it; that is harmless, not an error.
type DeleteEdge struct {
	ID string
}

// MoveNode reparents id under NewParentID, preserving its world
// position.
type MoveNode struct {
	ID          string
	NewParentID string
}

// AddEdge creates an edge between Source and Target, placed at their
// LCG.
type AddEdge struct {
	ID     string
	Source string
	Target string
	Data   domain.EdgeData
}

// GroupNodes wraps IDs in a new Group node under ParentID.
type GroupNodes struct {
	IDs        []string
	ParentID   string
	NewGroupID string
	Data       domain.NodeData
}

// UngroupNodes reparents GroupID's children to its parent and removes
// the now-empty group.
type UngroupNodes struct {
	GroupID string
}

// Select and Deselect update the core's selection set. They never touch
// Domain or ViewState.
type Select struct{ IDs []string }
type Deselect struct{ IDs []string }

// UnlockScopeToFree switches a scope's subtree to FREE mode.
// DuringDrag marks a call made mid-gesture. Core.Apply does not read
// it: the full render (nodes and edges) and the same signals are
// emitted whether it is set or not.
type UnlockScopeToFree struct {
	ScopeGroupID string
	DuringDrag   bool
}

// LockScopeAndDescendants switches a scope's subtree back to LOCK mode.
type LockScopeAndDescendants struct {
	ScopeGroupID string
}

// Arrange is the ai-lock-structural verb: re-run hierarchical layout
// for ScopeID (or the highest LOCK ancestor above it) and merge the
// result into ViewState, regardless of the scope's own current mode —
// an agent-originated edit always runs layout (policy.OriginAgent).
type Arrange struct {
	ScopeID string
}

func (GeoOnly) isEditIntent()                 {}
func (AddNode) isEditIntent()                 {}
func (DeleteNode) isEditIntent()              {}
func (DeleteEdge) isEditIntent()              {}
func (MoveNode) isEditIntent()                {}
func (AddEdge) isEditIntent()                 {}
func (GroupNodes) isEditIntent()              {}
func (UngroupNodes) isEditIntent()            {}
func (Select) isEditIntent()                  {}
func (Deselect) isEditIntent()                {}
func (UnlockScopeToFree) isEditIntent()       {}
func (LockScopeAndDescendants) isEditIntent() {}
func (Arrange) isEditIntent()                 {}
