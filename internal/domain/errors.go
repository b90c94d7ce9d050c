package domain

import "fmt"

// DuplicateIdError is returned when an operation would introduce an id
// that already exists somewhere in the tree.
type DuplicateIdError struct {
	ID string
}

func (e *DuplicateIdError) Error() string {
	return fmt.Sprintf("domain: id %q already exists", e.ID)
}

// UnknownEndpointError is returned when addEdge references a source or
// target id that is not present in the tree.
type UnknownEndpointError struct {
	ID string
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("domain: unknown endpoint id %q", e.ID)
}

// NotFoundError is returned when an operation targets an id that does
// not exist (e.g. deleteEdge on an already-removed edge). A caller may
// swallow it to a warning when the miss is structurally harmless.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("domain: id %q not found", e.ID)
}

// AlreadyContainsError is returned by MoveNode when the node is already a
// child of newParentID: the domain is already consistent, and a caller
// is free to swallow this silently.
type AlreadyContainsError struct {
	ID       string
	ParentID string
}

func (e *AlreadyContainsError) Error() string {
	return fmt.Sprintf("domain: %q already a child of %q", e.ID, e.ParentID)
}
