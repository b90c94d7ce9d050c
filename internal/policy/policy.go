// Package policy implements the pure decision functions that classify
// an intent's origin and scope into a decision about whether
// hierarchical layout should run, and over which resolved scope.
//
// Every function here is a pure function of its inputs — no Domain or
// ViewState reference is held across calls.
package policy

// Origin identifies who requested an edit.
type Origin int

const (
	// OriginUser is a human-driven edit.
	OriginUser Origin = iota
	// OriginAgent is an AI-driven edit.
	OriginAgent
)

// ParentOf resolves a group id to its parent group id, returning ok=false
// at the top of the hierarchy (root or a node with no group ancestor).
type ParentOf func(groupID string) (parent string, ok bool)

// ModeOf resolves a group id to its current layout mode. LOCK/FREE are
// represented as booleans here (isLocked) to keep this package free of a
// dependency on internal/viewstate — Policy is pure and has no notion of
// a ViewState store, only of the mode map the caller already resolved.
type ModeOf func(groupID string) (isLocked bool)

// DecideLayout reports whether hierarchical layout should run for an
// edit with the given origin, scope and mode lookups: true iff origin is
// OriginAgent, or the scope or any ancestor is LOCK.
func DecideLayout(origin Origin, scopeID string, modeOf ModeOf, parentOf ParentOf) bool {
	if origin == OriginAgent {
		return true
	}
	if modeOf(scopeID) {
		return true
	}
	return FindHighestLockedAncestor(scopeID, modeOf, parentOf) != ""
}

// FindHighestLockedAncestor walks scopeID's ancestor chain via parentOf
// and returns the closest-to-root ancestor (inclusive of scopeID itself)
// whose mode is LOCK, or "" if none is locked.
func FindHighestLockedAncestor(scopeID string, modeOf ModeOf, parentOf ParentOf) string {
	var highest string
	cur := scopeID
	for {
		if modeOf(cur) {
			highest = cur
		}
		parent, ok := parentOf(cur)
		if !ok {
			break
		}
		cur = parent
	}
	return highest
}

// Classification is the result of ClassifyEdit.
type Classification struct {
	Origin          Origin
	ShouldRunLayout bool
	ResolvedScope   string
}

// ClassifyEdit decides whether layout should run for an edit at scopeID
// with the given origin, and resolves the effective scope: the highest
// locked ancestor when layout runs, otherwise the original scope
// unchanged.
func ClassifyEdit(origin Origin, scopeID string, modeOf ModeOf, parentOf ParentOf) Classification {
	shouldRun := DecideLayout(origin, scopeID, modeOf, parentOf)
	resolved := scopeID
	if shouldRun {
		if highest := FindHighestLockedAncestor(scopeID, modeOf, parentOf); highest != "" {
			resolved = highest
		}
	}
	return Classification{
		Origin:          origin,
		ShouldRunLayout: shouldRun,
		ResolvedScope:   resolved,
	}
}
