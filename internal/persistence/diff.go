package persistence

import (
	"sort"

	"github.com/archcanvas/archcanvas/internal/domain"
)

// SnapshotDiff describes what changed between two captured snapshots,
// compared by node and edge id.
type SnapshotDiff struct {
	NodesAdded    []string `json:"nodesAdded"`
	NodesRemoved  []string `json:"nodesRemoved"`
	EdgesAdded    []string `json:"edgesAdded"`
	EdgesRemoved  []string `json:"edgesRemoved"`
	ScopeChanged  bool     `json:"scopeChanged"`
	BaseScopeID   string   `json:"baseScopeId"`
	TargetScopeID string   `json:"targetScopeId"`
}

// Diff compares base against target, reporting node/edge ids added or
// removed between them. Geometry-only changes are not reported; this
// mirrors a structural diff, not a pixel diff.
func Diff(base, target Snapshot) SnapshotDiff {
	d := SnapshotDiff{
		BaseScopeID:   base.ScopeID,
		TargetScopeID: target.ScopeID,
		ScopeChanged:  base.ScopeID != target.ScopeID,
	}
	if base.Domain == nil || target.Domain == nil {
		return d
	}

	baseNodes := nodeIDSet(base.Domain.Nodes)
	targetNodes := nodeIDSet(target.Domain.Nodes)
	d.NodesAdded = setDiff(targetNodes, baseNodes)
	d.NodesRemoved = setDiff(baseNodes, targetNodes)

	baseEdges := edgeIDSet(base.Domain.Edges)
	targetEdges := edgeIDSet(target.Domain.Edges)
	d.EdgesAdded = setDiff(targetEdges, baseEdges)
	d.EdgesRemoved = setDiff(baseEdges, targetEdges)

	return d
}

func nodeIDSet(nodes []domain.SerializableNode) map[string]bool {
	set := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		set[n.ID] = true
	}
	return set
}

func edgeIDSet(edges []domain.SerializableEdge) map[string]bool {
	set := make(map[string]bool, len(edges))
	for _, e := range edges {
		set[e.ID] = true
	}
	return set
}

func setDiff(a, b map[string]bool) []string {
	var out []string
	for id := range a {
		if !b[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
