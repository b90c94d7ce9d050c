package drag

import (
	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

// ContainingGroup returns the deepest group whose world rectangle fully
// contains rect, excluding excludeID (so a moved group is never tested
// against its own rectangle). Candidates are the ids with a registered
// ViewState group entry; whether the Domain node behind an id has
// children is not checked. Returns "" (root) when nothing contains rect.
func ContainingGroup(g *domain.Graph, vs *viewstate.ViewState, rect geometry.Rect, excludeID string) string {
	best := ""
	bestDepth := -1
	for _, groupID := range vs.GroupIDs() {
		if groupID == excludeID {
			continue
		}
		groupGeo, ok := vs.GetGroup(groupID)
		if !ok {
			continue
		}
		if !groupGeo.Rect().Contains(rect) {
			continue
		}
		depth := len(domain.PathToRoot(g, groupID))
		if depth > bestDepth {
			best = groupID
			bestDepth = depth
		}
	}
	return best
}

// NewlyContainedNodes returns every node id (excluding groupID's own
// descendants) whose ViewState rectangle is now fully inside groupRect,
// for the "moving a group absorbs nearby nodes" rule.
func NewlyContainedNodes(g *domain.Graph, vs *viewstate.ViewState, groupID string, groupRect geometry.Rect) []string {
	exclude := map[string]bool{groupID: true}
	for _, id := range domain.PathToRoot(g, groupID) {
		exclude[id] = true
	}
	queue := g.Children(groupID)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if exclude[id] {
			continue
		}
		exclude[id] = true
		queue = append(queue, g.Children(id)...)
	}

	var out []string
	for _, id := range vs.NodeIDs() {
		if exclude[id] {
			continue
		}
		n, ok := g.GetNode(id)
		if !ok || n.IsGroup() {
			continue
		}
		geo, ok := vs.GetNode(id)
		if !ok {
			continue
		}
		if groupRect.Contains(geo.Rect()) {
			out = append(out, id)
		}
	}
	return out
}
