package viewstate

import "github.com/archcanvas/archcanvas/internal/domain"

// Clean returns a new ViewState containing only entries whose id exists
// in g (edges included). This is the single mechanism that keeps
// ViewState free of ghost and orphan entries after any structural change
// to the Domain graph.
func Clean(g *domain.Graph, vs *ViewState) *ViewState {
	next := New()

	for id, geo := range vs.nodes {
		if g.HasNode(id) && id != domain.RootID {
			next.nodes[id] = geo
		}
	}
	for id, geo := range vs.groups {
		if g.HasNode(id) && id != domain.RootID {
			next.groups[id] = geo
		}
	}
	for id, geo := range vs.edges {
		if _, ok := g.GetEdge(id); ok {
			next.edges[id] = geo
		}
	}
	for id, mode := range vs.layout {
		if g.HasNode(id) && id != domain.RootID {
			next.layout[id] = mode
		}
	}
	return next
}
