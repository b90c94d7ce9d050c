// Package render implements the pure projection from Domain graph and
// ViewState into the flat structure an external flow renderer consumes:
// no parent nesting, absolute positions only.
package render

import (
	"sort"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/viewstate"
)

// Node is one flat render-facing node.
type Node struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	IsGroup bool    `json:"isGroup"`
	Label   string  `json:"label,omitempty"`
	Icon    string  `json:"icon,omitempty"`
}

// Edge is one flat render-facing edge.
type Edge struct {
	ID           string           `json:"id"`
	Source       string           `json:"source"`
	Target       string           `json:"target"`
	Type         string           `json:"type"`
	Waypoints    []geometry.Point `json:"waypoints,omitempty"`
	SourceHandle string           `json:"sourceHandle,omitempty"`
	TargetHandle string           `json:"targetHandle,omitempty"`
}

// Projection is the renderer's entire input for one frame.
type Projection struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Project walks g and emits one Node for every id present in either
// vs.node or vs.group, with absolute geometry and no nesting, and one
// Edge for every domain edge. An id in the domain tree with no ViewState
// entry at all is skipped: after a correctly maintained orchestrator
// apply cycle that never happens, but Project tolerates it defensively
// rather than panicking mid-frame.
func Project(g *domain.Graph, vs *viewstate.ViewState) Projection {
	var p Projection

	nodeIDs := g.NodeIDs()
	sort.Strings(nodeIDs)
	for _, id := range nodeIDs {
		if id == domain.RootID {
			continue
		}
		n, ok := g.GetNode(id)
		if !ok {
			continue
		}

		nodeGeo, hasNode := vs.GetNode(id)
		groupGeo, hasGroup := vs.GetGroup(id)
		if !hasNode && !hasGroup {
			continue
		}

		frame := nodeGeo.Rect()
		if hasGroup {
			frame = groupGeo.Rect()
		}

		isGroup := n.IsGroup() || n.Data.IsGroup || len(n.EdgeIDs) > 0

		p.Nodes = append(p.Nodes, Node{
			ID:      id,
			X:       frame.X,
			Y:       frame.Y,
			W:       frame.W,
			H:       frame.H,
			IsGroup: isGroup,
			Label:   n.Data.Label,
			Icon:    n.Data.Icon,
		})
	}

	edgeIDs := g.EdgeIDs()
	sort.Strings(edgeIDs)
	for _, id := range edgeIDs {
		e, ok := g.GetEdge(id)
		if !ok {
			continue
		}
		edgeGeo, _ := vs.GetEdge(id)

		renderEdge := Edge{
			ID:           id,
			Source:       e.Source,
			Target:       e.Target,
			Type:         "step",
			SourceHandle: edgeGeo.SourceHandle,
			TargetHandle: edgeGeo.TargetHandle,
		}
		if geometry.IsOrthogonalPolyline(edgeGeo.Waypoints, 1) && len(edgeGeo.Waypoints) >= 2 {
			renderEdge.Waypoints = edgeGeo.Waypoints
		}
		p.Edges = append(p.Edges, renderEdge)
	}

	return p
}
