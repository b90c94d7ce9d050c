package router

import "github.com/archcanvas/archcanvas/internal/geometry"

// ObstacleUpdate is one node's new rectangle for a batch obstacle pass.
type ObstacleUpdate struct {
	NodeID string
	Rect   geometry.Rect
}

// updateObstacle snaps rect to the grid and either moves the existing
// shape registered for id or constructs a new one, preserving shape
// identity across position changes so bound connectors stay valid.
func (s *Service) updateObstacle(id string, rect geometry.Rect) Shape {
	snapped := geometry.SnapRect(rect, s.gridSize)
	if shape, ok := s.obstacles[id]; ok {
		shape.Move(rectangleOf(snapped))
		return shape
	}
	shape := s.native.NewShape(rectangleOf(snapped))
	s.obstacles[id] = shape
	return shape
}

// UnregisterObstacle removes id's shape from the routing world. Callers
// must do this when a node is deleted so the router never holds a
// dangling shape reference.
func (s *Service) UnregisterObstacle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.obstacles, id)
	s.pins.forget(id)
}
