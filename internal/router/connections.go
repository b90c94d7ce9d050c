package router

import (
	"math"

	"github.com/archcanvas/archcanvas/internal/geometry"
)

// WaypointWriter receives a freshly-routed polyline for edgeID. The
// router package has no notion of ViewState; the caller supplies this
// to write waypoints into whatever store it owns.
type WaypointWriter func(edgeID string, waypoints []geometry.Point)

// Endpoint describes one side of an edge for connection setup: the
// owning node's current shape, the side to pin to, and that side's
// fan-out index among sibling edges leaving the same side.
type Endpoint struct {
	NodeID   string
	Side     Direction
	FanIndex int
	Fallback geometry.Point // used if the node has no registered shape yet
}

// connState is what the service remembers about one edge's connection.
type connState struct {
	conn   Conn
	source geometry.Point
	target geometry.Point
}

// EnsureConnection creates edgeID's connection reference on first use —
// orthogonal routing type, a callback that writes routed waypoints via
// write — and reuses the existing one on subsequent calls. Call this
// whenever an edge's endpoints might have changed; it is safe to call
// every batch.
func (s *Service) EnsureConnection(edgeID string, source, target Endpoint, write WaypointWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.conns[edgeID]
	if !exists {
		conn := s.native.NewConn()
		conn.SetRoutingType(true)
		conn.SetCallback(func(waypoints []geometry.Point) {
			s.handleRoute(edgeID, waypoints, write)
		})
		state = &connState{conn: conn}
		s.conns[edgeID] = state
	}

	state.conn.SetSourceEndpoint(s.resolveEndpoint(source))
	state.conn.SetDestEndpoint(s.resolveEndpoint(target))
	state.source = s.lastKnownPoint(source)
	state.target = s.lastKnownPoint(target)
}

// lastKnownPoint returns the point an L-shape fallback should use for
// this endpoint: always the caller-supplied fallback point, whether or
// not the node is registered as an obstacle.
func (s *Service) lastKnownPoint(e Endpoint) geometry.Point {
	return e.Fallback
}

func (s *Service) resolveEndpoint(e Endpoint) ConnEnd {
	shape, ok := s.obstacles[e.NodeID]
	if !ok {
		return ConnEnd{Point: e.Fallback}
	}
	offsetX, offsetY := portOffset(e.Side, e.FanIndex, s.config.PortEdgeSpacing)
	key := pinKey{NodeID: e.NodeID, Side: e.Side, OffsetX: offsetX, OffsetY: offsetY, Spacing: s.config.PortEdgeSpacing}
	pin := s.pins.getOrCreate(s.native, shape, key)
	return ConnEnd{Shape: shape, Pin: pin}
}

// handleRoute is the callback every Conn is bound to. It rounds
// coordinates to two decimals, falls back to an L-shape when the router
// produces fewer than two points, caches the result, and forwards it to
// write.
func (s *Service) handleRoute(edgeID string, waypoints []geometry.Point, write WaypointWriter) {
	if len(waypoints) < 2 {
		if state, ok := s.conns[edgeID]; ok {
			waypoints = lShapeFallback(state.source, state.target)
		}
	}
	rounded := make([]geometry.Point, len(waypoints))
	for i, p := range waypoints {
		rounded[i] = geometry.Point{X: round2(p.X), Y: round2(p.Y)}
	}
	s.routesCache[edgeID] = rounded
	if write != nil {
		write(edgeID, rounded)
	}
}

// lShapeFallback builds a two-segment orthogonal path between the last
// known endpoints when the router cannot produce a real route.
func lShapeFallback(source, target geometry.Point) []geometry.Point {
	bend := geometry.Point{X: target.X, Y: source.Y}
	return []geometry.Point{source, bend, target}
}

// RemoveConnection deletes edgeID's connector from the native router and
// purges its cached route, per the stale-route-prevention rule.
func (s *Service) RemoveConnection(edgeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.conns[edgeID]
	if !ok {
		return
	}
	s.native.DeleteConnector(state.conn)
	delete(s.conns, edgeID)
	delete(s.routesCache, edgeID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
