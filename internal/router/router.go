package router

import (
	"sync"

	"github.com/archcanvas/archcanvas/internal/geometry"
)

// Signal is one of the fire-and-forget notifications the router emits
// after a batch transaction, for a renderer (or test) to subscribe to.
type Signal struct {
	Name    string
	Version int
	NodeIDs []string
}

// SignalFunc receives router signals. Nil is a valid no-op subscriber.
type SignalFunc func(Signal)

// Service is the single long-lived obstacle-routing world for a
// session. It is never recreated; obstacles and connections are
// registered once and moved, not rebuilt, thereafter.
type Service struct {
	mu          sync.Mutex
	native      NativeRouter
	config      Config
	gridSize    float64
	obstacles   map[string]Shape
	conns       map[string]*connState
	pins        *pinCache
	routesCache map[string][]geometry.Point
	version     int
	onSignal    SignalFunc
}

// New constructs a Service around native, applying cfg's routing
// parameters immediately.
func New(native NativeRouter, cfg Config, gridSize float64, onSignal SignalFunc) *Service {
	cfg.apply(native)
	return &Service{
		native:      native,
		config:      cfg,
		gridSize:    gridSize,
		obstacles:   map[string]Shape{},
		conns:       map[string]*connState{},
		pins:        newPinCache(),
		routesCache: map[string][]geometry.Point{},
		onSignal:    onSignal,
	}
}

// ConnectorEndpointUpdate describes one connector whose source or
// target moved and must be re-pinned before the next transaction.
type ConnectorEndpointUpdate struct {
	EdgeID string
	Source Endpoint
	Target Endpoint
	Write  WaypointWriter
}

// BatchUpdateObstaclesAndReroute applies every obstacle update, re-pins
// every listed connector, and runs exactly one processTransaction call
// so every affected connection's callback fires in a single pass. It
// returns the new routing version.
func (s *Service) BatchUpdateObstaclesAndReroute(obstacles []ObstacleUpdate, connectors []ConnectorEndpointUpdate) int {
	s.mu.Lock()
	for _, u := range obstacles {
		s.updateObstacle(u.NodeID, u.Rect)
	}
	s.mu.Unlock()

	for _, c := range connectors {
		s.EnsureConnection(c.EdgeID, c.Source, c.Target, c.Write)
	}

	s.mu.Lock()
	s.native.ProcessTransaction()
	s.version++
	version := s.version
	affected := make([]string, 0, len(obstacles))
	for _, u := range obstacles {
		affected = append(affected, u.NodeID)
	}
	s.mu.Unlock()

	s.emit(Signal{Name: "obstacles-moved", Version: version, NodeIDs: affected})
	s.emit(Signal{Name: "routing-update", Version: version})
	s.emit(Signal{Name: "viewstate-updated", Version: version})
	return version
}

func (s *Service) emit(sig Signal) {
	if s.onSignal != nil {
		s.onSignal(sig)
	}
}

// CachedRoute returns the last routed polyline for edgeID, if any.
func (s *Service) CachedRoute(edgeID string) ([]geometry.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routesCache[edgeID]
	return r, ok
}

// RoutingVersion returns the current routing version counter.
func (s *Service) RoutingVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
