package router

// Config carries the router initialization parameters set once, for the
// life of the process, on the wrapped native router instance.
type Config struct {
	IdealNudgingDistance float64
	SegmentPenalty       float64
	CrossingPenalty      float64
	SharedPathPenalty    float64
	ShapeBufferDistance  float64
	PortEdgeSpacing      float64
}

// DefaultConfig returns the routing parameters used when no override is
// supplied: nudging-family options disabled to prevent edge "ballooning",
// a conservative shape buffer, and a default port fan-out spacing.
func DefaultConfig() Config {
	return Config{
		IdealNudgingDistance: 8,
		SegmentPenalty:       10,
		CrossingPenalty:      100,
		SharedPathPenalty:    10000,
		ShapeBufferDistance:  32,
		PortEdgeSpacing:      8,
	}
}

func (c Config) apply(native NativeRouter) {
	native.SetRoutingOption("nudgeOrthogonalSegmentsConnectedToShapes", false)
	native.SetRoutingOption("nudgeOrthogonalTouchingColinearSegments", false)
	native.SetRoutingOption("nudgeSharedPathsWithCommonEndPoint", false)
	native.SetRoutingParameter("idealNudgingDistance", c.IdealNudgingDistance)
	native.SetRoutingParameter("segmentPenalty", c.SegmentPenalty)
	native.SetRoutingParameter("crossingPenalty", c.CrossingPenalty)
	native.SetRoutingParameter("sharedPathPenalty", c.SharedPathPenalty)
	native.SetRoutingParameter("shapeBufferDistance", c.ShapeBufferDistance)
}
