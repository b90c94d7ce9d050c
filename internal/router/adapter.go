// Package router wraps a single long-lived obstacle-avoiding routing
// library instance: it owns obstacle shapes and connection references
// for the FREE-mode world and keeps them moved, not recreated, across
// position updates so connector identity survives drag.
//
// The native routing library is treated as an opaque collaborator via
// the small NativeRouter/Shape/Conn interfaces below — production code
// wires a real orthogonal-connector library; tests use a fake.
package router

import "github.com/archcanvas/archcanvas/internal/geometry"

// Direction is a pin's attachment side on its shape. Non-exclusive: a
// shape can carry pins on more than one side at once.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirTop
	DirBottom
)

// Rectangle is the native router's obstacle/shape bounds, expressed as
// opposite corners the way the wrapped library expects them.
type Rectangle struct {
	TopLeft     geometry.Point
	BottomRight geometry.Point
}

func rectangleOf(r geometry.Rect) Rectangle {
	return Rectangle{TopLeft: r.TopLeft(), BottomRight: geometry.Point{X: r.Right(), Y: r.Bottom()}}
}

// Shape is a registered obstacle.
type Shape interface {
	Move(rect Rectangle)
}

// Pin is a directional attachment point on a Shape.
type Pin interface{}

// ConnEnd is one endpoint of a connection: either bound to a pin on a
// shape, or a raw point when no pin is available yet.
type ConnEnd struct {
	Shape Shape
	Pin   Pin
	Point geometry.Point
}

// Conn is a single connection reference between two endpoints.
type Conn interface {
	SetRoutingType(orthogonal bool)
	SetSourceEndpoint(end ConnEnd)
	SetDestEndpoint(end ConnEnd)
	SetCallback(cb func(waypoints []geometry.Point))
	DisplayRoute() []geometry.Point
}

// NativeRouter is the wrapped obstacle-routing library's entry point.
type NativeRouter interface {
	NewShape(rect Rectangle) Shape
	NewConn() Conn
	NewPin(shape Shape, pinID string, offsetX, offsetY float64, proportional bool, direction Direction) Pin
	DeleteConnector(c Conn)
	ProcessTransaction()
	SetRoutingOption(name string, enabled bool)
	SetRoutingParameter(name string, value float64)
}
