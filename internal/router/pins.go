package router

import "github.com/google/uuid"

// pinKey identifies a cacheable pin: repeated edge updates that ask for
// the same node, side and fan-out offset reuse the same Pin identity
// instead of registering a new one on the native router every time.
type pinKey struct {
	NodeID  string
	Side    Direction
	OffsetX float64
	OffsetY float64
	Spacing float64
}

// pinCache maps pinKey to the native Pin previously created for it.
type pinCache struct {
	entries map[pinKey]Pin
}

func newPinCache() *pinCache {
	return &pinCache{entries: map[pinKey]Pin{}}
}

// getOrCreate returns the cached pin for key, creating one on native
// (with a freshly generated pin id, since the native API requires one)
// and caching it if this is the first request for this exact key.
func (c *pinCache) getOrCreate(native NativeRouter, shape Shape, key pinKey) Pin {
	if pin, ok := c.entries[key]; ok {
		return pin
	}
	pin := native.NewPin(shape, uuid.NewString(), key.OffsetX, key.OffsetY, true, key.Side)
	c.entries[key] = pin
	return pin
}

func (c *pinCache) forget(nodeID string) {
	for key := range c.entries {
		if key.NodeID == nodeID {
			delete(c.entries, key)
		}
	}
}

// portOffset computes a pin's (offsetX, offsetY) on its shape in [0,1]
// for the given side, fanned apart from other edges on the same side by
// index * spacing (clamped into the unit interval so a long fan never
// slides off the shape).
func portOffset(side Direction, index int, spacing float64) (float64, float64) {
	fan := clamp01(0.5 + float64(index)*spacing)
	switch side {
	case DirLeft:
		return 0, fan
	case DirRight:
		return 1, fan
	case DirTop:
		return fan, 0
	case DirBottom:
		return fan, 1
	default:
		return 0.5, 0.5
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
