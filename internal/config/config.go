// Package config loads the process-wide numeric tuning knobs for
// layout, routing and persistence from YAML, filling in defaults for
// anything the file omits. A missing config file is fine — LoadFile
// returns Default() — but a malformed one is an error, matching
// the teacher's prefilter config loader convention.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full set of tunable constants: grid and default sizing
// for internal/layout, router parameters, and the persistence snapshot
// TTL. cmd/canvasd reads the sizing fields, PortEdgeSpacing (as the
// layout spacing) and SnapshotTTLHours; the other router fields are
// loaded and validated but not read by any package.
type Config struct {
	GridSize         float64 `yaml:"gridSize" validate:"gt=0"`
	ContainerPadding float64 `yaml:"containerPadding" validate:"gte=0"`
	DefaultNodeW     float64 `yaml:"defaultNodeWidth" validate:"gt=0"`
	DefaultNodeH     float64 `yaml:"defaultNodeHeight" validate:"gt=0"`
	DefaultGroupW    float64 `yaml:"defaultGroupWidth" validate:"gt=0"`
	DefaultGroupH    float64 `yaml:"defaultGroupHeight" validate:"gt=0"`

	ShapeBufferDistance  float64 `yaml:"shapeBufferDistance" validate:"gte=0"`
	IdealNudgingDistance float64 `yaml:"idealNudgingDistance" validate:"gte=0"`
	PortEdgeSpacing      float64 `yaml:"portEdgeSpacing" validate:"gt=0"`
	SegmentPenalty       float64 `yaml:"segmentPenalty" validate:"gte=0"`
	CrossingPenalty      float64 `yaml:"crossingPenalty" validate:"gte=0"`
	SharedPathPenalty    float64 `yaml:"sharedPathPenalty" validate:"gte=0"`

	// NudgeOrthogonalSegmentsConnectedToShapes and its two siblings are
	// the router's nudging-family options; the core ships them disabled
	// to keep routed edges from "ballooning" around obstacles.
	NudgeOrthogonalSegmentsConnectedToShapes bool `yaml:"nudgeOrthogonalSegmentsConnectedToShapes"`
	NudgeOrthogonalTouchingColinearSegments  bool `yaml:"nudgeOrthogonalTouchingColinearSegments"`
	NudgeSharedPathsWithCommonEndPoint       bool `yaml:"nudgeSharedPathsWithCommonEndPoint"`

	SnapshotTTLHours int `yaml:"snapshotTTLHours" validate:"gt=0"`
}

// Default returns the configuration used when no file is present, with
// every constant matching the documented defaults.
func Default() Config {
	return Config{
		GridSize:         16,
		ContainerPadding: 24,
		DefaultNodeW:     96,
		DefaultNodeH:     96,
		DefaultGroupW:    480,
		DefaultGroupH:    320,

		ShapeBufferDistance:  32,
		IdealNudgingDistance: 8,
		PortEdgeSpacing:      8,
		SegmentPenalty:       10,
		CrossingPenalty:      100,
		SharedPathPenalty:    10000,

		NudgeOrthogonalSegmentsConnectedToShapes: false,
		NudgeOrthogonalTouchingColinearSegments:  false,
		NudgeSharedPathsWithCommonEndPoint:       false,

		SnapshotTTLHours: 24,
	}
}

var validate = validator.New()

// fillDefaults overwrites any zero-valued numeric field in c with its
// Default() counterpart, so a YAML file only needs to list the
// constants it wants to override.
func fillDefaults(c *Config, d Config) {
	if c.GridSize == 0 {
		c.GridSize = d.GridSize
	}
	if c.ContainerPadding == 0 {
		c.ContainerPadding = d.ContainerPadding
	}
	if c.DefaultNodeW == 0 {
		c.DefaultNodeW = d.DefaultNodeW
	}
	if c.DefaultNodeH == 0 {
		c.DefaultNodeH = d.DefaultNodeH
	}
	if c.DefaultGroupW == 0 {
		c.DefaultGroupW = d.DefaultGroupW
	}
	if c.DefaultGroupH == 0 {
		c.DefaultGroupH = d.DefaultGroupH
	}
	if c.ShapeBufferDistance == 0 {
		c.ShapeBufferDistance = d.ShapeBufferDistance
	}
	if c.IdealNudgingDistance == 0 {
		c.IdealNudgingDistance = d.IdealNudgingDistance
	}
	if c.PortEdgeSpacing == 0 {
		c.PortEdgeSpacing = d.PortEdgeSpacing
	}
	if c.SegmentPenalty == 0 {
		c.SegmentPenalty = d.SegmentPenalty
	}
	if c.CrossingPenalty == 0 {
		c.CrossingPenalty = d.CrossingPenalty
	}
	if c.SharedPathPenalty == 0 {
		c.SharedPathPenalty = d.SharedPathPenalty
	}
	if c.SnapshotTTLHours == 0 {
		c.SnapshotTTLHours = d.SnapshotTTLHours
	}
}

// Load parses data as YAML into a Config, fills in any field the file
// left at its zero value from Default(), and validates the result.
func Load(data []byte) (Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	fillDefaults(&cfg, Default())
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// LoadFile reads path and calls Load on its contents. A missing file is
// not an error: LoadFile returns Default() unchanged. Any other read
// failure, or a malformed file, is returned as an error.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Load(data)
}
