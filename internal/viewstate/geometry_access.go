package viewstate

import "log/slog"

// Environment selects requireGeometry's failure behaviour.
type Environment int

const (
	// EnvProduction logs and returns a safe zero rectangle on a missing
	// entry.
	EnvProduction Environment = iota
	// EnvDevelopment panics on a missing entry so the bug surfaces
	// immediately during development.
	EnvDevelopment
)

// MissingGeometryError is raised (in EnvDevelopment) or logged (in
// EnvProduction) when rendering requires a ViewState entry that is
// absent.
type MissingGeometryError struct {
	Kind string // "node" or "group"
	ID   string
}

func (e *MissingGeometryError) Error() string {
	return "viewstate: missing " + e.Kind + " geometry for " + e.ID
}

// RequireNodeGeometry returns vs's node geometry for id. In
// EnvDevelopment a missing entry panics with *MissingGeometryError; in
// EnvProduction it logs a warning and returns a safe zero rectangle.
func RequireNodeGeometry(vs *ViewState, id string, env Environment, logger *slog.Logger) NodeGeometry {
	g, ok := vs.GetNode(id)
	if ok {
		return g
	}
	err := &MissingGeometryError{Kind: "node", ID: id}
	if env == EnvDevelopment {
		panic(err)
	}
	if logger != nil {
		logger.Warn("missing node geometry, returning zero rect", "id", id, "error", err.Error())
	}
	return NodeGeometry{}
}

// RequireGroupGeometry returns vs's group geometry for id. Behaviour
// mirrors RequireNodeGeometry.
func RequireGroupGeometry(vs *ViewState, id string, env Environment, logger *slog.Logger) GroupGeometry {
	g, ok := vs.GetGroup(id)
	if ok {
		return g
	}
	err := &MissingGeometryError{Kind: "group", ID: id}
	if env == EnvDevelopment {
		panic(err)
	}
	if logger != nil {
		logger.Warn("missing group geometry, returning zero rect", "id", id, "error", err.Error())
	}
	return GroupGeometry{}
}
